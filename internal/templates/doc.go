// Package templates provides site scaffolding templates.
//
// Templates are created by scraps init:
//
//   - minimal: a single page
//   - blog: a post index driven by a YAML render context, plus an about page
//
// # Usage
//
//	tmpl, err := templates.Get("blog")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(siteDir, templates.Config{Name: "notes"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Template files use [[ ]] delimiters so page markers stay intact:
//
//	[[.Name]]   - Name of the site
//	[[.Title]]  - Site title (defaults to the name)
package templates

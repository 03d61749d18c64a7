// Package build renders a whole site to static files.
//
// Every page in the store is rendered once with the site's render
// context. Pages that declare styles also get a stylesheet.
//
// # Usage
//
//	builder := build.New(cfg, st, build.Options{Context: siteCtx})
//	result, err := builder.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Built %d pages in %s\n", result.Pages, result.Duration)
//
// # Output Structure
//
//	dist/
//	├── index.html
//	├── index.css        # only when the page declares styles
//	├── about.html
//	└── manifest.json    # file name -> BLAKE3 hash
package build

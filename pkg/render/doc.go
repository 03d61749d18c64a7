// Package render turns spaces of scraps into HTML.
//
// A page is an ordered space whose entries are root scraps. Each scrap
// declares the element it becomes:
//
//	header
//	 type h1
//	 class title
//	 content Hello {{user.name Guest}}
//	 style
//	  color red
//	colors
//	 type ul
//	 loop {{palette}}
//	 scraps
//	  {{key}}
//	   type li
//	   content {{value}}
//
// Rendering a scrap runs four stages in order: the element type and
// standard attributes, the content, the style and the event attributes.
// Content comes from exactly one source, in priority order: a loop, the
// literal content value, or the nested child scraps.
//
// # Basic Usage
//
//	values, err := space.Parse(text)
//	if err != nil {
//	    return err
//	}
//	page := render.NewPage(values)
//	html, err := page.Render(map[string]any{"user": user})
//
// # Variables
//
// Markers of the form {{name}} or {{name placeholder text}} are replaced
// with the value found at the dotted path name in the render context.
// Missing values fall back to the placeholder, or to nothing. Contexts may
// be spaces, maps, slices, Layers or any Lookuper.
//
// # Loops
//
// A scrap that declares both loop and scraps repeats its child template
// once per loop item. The template is serialized, its markers are filled
// from {key, value} first and from the render context second, and the
// result is parsed again. Text that no longer parses is reported as a
// TemplateExpansionError.
//
// # Security
//
// Nothing is escaped. Content, attributes and especially event
// attributes are copied into the markup as written, so pages and
// contexts must come from trusted sources or be sanitized by the caller.
package render

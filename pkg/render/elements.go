package render

// defaultTag is the element used when a scrap declares no type.
const defaultTag = "div"

// inputTypes are type keywords that render as <input type="...">.
var inputTypes = map[string]bool{
	"checkbox": true,
	"color":    true,
	"date":     true,
	"datetime": true,
	"email":    true,
	"file":     true,
	"month":    true,
	"number":   true,
	"password": true,
	"radio":    true,
	"range":    true,
	"search":   true,
	"tel":      true,
	"text":     true,
	"time":     true,
	"url":      true,
	"week":     true,
}

// inputAliases map type keywords to a fixed input type.
var inputAliases = map[string]string{
	"inputbutton": "button",
	"hidden":      "hidden",
}

// standardAttributes are copied onto the element after variable
// substitution.
var standardAttributes = []string{
	"checked",
	"class",
	"disabled",
	"draggable",
	"dropzone",
	"end",
	"for",
	"height",
	"href",
	"max",
	"maxlength",
	"min",
	"name",
	"origin",
	"pattern",
	"placeholder",
	"readonly",
	"rel",
	"required",
	"selected",
	"spellcheck",
	"src",
	"tabindex",
	"target",
	"title",
	"width",
	"value",
}

// eventAttributes are copied onto the element verbatim. Their values
// become executable handlers in the browser.
var eventAttributes = []string{
	"onblur",
	"onchange",
	"onclick",
	"oncontextmenu",
	"onenterkey",
	"onfocus",
	"onhold",
	"onkeydown",
	"onkeypress",
	"onkeyup",
	"onmousedown",
	"onmouseout",
	"onmouseover",
	"onmouseup",
	"onorientationchange",
	"onsubmit",
	"ontouchend",
	"ontouchmove",
	"ontouchstart",
}

// resolveTag maps a type keyword to a tag name and an optional input type.
func resolveTag(kind string) (tag, inputType string) {
	if kind == "" {
		return defaultTag, ""
	}
	if inputTypes[kind] {
		return "input", kind
	}
	if alias, ok := inputAliases[kind]; ok {
		return "input", alias
	}
	return kind, ""
}

// StandardAttributes returns the attribute names a scrap may declare.
func StandardAttributes() []string {
	return append([]string(nil), standardAttributes...)
}

// EventAttributes returns the event attribute names a scrap may declare.
func EventAttributes() []string {
	return append([]string(nil), eventAttributes...)
}

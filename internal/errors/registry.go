package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (E001-E019)
	// ============================================

	"E001": {
		Category:   CategoryRender,
		Message:    "Loop template expansion failed",
		Detail:     "A loop iteration produced text that is not a valid space once its variables were filled in.",
		Suggestion: "Check that loop values are single-line and that loop keys contain no spaces",
	},
	"E002": {
		Category:   CategoryParse,
		Message:    "Invalid page file",
		Detail:     "The page is not valid space notation.",
		Suggestion: "Nested entries are indented by exactly one space more than their parent",
	},

	// ============================================
	// Store Errors (E100-E119)
	// ============================================

	"E101": {
		Category: CategoryStore,
		Message:  "Page not found",
	},
	"E102": {
		Category: CategoryStore,
		Message:  "Failed to read page",
	},
	"E103": {
		Category: CategoryStore,
		Message:  "Failed to write page",
	},
	"E104": {
		Category:   CategoryStore,
		Message:    "Invalid page name",
		Suggestion: "Page names may contain letters, digits, '-' and '_'",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Invalid scraps.json",
		Suggestion: "Check that scraps.json is valid JSON",
	},
	"E141": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create scraps.json in the site directory or pass --dir",
	},
	"E142": {
		Category:   CategoryConfig,
		Message:    "Failed to write build output",
		Suggestion: "Check that build.output in scraps.json points to a writable directory",
	},
	"E145": {
		Category: CategoryConfig,
		Message:  "Unknown site template",
	},
	"E146": {
		Category:   CategoryConfig,
		Message:    "File already exists",
		Suggestion: "Run scraps init in an empty directory",
	},

	// ============================================
	// CLI Errors (E150-E169)
	// ============================================

	"E150": {
		Category: CategoryCLI,
		Message:  "Failed to read render context",
	},
	"E151": {
		Category:   CategoryCLI,
		Message:    "Unsupported render context format",
		Suggestion: "Use a .yaml, .yml or .json file",
	},
	"E152": {
		Category:   CategoryCLI,
		Message:    "Invalid variable",
		Suggestion: "Variables are passed as --var name=value",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Not Found Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryNotFound,
		Message:  "Manifest not found",
	},
	"E102": {
		Category: CategoryNotFound,
		Message:  "Template config not found",
	},
	"E103": {
		Category: CategoryNotFound,
		Message:  "Template not found",
	},

	// ============================================
	// Validation Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryValidation,
		Message:  "Invalid template name",
	},
	"E202": {
		Category: CategoryValidation,
		Message:  "Template already exists",
	},
	"E203": {
		Category: CategoryValidation,
		Message:  "Malformed template config",
	},
	"E204": {
		Category: CategoryValidation,
		Message:  "Malformed package manifest",
	},
	"E205": {
		Category: CategoryValidation,
		Message:  "Invalid import source",
	},

	// ============================================
	// Analysis Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryAnalysis,
		Message:  "No source directory found",
	},
	"E302": {
		Category: CategoryAnalysis,
		Message:  "Could not fetch remote repository",
	},

	// ============================================
	// IO Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryIO,
		Message:  "Could not create directory",
	},
	"E402": {
		Category: CategoryIO,
		Message:  "Could not write file",
	},
	"E403": {
		Category: CategoryIO,
		Message:  "Could not copy files",
	},
	"E404": {
		Category: CategoryIO,
		Message:  "Could not read file",
	},
	"E405": {
		Category: CategoryIO,
		Message:  "Could not remove directory",
	},
	"E406": {
		Category: CategoryIO,
		Message:  "Remote store request failed",
	},

	// ============================================
	// Config Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryConfig,
		Message:  "Could not parse configuration",
	},
	"E502": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

package config

import "fmt"

// Error code constants for configuration failures.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeReadFailed       = "E002" // Config file unreadable
	ErrCodeFormat           = "E003" // Unsupported file extension
	ErrCodeParseFailed      = "E004" // YAML/CUE syntax error
	ErrCodeNotFound         = "E005" // Config file not found
	ErrCodeSchema           = "E006" // CUE schema violation
	ErrCodeVersion          = "E010" // Unsupported version
	ErrCodeNoTargets        = "E011" // Empty targets list
	ErrCodeMissingPath      = "E012" // Target without path
	ErrCodePlacerConflict   = "E013" // Both template and placer set
	ErrCodeUnknownPlacer    = "E014" // Placer name not registered
	ErrCodeUnknownTransform = "E015" // Transform name not registered
	ErrCodeBadPattern       = "E016" // Malformed glob
	ErrCodeDuplicateTarget  = "E017" // Same target listed twice
)

// LoadError represents an error that occurred while loading or validating
// a configuration file.
type LoadError struct {
	Code    string
	Message string
	Field   string // e.g. "targets[0].placer", empty for file-level errors
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

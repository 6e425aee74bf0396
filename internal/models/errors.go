package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrParse ErrorType = iota
	ErrSchema
	ErrStructural
	ErrSerialization
	ErrFileOp
	ErrInvalidConfig
	ErrSigning
	ErrIntegrity
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrParse:
		return "Parse"
	case ErrSchema:
		return "Schema"
	case ErrStructural:
		return "Structural"
	case ErrSerialization:
		return "Serialization"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrSigning:
		return "Signing"
	case ErrIntegrity:
		return "Integrity"
	default:
		return "Unknown"
	}
}

// PkgDBError represents an error raised while validating or compiling the database
type PkgDBError struct {
	Type ErrorType
	Path string
	Err  error
}

// Error implements the error interface
func (e *PkgDBError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *PkgDBError) Unwrap() error {
	return e.Err
}

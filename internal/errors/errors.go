package errors

import (
	"fmt"
	"os"
	"time"
)

// Error types for the ddoc system
type ErrorType string

const (
	// Per-file processing errors
	ErrorTypeAnalysis   ErrorType = "analysis"
	ErrorTypeGeneration ErrorType = "generation"
	ErrorTypeConflict   ErrorType = "conflict_markers"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// AnalysisError represents an error while analyzing a source file
type AnalysisError struct {
	Type       ErrorType
	FilePath   string
	Language   string
	Underlying error
	Timestamp  time.Time
}

// NewAnalysisError creates a new analysis error with context
func NewAnalysisError(path, language string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       ErrorTypeAnalysis,
		FilePath:   path,
		Language:   language,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s analysis failed for %s: %v", e.Language, e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// GenerationError represents a failed generation collaborator call
type GenerationError struct {
	Type       ErrorType
	FilePath   string
	Underlying error
	Timestamp  time.Time
}

// NewGenerationError creates a new generation error
func NewGenerationError(path string, err error) *GenerationError {
	return &GenerationError{
		Type:       ErrorTypeGeneration,
		FilePath:   path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %v", e.FilePath, e.Underlying)
}

// Unwrap returns the underlying error
func (e *GenerationError) Unwrap() error {
	return e.Underlying
}

// ConflictMarkerError indicates a source file still contains unresolved
// merge-conflict markers. Generation is never attempted for such a file.
type ConflictMarkerError struct {
	Type     ErrorType
	FilePath string
	Line     int
}

// NewConflictMarkerError creates a conflict marker error
func NewConflictMarkerError(path string, line int) *ConflictMarkerError {
	return &ConflictMarkerError{
		Type:     ErrorTypeConflict,
		FilePath: path,
		Line:     line,
	}
}

// Error implements the error interface
func (e *ConflictMarkerError) Error() string {
	return fmt.Sprintf("unresolved merge conflict markers in %s (line %d)", e.FilePath, e.Line)
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	return os.IsPermission(err)
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %s with value %q: %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

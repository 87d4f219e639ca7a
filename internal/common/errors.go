package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// FileTypeError reports an input whose extension is outside the supported
// set. It is raised before any extraction work begins and never retried.
type FileTypeError struct {
	Path string
	Ext  string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s", e.Ext, e.Path)
}

func NewFileTypeError(path, ext string) *FileTypeError {
	return &FileTypeError{Path: path, Ext: ext}
}

// ExtractionError reports a failed text-layer read or OCR invocation.
// Page is zero-based; -1 when the failure is not tied to a single page.
type ExtractionError struct {
	Path  string
	Page  int
	Cause error
}

func (e *ExtractionError) Error() string {
	if e.Page >= 0 {
		return fmt.Sprintf("extraction failed for %s page %d: %v", e.Path, e.Page, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %v", e.Path, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func NewExtractionError(path string, page int, cause error) *ExtractionError {
	return &ExtractionError{Path: path, Page: page, Cause: cause}
}

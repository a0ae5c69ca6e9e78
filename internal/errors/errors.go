package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrRowLengths      = errors.New("paths, names and values must have equal length")
	ErrDepthExceeded   = errors.New("maximum nesting depth exceeded")
)

// ErrorType categorizes errors by pipeline stage
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeEncode  ErrorType = "encode"
	ErrorTypeDecode  ErrorType = "decode"
	ErrorTypeSelect  ErrorType = "select"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewEncodeError creates a new error related to flattening a JSON tree
func NewEncodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeEncode,
		Message: message,
		Err:     err,
	}
}

// NewDecodeError creates a new error related to reconstruction
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewSelectError creates a new error related to subgraph selection
func NewSelectError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSelect,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeEncode:
			return fmt.Sprintf("Flattening error: %s", appErr.Message)
		case ErrorTypeDecode:
			return fmt.Sprintf("Reconstruction error: %s", appErr.Message)
		case ErrorTypeSelect:
			return fmt.Sprintf("Selection error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrRowLengths) {
		return "Error: The paths, names and values columns must all have the same number of rows."
	}
	if errors.Is(err, ErrDepthExceeded) {
		return "Error: The input is nested more deeply than the configured maximum depth."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

package errors

import "fmt"

// Constructors for the error kinds produced by the front door and the analysis engine.

// NewSyntaxError reports input the Rust item parser could not understand
func NewSyntaxError(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return Newf(SyntaxErrorCode, format, args...).WithLocation(loc)
}

// NewOptionError reports an invalid #[entrait(...)] option
func NewOptionError(loc SourceLocation, format string, args ...interface{}) *BaseError {
	return Newf(OptionErrorCode, format, args...).WithLocation(loc)
}

// NewShapeError reports an item whose syntactic shape cannot be transformed
func NewShapeError(loc SourceLocation, message string) *BaseError {
	return New(ShapeErrorCode, message).WithLocation(loc)
}

// NewInternalError reports a state the analysis engine does not expect to reach
func NewInternalError(loc SourceLocation, message string) *BaseError {
	return New(InternalErrorCode, message).WithLocation(loc).
		WithSuggestion("this is a bug in entrait, please report it with the offending item")
}

// NewGenerationError reports an item the generator was asked to expand but cannot
func NewGenerationError(loc SourceLocation, message string) *BaseError {
	return New(GenerationErrorCode, message).WithLocation(loc)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration loading errors
func WrapConfigurationError(source string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to load configuration from %s", source), cause).
		WithContext("source", source)
}

// AsEntraitError returns err as an EntraitError when it is one
func AsEntraitError(err error) (EntraitError, bool) {
	e, ok := err.(EntraitError)
	return e, ok
}

package domain

import (
	"errors"
	"fmt"
)

// Error codes carried by CorpusError.
const (
	CodeInvalidValue = "INVALID_VALUE"
	CodeOutOfRange   = "OUT_OF_RANGE"
	CodeArity        = "ARITY_MISMATCH"
	CodeCorpusType   = "CORPUS_TYPE"
)

// ErrCorpusType is wrapped by errors about corpus values of the wrong Go type.
var ErrCorpusType = errors.New("corpus value of unexpected type")

// Component names the part of a composite corpus value an error refers to.
type Component string

const (
	ComponentInput   Component = "input"
	ComponentOutput  Component = "output"
	ComponentElement Component = "element"
)

// CorpusError describes why a corpus value is invalid. Composite domains
// wrap the error of the failing part, naming the component and its index.
type CorpusError struct {
	Code      string
	Component Component
	// Index is the position of the failing component. It is only
	// meaningful for ComponentInput and ComponentElement.
	Index   int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CorpusError) Error() string {
	msg := e.Message
	switch e.Component {
	case ComponentInput, ComponentElement:
		msg += fmt.Sprintf(" (%s %d)", e.Component, e.Index)
	case ComponentOutput:
		msg += " (output)"
	}
	if e.Err != nil {
		if msg == "" {
			return e.Err.Error()
		}
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *CorpusError) Unwrap() error {
	return e.Err
}

// Invalid creates a leaf validation error.
func Invalid(code, format string, args ...any) *CorpusError {
	return &CorpusError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// InputError wraps the validation error of the input at index.
func InputError(index int, message string, err error) *CorpusError {
	return &CorpusError{
		Code:      CodeOf(err),
		Component: ComponentInput,
		Index:     index,
		Message:   message,
		Err:       err,
	}
}

// OutputError wraps the validation error of a combinator's output.
func OutputError(message string, err error) *CorpusError {
	return &CorpusError{
		Code:      CodeOf(err),
		Component: ComponentOutput,
		Message:   message,
		Err:       err,
	}
}

// ElementError wraps the validation error of a container element.
func ElementError(index int, message string, err error) *CorpusError {
	return &CorpusError{
		Code:      CodeOf(err),
		Component: ComponentElement,
		Index:     index,
		Message:   message,
		Err:       err,
	}
}

// CodeOf returns the code of the outermost CorpusError in err's chain, or
// CodeInvalidValue when there is none.
func CodeOf(err error) string {
	var ce *CorpusError
	if errors.As(err, &ce) && ce.Code != "" {
		return ce.Code
	}
	return CodeInvalidValue
}

package types

// Kinds of domain errors that map to client errors.
const (
	KindValidation = "ValidationError"
	KindNotFound   = "NotFoundError"
)

// KindedError is implemented by errors that are identified by a kind name
// rather than by their Go type.
type KindedError interface {
	error
	ErrorKind() string
}

// KindError is a domain error identified by its kind name.
type KindError struct {
	Kind    string
	Message string
}

var _ KindedError = (*KindError)(nil)

// Error returns the error message string.
func (e *KindError) Error() string {
	return e.Message
}

// ErrorKind returns the kind name of the error.
func (e *KindError) ErrorKind() string {
	return e.Kind
}

// NewNotFoundError returns an error of kind NotFoundError.
func NewNotFoundError(message string) *KindError {
	return &KindError{Kind: KindNotFound, Message: message}
}

// NewInvalidError returns an error of kind ValidationError.
func NewInvalidError(message string) *KindError {
	return &KindError{Kind: KindValidation, Message: message}
}

package service

// ErrorKind classifies workflow errors so the transport layer can map them
// to status codes without inspecting messages.
type ErrorKind string

const (
	// KindValidation covers malformed identifiers, missing referenced
	// entities and failed business-rule preconditions.
	KindValidation ErrorKind = "validation"
	// KindNotFound covers absent primary entities.
	KindNotFound ErrorKind = "not_found"
	// KindAuthorization covers actor mismatches, e.g. the wrong manager
	// deciding a purchase request.
	KindAuthorization ErrorKind = "authorization"
	// KindConflict covers entities not in the required state for the
	// requested transition.
	KindConflict ErrorKind = "conflict"
)

// Error is a classified workflow error
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

package httpbind

import "errors"

var (
	ErrNilParameterSet  = errors.New("httpbind: parameter set is nil")
	ErrUnknownParameter = errors.New("httpbind: binding names an undeclared parameter")
	ErrDuplicateBinding = errors.New("httpbind: parameter is bound more than once")
	ErrMultipleBodies   = errors.New("httpbind: more than one parameter is bound to the request body")
	ErrUnsupportedType  = errors.New("httpbind: parameter type cannot be bound from a string source")
	ErrNilHandler       = errors.New("httpbind: handler function is nil")
	ErrInvalidBodyLimit = errors.New("httpbind: body size limit must be positive")
)

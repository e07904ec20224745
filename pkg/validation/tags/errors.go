package tags

import "errors"

var (
	ErrUnknownTag         = errors.New("tags: unknown validation tag")
	ErrInvalidTag         = errors.New("tags: malformed validation tag")
	ErrUnsupportedTag     = errors.New("tags: unsupported validation tag")
	ErrRegisterValidation = errors.New("tags: failed to register validation")
	ErrNotStruct          = errors.New("tags: type is not a struct")
)

package message

import "errors"

var (
	ErrParseCatalog        = errors.New("message: failed to parse catalog")
	ErrEmptyCatalog        = errors.New("message: catalog has no languages")
	ErrInvalidLanguage     = errors.New("message: invalid language tag")
	ErrInvalidEntry        = errors.New("message: catalog entry is not a string")
	ErrUnsupportedLanguage = errors.New("message: language not in catalog")
	ErrNilCatalog          = errors.New("message: catalog is nil")
)

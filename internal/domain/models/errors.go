package models

import "errors"

// Domain outcomes returned (wrapped) by repositories. Anything else is an
// infrastructure failure.
var (
	ErrNotFound          = errors.New("record not found")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrNotEditable       = errors.New("record cannot be edited")
	ErrNonProducing      = errors.New("age group cannot register products")
	ErrReferenceNotFound = errors.New("referenced record not found")
)

// IsDomainError reports whether err carries one of the domain outcomes above.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNotEditable) ||
		errors.Is(err, ErrNonProducing) ||
		errors.Is(err, ErrReferenceNotFound)
}

package core

import (
	"errors"
	"fmt"
)

// Messages returned to API clients.
const (
	MsgUnrecognizedJSONObject = "Unrecognized JSON object."
	MsgPersonIDNotFound       = "Person Id %s not found."
	MsgEmptyPersonID          = "Empty person Id."
	MsgEmptyPersonFirstName   = "Empty person first name."
	MsgEmptyPersonLastName    = "Empty person last name."
	MsgPersonIDMismatch       = "Person Id mismatch."
	MsgImageIDNotFound        = "Image Id %s not found."
	MsgEmptyImageID           = "Empty image Id."
	MsgEmptyImageData         = "Empty image data."
	MsgOneImageRequired       = "Exactly one image is required."
	MsgInvalidImageData       = "Invalid image data."
	MsgInvalidThumbnailSize   = "Thumbnail size must be between %d and %d."
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error is a user facing rejection. It matches ErrValidation, ErrNotFound or
// ErrConflict with errors.Is depending on its Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConflict:
		return e.Kind == KindConflict
	}
	return false
}

func validationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

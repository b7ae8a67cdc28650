package errs

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidCursor = errors.New("invalid page token")
	ErrValidation    = errors.New("invalid book payload")
	ErrUploadFailed  = errors.New("image upload failed")
)

// APIError is the response-safe error shape attached by the JSON router.
type APIError struct {
	Message      string `json:"message"`
	InternalCode string `json:"internalCode"`
}

const (
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidCursor = "INVALID_CURSOR"
	CodeValidation    = "VALIDATION_FAILED"
	CodeUploadFailed  = "UPLOAD_FAILED"
	CodeInternal      = "INTERNAL"
)

package service

import (
	"errors"
	"fmt"
)

var (
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrProviderTimeout  = errors.New("image provider timed out")
	ErrGenerationFailed = errors.New("failed to generate any images")

	ErrImageURLRequired = errors.New("image url is required")
	ErrInvalidImageURL  = errors.New("invalid image url")
	ErrTicketRequired   = errors.New("download ticket is required")
	ErrUpstreamFetch    = errors.New("failed to fetch image")
)

// ValidationError reports a user-correctable problem with a BrandRequest.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProviderError carries the payload of a failed image provider call.
// StatusCode is 0 when the request never got an HTTP answer.
type ProviderError struct {
	StatusCode int
	Details    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ideogram API error: %s", e.Details)
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package dto

import (
	"errors"
	"net/http"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeRequestTooLarge is used when the request body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeValidation is used when credential or payload validation fails
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeUnsupportedMarketplace is used for marketplace types the factory does not know
	ErrCodeUnsupportedMarketplace = "ERR_UNSUPPORTED_MARKETPLACE"
	// ErrCodeBatchTooLarge is used when a sync batch exceeds the marketplace limit
	ErrCodeBatchTooLarge = "ERR_BATCH_TOO_LARGE"
)

// Upstream error codes describe failures returned by the marketplace
const (
	// ErrCodeAuthenticationFailed is used when the marketplace rejects the stored credentials
	ErrCodeAuthenticationFailed = "ERR_AUTHENTICATION_FAILED"
	// ErrCodeNotAuthorized is used when credentials are valid but lack access
	ErrCodeNotAuthorized = "ERR_NOT_AUTHORIZED"
	// ErrCodeRateLimited is used when the marketplace throttled the request
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeUpstream is used for transient or unclassified marketplace failures
	ErrCodeUpstream = "ERR_UPSTREAM"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:             http.StatusBadRequest,
	ErrCodeRequestTooLarge:        http.StatusRequestEntityTooLarge,
	ErrCodeValidation:             http.StatusBadRequest,
	ErrCodeUnsupportedMarketplace: http.StatusBadRequest,
	ErrCodeBatchTooLarge:          http.StatusBadRequest,

	// The stored marketplace credentials belong to the caller, so a
	// rejected token exchange is the caller's fault, not the gateway's.
	ErrCodeAuthenticationFailed: http.StatusUnauthorized,
	ErrCodeNotAuthorized:        http.StatusBadGateway,
	ErrCodeRateLimited:          http.StatusTooManyRequests,
	ErrCodeUpstream:             http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ClassifyError maps a connector error to an error code
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, connector.ErrValidation):
		return ErrCodeValidation
	case errors.Is(err, connector.ErrMarketplaceUnsupported):
		return ErrCodeUnsupportedMarketplace
	case errors.Is(err, connector.ErrAuthenticationFailed):
		return ErrCodeAuthenticationFailed
	case errors.Is(err, connector.ErrNotAuthorized):
		return ErrCodeNotAuthorized
	case errors.Is(err, connector.ErrRateLimited):
		return ErrCodeRateLimited
	case errors.Is(err, connector.ErrTransient),
		errors.Is(err, connector.ErrRequestFailed),
		errors.Is(err, connector.ErrInvalidResponse):
		return ErrCodeUpstream
	default:
		return ErrCodeUnknown
	}
}

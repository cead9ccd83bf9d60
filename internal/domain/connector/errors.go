package connector

import "errors"

// Failure taxonomy for connector operations. Marketplace adapters wrap
// these sentinels with %w so callers classify failures with errors.Is.
var (
	// ErrValidation indicates missing or malformed credentials; raised
	// before any network call
	ErrValidation = errors.New("connector: credential validation failed")
	// ErrAuthenticationFailed indicates token acquisition or refresh failed,
	// or a request still returned 401 after a forced refresh
	ErrAuthenticationFailed = errors.New("connector: authentication failed")
	// ErrNotAuthorized indicates the credentials authenticate but lack
	// access to the requested resource (403)
	ErrNotAuthorized = errors.New("connector: not authorized for resource")
	// ErrRateLimited indicates the marketplace returned 429
	ErrRateLimited = errors.New("connector: rate limited by marketplace")
	// ErrTransient indicates a timeout, connection failure or 5xx response
	ErrTransient = errors.New("connector: transient marketplace error")
	// ErrRequestFailed indicates a non-retryable 4xx rejection
	ErrRequestFailed = errors.New("connector: marketplace request failed")
	// ErrInvalidResponse indicates the marketplace returned an unparseable body
	ErrInvalidResponse = errors.New("connector: invalid marketplace response")
	// ErrMarketplaceUnsupported indicates the factory has no connector for
	// the requested marketplace type
	ErrMarketplaceUnsupported = errors.New("connector: unsupported marketplace type")
)

// IsRetryable reports whether the error class is eligible for bounded
// retry. Authentication failures are deliberately excluded: refresh
// failures must not be hammered through the generic backoff.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

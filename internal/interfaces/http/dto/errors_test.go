package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/channelgrid/backend/internal/domain/connector"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnsupportedMarketplace, http.StatusBadRequest},
		{ErrCodeBatchTooLarge, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeAuthenticationFailed, http.StatusUnauthorized},
		{ErrCodeNotAuthorized, http.StatusBadGateway},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"ERR_NOT_MAPPED", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", connector.ErrValidation, ErrCodeValidation},
		{"unsupported", connector.ErrMarketplaceUnsupported, ErrCodeUnsupportedMarketplace},
		{"authentication", connector.ErrAuthenticationFailed, ErrCodeAuthenticationFailed},
		{"authorization", connector.ErrNotAuthorized, ErrCodeNotAuthorized},
		{"rate limited", connector.ErrRateLimited, ErrCodeRateLimited},
		{"transient", connector.ErrTransient, ErrCodeUpstream},
		{"request failed", connector.ErrRequestFailed, ErrCodeUpstream},
		{"invalid response", connector.ErrInvalidResponse, ErrCodeUpstream},
		{"wrapped", fmt.Errorf("amazon: %w", connector.ErrRateLimited), ErrCodeRateLimited},
		{"unknown", errors.New("boom"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("credential validation failed", "req-1",
		[]string{"Missing required credential: apiKey"})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Errors, 1)
}

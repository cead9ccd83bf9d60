package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_Field(t *testing.T) {
	creds := Credentials{
		APIKey:        "k",
		APISecret:     "s",
		AccessToken:   "at",
		RefreshToken:  "rt",
		SellerID:      "seller",
		MarketplaceID: "mp",
		Region:        "na",
	}

	assert.Equal(t, "k", creds.Field(CredentialAPIKey))
	assert.Equal(t, "s", creds.Field(CredentialAPISecret))
	assert.Equal(t, "at", creds.Field(CredentialAccessToken))
	assert.Equal(t, "rt", creds.Field(CredentialRefreshToken))
	assert.Equal(t, "seller", creds.Field(CredentialSellerID))
	assert.Equal(t, "mp", creds.Field(CredentialMarketplaceID))
	assert.Equal(t, "na", creds.Field(CredentialRegion))
	assert.Equal(t, "", creds.Field("unknownField"))
}

func TestCredentials_ValidateRequired(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		creds := Credentials{APIKey: "k", APISecret: "s"}
		result := creds.ValidateRequired([]string{CredentialAPIKey, CredentialAPISecret})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("one missing field is named", func(t *testing.T) {
		creds := Credentials{APIKey: "k", APISecret: "s", SellerID: "id"}
		result := creds.ValidateRequired([]string{
			CredentialAPIKey, CredentialAPISecret, CredentialSellerID, CredentialMarketplaceID,
		})
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Missing required credential: marketplaceId", result.Errors[0])
	})

	t.Run("every missing field produces an error", func(t *testing.T) {
		result := Credentials{}.ValidateRequired([]string{CredentialAPIKey, CredentialRefreshToken})
		assert.False(t, result.Valid)
		assert.Equal(t, []string{
			"Missing required credential: apiKey",
			"Missing required credential: refreshToken",
		}, result.Errors)
	})

	t.Run("no requirements always valid", func(t *testing.T) {
		result := Credentials{}.ValidateRequired(nil)
		assert.True(t, result.Valid)
	})
}

package marketplace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
)

func newTestFactory() *ConnectorFactory {
	return NewConnectorFactory(zap.NewNop(), FactoryOptions{})
}

func TestFactorySupportedMarketplaces(t *testing.T) {
	f := newTestFactory()
	assert.ElementsMatch(t, []connector.MarketplaceType{
		connector.MarketplaceAmazon,
		connector.MarketplaceEbay,
		connector.MarketplaceWalmart,
	}, f.SupportedMarketplaces())
}

func TestFactoryMarketplaceInfo(t *testing.T) {
	f := newTestFactory()

	info, err := f.MarketplaceInfo(connector.MarketplaceAmazon)
	require.NoError(t, err)
	assert.Equal(t, "Amazon Marketplace", info.Name)
	assert.Contains(t, info.RequiredCredentials, connector.CredentialSellerID)
	assert.True(t, info.SupportsFeature(connector.FeatureListings))
	assert.Positive(t, info.RateLimits.MaxBatchSize)

	_, err = f.MarketplaceInfo(connector.MarketplaceType("etsy"))
	assert.ErrorIs(t, err, connector.ErrMarketplaceUnsupported)
}

func TestFactoryValidateCredentials(t *testing.T) {
	f := newTestFactory()

	t.Run("amazon missing marketplace ID", func(t *testing.T) {
		result := f.ValidateCredentials(connector.MarketplaceAmazon, connector.Credentials{
			APIKey:    "key",
			APISecret: "secret",
			SellerID:  "seller",
		})
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Missing required credential: marketplaceId", result.Errors[0])
	})

	t.Run("ebay complete", func(t *testing.T) {
		result := f.ValidateCredentials(connector.MarketplaceEbay, connector.Credentials{
			APIKey:       "key",
			APISecret:    "secret",
			RefreshToken: "token",
		})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("walmart missing everything", func(t *testing.T) {
		result := f.ValidateCredentials(connector.MarketplaceWalmart, connector.Credentials{})
		assert.False(t, result.Valid)
		assert.Len(t, result.Errors, 2)
	})

	t.Run("unsupported marketplace", func(t *testing.T) {
		result := f.ValidateCredentials(connector.MarketplaceType("etsy"), connector.Credentials{})
		assert.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Unsupported marketplace")
	})
}

func TestFactoryCreateConnector(t *testing.T) {
	f := newTestFactory()

	tests := []struct {
		name        string
		marketplace connector.MarketplaceType
		creds       connector.Credentials
	}{
		{
			"amazon",
			connector.MarketplaceAmazon,
			connector.Credentials{APIKey: "k", APISecret: "s", SellerID: "sel", MarketplaceID: "m"},
		},
		{
			"ebay",
			connector.MarketplaceEbay,
			connector.Credentials{APIKey: "k", APISecret: "s", RefreshToken: "r"},
		},
		{
			"walmart",
			connector.MarketplaceWalmart,
			connector.Credentials{APIKey: "k", APISecret: "s"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := f.CreateConnector(tt.marketplace, tt.creds, connector.Settings{})
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, tt.marketplace, c.Info().Type)
		})
	}
}

func TestFactoryCreateConnectorInvalidCredentials(t *testing.T) {
	f := newTestFactory()

	_, err := f.CreateConnector(connector.MarketplaceAmazon, connector.Credentials{APIKey: "k"}, connector.Settings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, connector.ErrValidation)
	assert.Contains(t, err.Error(), "Missing required credential: apiSecret")
}

func TestFactoryCreateConnectorUnsupported(t *testing.T) {
	f := newTestFactory()

	_, err := f.CreateConnector(connector.MarketplaceType("etsy"), connector.Credentials{}, connector.Settings{})
	assert.ErrorIs(t, err, connector.ErrMarketplaceUnsupported)
}

func TestFactorySandboxHosts(t *testing.T) {
	f := NewConnectorFactory(zap.NewNop(), FactoryOptions{Sandbox: true})

	c, err := f.CreateConnector(connector.MarketplaceAmazon, connector.Credentials{
		APIKey: "k", APISecret: "s", SellerID: "sel", MarketplaceID: "m",
	}, connector.Settings{})
	require.NoError(t, err)
	amazon, ok := c.(*AmazonConnector)
	require.True(t, ok)
	assert.Equal(t, "https://sandbox.sellingpartnerapi-na.amazon.com", amazon.config.APIBaseURL)

	c, err = f.CreateConnector(connector.MarketplaceWalmart, connector.Credentials{APIKey: "k", APISecret: "s"}, connector.Settings{})
	require.NoError(t, err)
	walmart, ok := c.(*WalmartConnector)
	require.True(t, ok)
	assert.Equal(t, WalmartSandboxAPIURL, walmart.config.APIBaseURL)
}

func TestFactorySettingsDefaults(t *testing.T) {
	f := NewConnectorFactory(zap.NewNop(), FactoryOptions{
		Defaults: connector.Settings{
			ErrorRetryAttempts: 5,
			TimeoutSeconds:     7,
		},
		RetryDelay:       250 * time.Millisecond,
		BatchConcurrency: 2,
	})

	t.Run("unset fields take the configured defaults", func(t *testing.T) {
		c, err := f.CreateConnector(connector.MarketplaceWalmart, connector.Credentials{APIKey: "k", APISecret: "s"}, connector.Settings{})
		require.NoError(t, err)
		walmart, ok := c.(*WalmartConnector)
		require.True(t, ok)
		assert.Equal(t, 5, walmart.settings.ErrorRetryAttempts)
		assert.Equal(t, 7, walmart.settings.TimeoutSeconds)
		assert.Equal(t, 250*time.Millisecond, walmart.tuning.retryDelay)
		assert.Equal(t, 2, walmart.tuning.batchLimit)
	})

	t.Run("request settings win over defaults", func(t *testing.T) {
		c, err := f.CreateConnector(connector.MarketplaceWalmart, connector.Credentials{APIKey: "k", APISecret: "s"}, connector.Settings{
			ErrorRetryAttempts: 1,
			TimeoutSeconds:     15,
		})
		require.NoError(t, err)
		walmart, ok := c.(*WalmartConnector)
		require.True(t, ok)
		assert.Equal(t, 1, walmart.settings.ErrorRetryAttempts)
		assert.Equal(t, 15, walmart.settings.TimeoutSeconds)
	})
}

func TestTuningLimit(t *testing.T) {
	tests := []struct {
		name     string
		tuning   tuning
		declared int
		want     int
	}{
		{"unset defers to declared rate", tuning{}, 5, 5},
		{"caps below declared rate", tuning{batchLimit: 2}, 5, 2},
		{"never raises the declared rate", tuning{batchLimit: 10}, 5, 5},
		{"stands alone when no rate declared", tuning{batchLimit: 3}, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tuning.limit(tt.declared))
		})
	}
}

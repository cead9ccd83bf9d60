package connector

import "fmt"

// Credential field names as declared by marketplace capability metadata and
// used in validation error messages.
const (
	CredentialAPIKey        = "apiKey"
	CredentialAPISecret     = "apiSecret"
	CredentialAccessToken   = "accessToken"
	CredentialRefreshToken  = "refreshToken"
	CredentialSellerID      = "sellerId"
	CredentialMarketplaceID = "marketplaceId"
	CredentialRegion        = "region"
)

// Credentials is the common superset of marketplace secrets. Each
// marketplace declares which subset it requires; validation fails closed
// when any required field is absent or empty. Credentials are supplied at
// connector construction and are immutable for that connector's lifetime;
// rotate by building a new connector.
type Credentials struct {
	// APIKey is the application/client identifier (LWA client ID, eBay app
	// ID, Walmart client ID)
	APIKey string
	// APISecret is the application/client secret
	APISecret string
	// AccessToken is a pre-issued access token, when the caller has one
	AccessToken string
	// RefreshToken is the long-lived OAuth refresh token
	RefreshToken string
	// SellerID is the marketplace seller/merchant identifier
	SellerID string
	// MarketplaceID is the marketplace instance identifier (e.g. an Amazon
	// marketplace ID such as ATVPDKIKX0DER)
	MarketplaceID string
	// Region selects the regional API host where the marketplace has several
	Region string
}

// Field returns the credential value for a declared field name, or the
// empty string for unknown names.
func (c Credentials) Field(name string) string {
	switch name {
	case CredentialAPIKey:
		return c.APIKey
	case CredentialAPISecret:
		return c.APISecret
	case CredentialAccessToken:
		return c.AccessToken
	case CredentialRefreshToken:
		return c.RefreshToken
	case CredentialSellerID:
		return c.SellerID
	case CredentialMarketplaceID:
		return c.MarketplaceID
	case CredentialRegion:
		return c.Region
	default:
		return ""
	}
}

// ValidationResult is the outcome of credential validation against a
// marketplace's declared requirements.
type ValidationResult struct {
	// Valid is true only when every required field is present and non-empty
	Valid bool
	// Errors names each missing field, one entry per field
	Errors []string
}

// ValidateRequired checks the credentials against a required-field list and
// fails closed: every absent or empty required field produces an error.
func (c Credentials) ValidateRequired(required []string) ValidationResult {
	errs := make([]string, 0)
	for _, field := range required {
		if c.Field(field) == "" {
			errs = append(errs, fmt.Sprintf("Missing required credential: %s", field))
		}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

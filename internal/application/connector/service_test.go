package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// fakeConnector implements connector.Connector with scripted outcomes.
type fakeConnector struct {
	info            connector.MarketplaceInfo
	authenticateOK  bool
	authorizeErr    error
	hasProbe        bool
	orders          []connector.MarketplaceOrder
	ordersErr       error
	inventoryResult *connector.SyncResult
	pricingResult   *connector.SyncResult

	gotStart, gotEnd *time.Time
}

func (f *fakeConnector) Info() connector.MarketplaceInfo { return f.info }

func (f *fakeConnector) Authenticate(ctx context.Context) bool { return f.authenticateOK }

func (f *fakeConnector) GetListings(ctx context.Context) ([]connector.ProductListing, error) {
	return nil, nil
}

func (f *fakeConnector) CreateListing(ctx context.Context, listing connector.ProductListing) *connector.SyncResult {
	return connector.NewSyncSuccess("created", nil)
}

func (f *fakeConnector) UpdateListing(ctx context.Context, update connector.ListingUpdate) *connector.SyncResult {
	return connector.NewSyncSuccess("updated", nil)
}

func (f *fakeConnector) DeleteListing(ctx context.Context, externalID string) *connector.SyncResult {
	return connector.NewSyncSuccess("deleted", nil)
}

func (f *fakeConnector) GetOrders(ctx context.Context, startDate, endDate *time.Time) ([]connector.MarketplaceOrder, error) {
	f.gotStart, f.gotEnd = startDate, endDate
	return f.orders, f.ordersErr
}

func (f *fakeConnector) UpdateOrderStatus(ctx context.Context, externalID string, status connector.OrderStatus) *connector.SyncResult {
	return connector.NewSyncSuccess("status updated", nil)
}

func (f *fakeConnector) UpdateInventory(ctx context.Context, updates []connector.InventoryUpdate) *connector.SyncResult {
	return f.inventoryResult
}

func (f *fakeConnector) UpdatePricing(ctx context.Context, updates []connector.PriceUpdate) *connector.SyncResult {
	return f.pricingResult
}

// probeConnector adds the authorization probe to fakeConnector.
type probeConnector struct {
	*fakeConnector
}

func (p *probeConnector) CheckAuthorization(ctx context.Context) error {
	return p.authorizeErr
}

// fakeFactory returns a scripted connector.
type fakeFactory struct {
	conn      connector.Connector
	createErr error
	info      connector.MarketplaceInfo
}

func (f *fakeFactory) CreateConnector(marketplaceType connector.MarketplaceType, creds connector.Credentials, settings connector.Settings) (connector.Connector, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.conn, nil
}

func (f *fakeFactory) ValidateCredentials(marketplaceType connector.MarketplaceType, creds connector.Credentials) connector.ValidationResult {
	return creds.ValidateRequired(f.info.RequiredCredentials)
}

func (f *fakeFactory) SupportedMarketplaces() []connector.MarketplaceType {
	return []connector.MarketplaceType{f.info.Type}
}

func (f *fakeFactory) MarketplaceInfo(marketplaceType connector.MarketplaceType) (connector.MarketplaceInfo, error) {
	return f.info, nil
}

func testInfo() connector.MarketplaceInfo {
	return connector.MarketplaceInfo{
		Type:                connector.MarketplaceAmazon,
		Name:                "Test Marketplace",
		RequiredCredentials: []string{connector.CredentialAPIKey, connector.CredentialAPISecret},
		RateLimits:          connector.RateLimits{MaxBatchSize: 3},
	}
}

func validCreds() connector.Credentials {
	return connector.Credentials{APIKey: "k", APISecret: "s"}
}

func TestTestConnectionInvalidCredentials(t *testing.T) {
	factory := &fakeFactory{info: testInfo()}
	svc := NewConnectionService(factory, zap.NewNop())

	resp, err := svc.TestConnection(context.Background(), ConnectionRequest{
		Marketplace: connector.MarketplaceAmazon,
		Credentials: connector.Credentials{APIKey: "k"},
	})
	require.NoError(t, err)
	assert.False(t, resp.CredentialsValid)
	assert.False(t, resp.Authenticated)
	assert.False(t, resp.Authorized)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "Missing required credential: apiSecret", resp.ValidationErrors[0])
}

func TestTestConnectionAuthenticationFails(t *testing.T) {
	factory := &fakeFactory{
		info: testInfo(),
		conn: &fakeConnector{authenticateOK: false},
	}
	svc := NewConnectionService(factory, zap.NewNop())

	resp, err := svc.TestConnection(context.Background(), ConnectionRequest{
		Marketplace: connector.MarketplaceAmazon,
		Credentials: validCreds(),
	})
	require.NoError(t, err)
	assert.True(t, resp.CredentialsValid)
	assert.False(t, resp.Authenticated)
	assert.False(t, resp.Authorized)
	assert.Contains(t, resp.Message, "authentication failed")
}

func TestTestConnectionAuthenticatedButNotAuthorized(t *testing.T) {
	factory := &fakeFactory{
		info: testInfo(),
		conn: &probeConnector{&fakeConnector{
			authenticateOK: true,
			authorizeErr:   connector.ErrNotAuthorized,
		}},
	}
	svc := NewConnectionService(factory, zap.NewNop())

	resp, err := svc.TestConnection(context.Background(), ConnectionRequest{
		Marketplace: connector.MarketplaceAmazon,
		Credentials: validCreds(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Authenticated)
	assert.False(t, resp.Authorized)
	assert.Contains(t, resp.Message, "not authorized")
}

func TestTestConnectionFullyAuthorized(t *testing.T) {
	factory := &fakeFactory{
		info: testInfo(),
		conn: &probeConnector{&fakeConnector{authenticateOK: true}},
	}
	svc := NewConnectionService(factory, zap.NewNop())

	resp, err := svc.TestConnection(context.Background(), ConnectionRequest{
		Marketplace: connector.MarketplaceAmazon,
		Credentials: validCreds(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Authenticated)
	assert.True(t, resp.Authorized)
	assert.Equal(t, "connection established", resp.Message)
}

func TestTestConnectionWithoutProbe(t *testing.T) {
	factory := &fakeFactory{
		info: testInfo(),
		conn: &fakeConnector{authenticateOK: true},
	}
	svc := NewConnectionService(factory, zap.NewNop())

	resp, err := svc.TestConnection(context.Background(), ConnectionRequest{
		Marketplace: connector.MarketplaceAmazon,
		Credentials: validCreds(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Authenticated)
	assert.True(t, resp.Authorized, "token success stands in when no probe exists")
}

func TestSyncInventoryRejectsOversizedBatch(t *testing.T) {
	factory := &fakeFactory{info: testInfo()}
	svc := NewConnectionService(factory, zap.NewNop())

	_, err := svc.SyncInventory(context.Background(), SyncInventoryRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
		Updates: []connector.InventoryUpdate{
			{SKU: "a"}, {SKU: "b"}, {SKU: "c"}, {SKU: "d"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestSyncInventoryRejectsBatchOverHourlyBudget(t *testing.T) {
	info := testInfo()
	info.RateLimits = connector.RateLimits{MaxBatchSize: 100, RequestsPerHour: 2}
	factory := &fakeFactory{info: info}
	svc := NewConnectionService(factory, zap.NewNop())

	_, err := svc.SyncInventory(context.Background(), SyncInventoryRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
		Updates: []connector.InventoryUpdate{{SKU: "a"}, {SKU: "b"}, {SKU: "c"}},
	})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestSyncInventoryDispatches(t *testing.T) {
	want := connector.NewSyncSuccess("inventory sync: 2 succeeded, 0 failed", nil)
	factory := &fakeFactory{
		info: testInfo(),
		conn: &fakeConnector{inventoryResult: want},
	}
	svc := NewConnectionService(factory, zap.NewNop())

	result, err := svc.SyncInventory(context.Background(), SyncInventoryRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
		Updates: []connector.InventoryUpdate{{SKU: "a", Quantity: 1}, {SKU: "b", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Same(t, want, result)
}

func TestSyncPricingRejectsOversizedBatch(t *testing.T) {
	factory := &fakeFactory{info: testInfo()}
	svc := NewConnectionService(factory, zap.NewNop())

	_, err := svc.SyncPricing(context.Background(), SyncPricingRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
		Updates: make([]connector.PriceUpdate, 4),
	})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestPullOrdersDefaultsWindow(t *testing.T) {
	fake := &fakeConnector{orders: []connector.MarketplaceOrder{{ExternalID: "o-1"}}}
	factory := &fakeFactory{info: testInfo(), conn: fake}
	svc := NewConnectionService(factory, zap.NewNop())

	orders, err := svc.PullOrders(context.Background(), PullOrdersRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NotNil(t, fake.gotStart)
	require.NotNil(t, fake.gotEnd)
	window := fake.gotEnd.Sub(*fake.gotStart)
	assert.InDelta(t, (7 * 24 * time.Hour).Seconds(), window.Seconds(), 5)
}

func TestPullOrdersConfiguredWindow(t *testing.T) {
	fake := &fakeConnector{}
	factory := &fakeFactory{info: testInfo(), conn: fake}
	svc := NewConnectionService(factory, zap.NewNop(), WithOrderWindow(48*time.Hour))

	_, err := svc.PullOrders(context.Background(), PullOrdersRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
	})
	require.NoError(t, err)

	require.NotNil(t, fake.gotStart)
	require.NotNil(t, fake.gotEnd)
	window := fake.gotEnd.Sub(*fake.gotStart)
	assert.InDelta(t, (48 * time.Hour).Seconds(), window.Seconds(), 5)
}

func TestPullOrdersExplicitWindow(t *testing.T) {
	fake := &fakeConnector{}
	factory := &fakeFactory{info: testInfo(), conn: fake}
	svc := NewConnectionService(factory, zap.NewNop())

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	_, err := svc.PullOrders(context.Background(), PullOrdersRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, &start, fake.gotStart)
	assert.Equal(t, &end, fake.gotEnd)
}

func TestPullOrdersPropagatesFactoryError(t *testing.T) {
	wantErr := errors.New("boom")
	factory := &fakeFactory{info: testInfo(), createErr: wantErr}
	svc := NewConnectionService(factory, zap.NewNop())

	_, err := svc.PullOrders(context.Background(), PullOrdersRequest{
		ConnectionRequest: ConnectionRequest{
			Marketplace: connector.MarketplaceAmazon,
			Credentials: validCreds(),
		},
	})
	assert.ErrorIs(t, err, wantErr)
}

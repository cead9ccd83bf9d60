package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/channelgrid/backend/internal/domain/connector"
)

// defaultOrderWindow is the trailing window used when PullOrders gets no
// explicit bounds.
const defaultOrderWindow = 7 * 24 * time.Hour

// ErrBatchTooLarge rejects a batch exceeding the marketplace's declared
// maximum before any request is issued.
var ErrBatchTooLarge = errors.New("connector: batch exceeds marketplace limit")

// ConnectionService coordinates marketplace connections: validation,
// connection testing and batch synchronization. Connectors are built per
// call and discarded; credentials never outlive the operation.
type ConnectionService struct {
	factory     connector.Factory
	logger      *zap.Logger
	orderWindow time.Duration
}

// ServiceOption customizes a ConnectionService.
type ServiceOption func(*ConnectionService)

// WithOrderWindow overrides the trailing window used when PullOrders gets
// no explicit bounds.
func WithOrderWindow(window time.Duration) ServiceOption {
	return func(s *ConnectionService) {
		if window > 0 {
			s.orderWindow = window
		}
	}
}

// NewConnectionService creates a connection service.
func NewConnectionService(factory connector.Factory, logger *zap.Logger, opts ...ServiceOption) *ConnectionService {
	s := &ConnectionService{
		factory:     factory,
		logger:      logger.Named("connection-service"),
		orderWindow: defaultOrderWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateOnly checks credentials against the marketplace's declared
// requirements without constructing a connector or touching the network.
func (s *ConnectionService) ValidateOnly(marketplace connector.MarketplaceType, creds connector.Credentials) connector.ValidationResult {
	return s.factory.ValidateCredentials(marketplace, creds)
}

// TestConnection builds a throwaway connector and probes the marketplace.
// The response distinguishes three failure layers: invalid credentials
// (no network), failed authentication (token exchange rejected) and failed
// authorization (token accepted but resource access denied).
func (s *ConnectionService) TestConnection(ctx context.Context, req ConnectionRequest) (*TestConnectionResponse, error) {
	resp := &TestConnectionResponse{Marketplace: req.Marketplace}

	validation := s.factory.ValidateCredentials(req.Marketplace, req.Credentials)
	resp.CredentialsValid = validation.Valid
	resp.ValidationErrors = validation.Errors
	if !validation.Valid {
		resp.Message = "credential validation failed"
		return resp, nil
	}

	conn, err := s.factory.CreateConnector(req.Marketplace, req.Credentials, req.Settings)
	if err != nil {
		return nil, err
	}

	if !conn.Authenticate(ctx) {
		resp.Message = "authentication failed: marketplace rejected the credentials"
		return resp, nil
	}
	resp.Authenticated = true

	probe, ok := conn.(connector.AuthorizationProbe)
	if !ok {
		// No cheap authorization probe: a successful token is the best
		// signal available.
		resp.Authorized = true
		resp.Message = "connection established"
		return resp, nil
	}

	if err := probe.CheckAuthorization(ctx); err != nil {
		s.logger.Info("Authorization probe failed",
			zap.String("marketplace", req.Marketplace.String()),
			zap.Error(err))
		resp.Message = fmt.Sprintf("authenticated but not authorized: %v", err)
		return resp, nil
	}
	resp.Authorized = true
	resp.Message = "connection established"
	return resp, nil
}

// SyncInventory dispatches a quantity batch after pre-flighting it against
// the marketplace's declared batch limit.
func (s *ConnectionService) SyncInventory(ctx context.Context, req SyncInventoryRequest) (*connector.SyncResult, error) {
	conn, err := s.buildConnector(req.ConnectionRequest, len(req.Updates))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispatching inventory sync",
		zap.String("marketplace", req.Marketplace.String()),
		zap.Int("items", len(req.Updates)))
	return conn.UpdateInventory(ctx, req.Updates), nil
}

// SyncPricing dispatches a price batch after pre-flighting it against the
// marketplace's declared batch limit.
func (s *ConnectionService) SyncPricing(ctx context.Context, req SyncPricingRequest) (*connector.SyncResult, error) {
	conn, err := s.buildConnector(req.ConnectionRequest, len(req.Updates))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispatching pricing sync",
		zap.String("marketplace", req.Marketplace.String()),
		zap.Int("items", len(req.Updates)))
	return conn.UpdatePricing(ctx, req.Updates), nil
}

// PullOrders fetches orders inside the requested window, defaulting to the
// configured trailing window when no bounds are given.
func (s *ConnectionService) PullOrders(ctx context.Context, req PullOrdersRequest) ([]connector.MarketplaceOrder, error) {
	conn, err := s.factory.CreateConnector(req.Marketplace, req.Credentials, req.Settings)
	if err != nil {
		return nil, err
	}

	start, end := req.StartDate, req.EndDate
	if start == nil && end == nil {
		now := time.Now()
		windowStart := now.Add(-s.orderWindow)
		start, end = &windowStart, &now
	}

	return conn.GetOrders(ctx, start, end)
}

// buildConnector validates the batch size against the marketplace's
// declared limit and constructs the connector.
func (s *ConnectionService) buildConnector(req ConnectionRequest, batchSize int) (connector.Connector, error) {
	info, err := s.factory.MarketplaceInfo(req.Marketplace)
	if err != nil {
		return nil, err
	}
	if max := info.RateLimits.MaxBatchSize; max > 0 && batchSize > max {
		return nil, fmt.Errorf("%w: %d items, %s allows %d per batch", ErrBatchTooLarge, batchSize, req.Marketplace, max)
	}
	if hourly := info.RateLimits.RequestsPerHour; hourly > 0 && batchSize > hourly {
		return nil, fmt.Errorf("%w: %d items exceed the hourly budget of %d for %s", ErrBatchTooLarge, batchSize, hourly, req.Marketplace)
	}

	return s.factory.CreateConnector(req.Marketplace, req.Credentials, req.Settings)
}

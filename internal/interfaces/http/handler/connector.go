package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appconnector "github.com/channelgrid/backend/internal/application/connector"
	"github.com/channelgrid/backend/internal/domain/connector"
)

// ConnectionService is the application surface the handler dispatches to.
type ConnectionService interface {
	ValidateOnly(marketplace connector.MarketplaceType, creds connector.Credentials) connector.ValidationResult
	TestConnection(ctx context.Context, req appconnector.ConnectionRequest) (*appconnector.TestConnectionResponse, error)
	SyncInventory(ctx context.Context, req appconnector.SyncInventoryRequest) (*connector.SyncResult, error)
	SyncPricing(ctx context.Context, req appconnector.SyncPricingRequest) (*connector.SyncResult, error)
	PullOrders(ctx context.Context, req appconnector.PullOrdersRequest) ([]connector.MarketplaceOrder, error)
}

var _ ConnectionService = (*appconnector.ConnectionService)(nil)

// ConnectorHandler exposes marketplace connection operations over HTTP
type ConnectorHandler struct {
	BaseHandler
	service ConnectionService
	factory connector.Factory
	logger  *zap.Logger
}

// NewConnectorHandler creates a new ConnectorHandler
func NewConnectorHandler(service ConnectionService, factory connector.Factory, logger *zap.Logger) *ConnectorHandler {
	return &ConnectorHandler{
		service: service,
		factory: factory,
		logger:  logger.Named("connector-handler"),
	}
}

// RegisterRoutes registers connector routes on the given group
func (h *ConnectorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	marketplaces := rg.Group("/marketplaces")
	{
		marketplaces.GET("", h.ListMarketplaces)
		marketplaces.GET("/:type", h.GetMarketplace)
	}

	connections := rg.Group("/connections")
	{
		connections.POST("/validate", h.ValidateCredentials)
		connections.POST("/test", h.TestConnection)
	}

	sync := rg.Group("/sync")
	{
		sync.POST("/inventory", h.SyncInventory)
		sync.POST("/pricing", h.SyncPricing)
	}

	rg.POST("/orders/pull", h.PullOrders)
}

// ListMarketplaces returns capability metadata for every supported marketplace
func (h *ConnectorHandler) ListMarketplaces(c *gin.Context) {
	types := h.factory.SupportedMarketplaces()
	infos := make([]MarketplaceInfoResponse, 0, len(types))
	for _, t := range types {
		info, err := h.factory.MarketplaceInfo(t)
		if err != nil {
			continue
		}
		infos = append(infos, toMarketplaceInfoResponse(info))
	}
	h.Success(c, infos)
}

// GetMarketplace returns capability metadata for one marketplace
func (h *ConnectorHandler) GetMarketplace(c *gin.Context) {
	info, err := h.factory.MarketplaceInfo(connector.MarketplaceType(c.Param("type")))
	if err != nil {
		h.HandleConnectorError(c, err)
		return
	}
	h.Success(c, toMarketplaceInfoResponse(info))
}

// ValidateCredentials checks credentials against the marketplace's declared
// requirements without touching the network
func (h *ConnectorHandler) ValidateCredentials(c *gin.Context) {
	var payload ConnectionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.service.ValidateOnly(
		connector.MarketplaceType(payload.Marketplace),
		payload.Credentials.toDomain(),
	)
	h.Success(c, ValidationResponse{
		Marketplace: payload.Marketplace,
		Valid:       result.Valid,
		Errors:      result.Errors,
	})
}

// TestConnection probes the marketplace with the supplied credentials
func (h *ConnectorHandler) TestConnection(c *gin.Context) {
	var payload ConnectionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.TestConnection(c.Request.Context(), appconnector.ConnectionRequest{
		Marketplace: connector.MarketplaceType(payload.Marketplace),
		Credentials: payload.Credentials.toDomain(),
		Settings:    payload.Settings.toDomain(),
	})
	if err != nil {
		h.HandleConnectorError(c, err)
		return
	}

	h.Success(c, TestConnectionResult{
		Marketplace:      resp.Marketplace.String(),
		CredentialsValid: resp.CredentialsValid,
		ValidationErrors: resp.ValidationErrors,
		Authenticated:    resp.Authenticated,
		Authorized:       resp.Authorized,
		Message:          resp.Message,
	})
}

// SyncInventory pushes a batch of quantity changes to the marketplace
func (h *ConnectorHandler) SyncInventory(c *gin.Context) {
	var payload SyncInventoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updates := make([]connector.InventoryUpdate, 0, len(payload.Updates))
	for _, u := range payload.Updates {
		updates = append(updates, connector.InventoryUpdate{
			SKU:        u.SKU,
			ExternalID: u.ExternalID,
			Quantity:   u.Quantity,
		})
	}

	result, err := h.service.SyncInventory(c.Request.Context(), appconnector.SyncInventoryRequest{
		ConnectionRequest: h.connectionRequest(payload.ConnectionPayload),
		Updates:           updates,
	})
	if err != nil {
		h.HandleConnectorError(c, err)
		return
	}
	h.Success(c, toSyncResultResponse(result))
}

// SyncPricing pushes a batch of price changes to the marketplace
func (h *ConnectorHandler) SyncPricing(c *gin.Context) {
	var payload SyncPricingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updates := make([]connector.PriceUpdate, 0, len(payload.Updates))
	for _, u := range payload.Updates {
		updates = append(updates, connector.PriceUpdate{
			SKU:        u.SKU,
			ExternalID: u.ExternalID,
			Price:      u.Price,
			Currency:   u.Currency,
		})
	}

	result, err := h.service.SyncPricing(c.Request.Context(), appconnector.SyncPricingRequest{
		ConnectionRequest: h.connectionRequest(payload.ConnectionPayload),
		Updates:           updates,
	})
	if err != nil {
		h.HandleConnectorError(c, err)
		return
	}
	h.Success(c, toSyncResultResponse(result))
}

// PullOrders fetches orders created inside the requested window
func (h *ConnectorHandler) PullOrders(c *gin.Context) {
	var payload PullOrdersPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if payload.StartDate != nil && payload.EndDate != nil && payload.EndDate.Before(*payload.StartDate) {
		h.BadRequest(c, "end_date must not precede start_date")
		return
	}

	orders, err := h.service.PullOrders(c.Request.Context(), appconnector.PullOrdersRequest{
		ConnectionRequest: h.connectionRequest(payload.ConnectionPayload),
		StartDate:         payload.StartDate,
		EndDate:           payload.EndDate,
	})
	if err != nil {
		h.HandleConnectorError(c, err)
		return
	}

	resp := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	h.Success(c, resp)
}

func (h *ConnectorHandler) connectionRequest(p ConnectionPayload) appconnector.ConnectionRequest {
	return appconnector.ConnectionRequest{
		Marketplace: connector.MarketplaceType(p.Marketplace),
		Credentials: p.Credentials.toDomain(),
		Settings:    p.Settings.toDomain(),
	}
}

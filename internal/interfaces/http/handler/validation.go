package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/channelgrid/backend/internal/domain/connector"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// marketplace accepts only factory-known marketplace identifiers
		_ = v.RegisterValidation("marketplace", validMarketplace)
	}
}

func validMarketplace(fl validator.FieldLevel) bool {
	return connector.MarketplaceType(fl.Field().String()).IsValid()
}

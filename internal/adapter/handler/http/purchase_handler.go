package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

// PurchaseHandler serves the internal admin views over recorded purchases.
type PurchaseHandler struct {
	logger    *zap.Logger
	purchases *usecase.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(logger *zap.Logger, purchases *usecase.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		logger:    logger,
		purchases: purchases,
	}
}

// ListRecent returns the newest purchases.
func (h *PurchaseHandler) ListRecent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	purchases, err := h.purchases.ListRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list purchases", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list purchases"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"purchases": purchases,
		"count":     len(purchases),
	})
}

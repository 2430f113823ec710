package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

// Defaults for scheduler-triggered sweeps when the config leaves them unset.
const (
	defaultReconcileWindow   = 24 * time.Hour
	defaultAbandonStaleAge   = time.Hour
	defaultAbandonCleanupAge = 30 * 24 * time.Hour
)

// CronHandler exposes the periodic sweeps to the external scheduler. Both
// sweeps are idempotent by construction, so overlapping triggers are safe.
type CronHandler struct {
	logger            *zap.Logger
	reconciliation    *usecase.ReconciliationService
	abandonment       *usecase.AbandonmentService
	reconcileWindow   time.Duration
	abandonStaleAge   time.Duration
	abandonCleanupAge time.Duration
}

// NewCronHandler creates a new cron handler
func NewCronHandler(logger *zap.Logger, reconciliation *usecase.ReconciliationService, abandonment *usecase.AbandonmentService,
	reconcileWindow, abandonStaleAge, abandonCleanupAge time.Duration) *CronHandler {
	if reconcileWindow <= 0 {
		reconcileWindow = defaultReconcileWindow
	}
	if abandonStaleAge <= 0 {
		abandonStaleAge = defaultAbandonStaleAge
	}
	if abandonCleanupAge <= 0 {
		abandonCleanupAge = defaultAbandonCleanupAge
	}

	return &CronHandler{
		logger:            logger,
		reconciliation:    reconciliation,
		abandonment:       abandonment,
		reconcileWindow:   reconcileWindow,
		abandonStaleAge:   abandonStaleAge,
		abandonCleanupAge: abandonCleanupAge,
	}
}

// Reconcile runs the reconciliation sweep and reports its counts.
func (h *CronHandler) Reconcile(c echo.Context) error {
	summary, err := h.reconciliation.Sweep(c.Request().Context(), h.reconcileWindow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Reconciliation sweep failed",
		})
	}

	return c.JSON(http.StatusOK, summary)
}

// Abandoned runs the abandoned-session sweep and reports its counts.
func (h *CronHandler) Abandoned(c echo.Context) error {
	summary, err := h.abandonment.Sweep(c.Request().Context(), h.abandonStaleAge, h.abandonCleanupAge)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Abandoned-session sweep failed",
		})
	}

	return c.JSON(http.StatusOK, summary)
}

package http

import (
	"net/http"

	"scamdunk-ingest/internal/api/service"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertHandler serves risk alert and risk change queries.
type AlertHandler struct {
	dashboard service.DashboardService
	logger    *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(dashboard service.DashboardService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/alerts", h.GetAlerts)
	g.GET("/changes", h.GetChanges)
}

func (h *AlertHandler) GetAlerts(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	alerts, err := h.dashboard.GetAlerts(c.Request().Context(), dto.FindAlertsParams{
		Symbol:    c.QueryParam("symbol"),
		AlertType: c.QueryParam("type"),
		RiskLevel: c.QueryParam("risk_level"),
		From:      from,
		To:        to,
		Limit:     limitParam(c),
	})
	if err != nil {
		h.logger.Error("Failed to query alerts", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetChanges(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	changes, err := h.dashboard.GetChanges(c.Request().Context(), dto.FindChangesParams{
		Symbol: c.QueryParam("symbol"),
		From:   from,
		To:     to,
		Limit:  limitParam(c),
	})
	if err != nil {
		h.logger.Error("Failed to query changes", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, changes)
}

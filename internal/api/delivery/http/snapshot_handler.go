package http

import (
	"net/http"

	"scamdunk-ingest/internal/api/service"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SnapshotHandler serves daily snapshot and scan summary queries.
type SnapshotHandler struct {
	dashboard service.DashboardService
	logger    *logger.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(dashboard service.DashboardService, logger *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the snapshot routes to the Echo group.
func (h *SnapshotHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/snapshots/:symbol", h.GetSnapshots)
	g.GET("/summaries", h.GetSummaries)
	g.GET("/summaries/latest", h.GetLatestSummary)
}

func (h *SnapshotHandler) GetSnapshots(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	snapshots, err := h.dashboard.GetSnapshots(c.Request().Context(), dto.FindSnapshotsParams{
		Symbol:    c.Param("symbol"),
		RiskLevel: c.QueryParam("risk_level"),
		From:      from,
		To:        to,
		Limit:     limitParam(c),
	})
	if err != nil {
		h.logger.Error("Failed to query snapshots", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, snapshots)
}

func (h *SnapshotHandler) GetSummaries(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	summaries, err := h.dashboard.GetSummaries(c.Request().Context(), from, to, limitParam(c))
	if err != nil {
		h.logger.Error("Failed to query summaries", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, summaries)
}

func (h *SnapshotHandler) GetLatestSummary(c echo.Context) error {
	summary, err := h.dashboard.GetLatestSummary(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to query latest summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if summary == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no scan summary yet"})
	}

	return c.JSON(http.StatusOK, summary)
}

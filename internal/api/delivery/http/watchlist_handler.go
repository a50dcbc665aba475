package http

import (
	"net/http"

	"scamdunk-ingest/internal/api/service"
	"scamdunk-ingest/internal/ingest/dto"
	"scamdunk-ingest/pkg/logger"

	"github.com/labstack/echo/v4"
)

// WatchlistHandler serves promoted-stock watchlist, social scan and stock
// lookups.
type WatchlistHandler struct {
	dashboard service.DashboardService
	logger    *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(dashboard service.DashboardService, logger *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/watchlist", h.GetWatchlist)
	g.GET("/social-scans", h.GetSocialScans)
	g.GET("/stocks/:symbol", h.GetStock)
}

func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	params := dto.FindWatchlistParams{
		Outcome: c.QueryParam("outcome"),
		From:    from,
		To:      to,
	}
	if c.QueryParam("limit") != "" {
		params.Limit = limitParam(c)
	}

	rows, err := h.dashboard.GetWatchlist(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("Failed to query watchlist", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *WatchlistHandler) GetSocialScans(c echo.Context) error {
	from, err := dateParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := dateParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	scans, err := h.dashboard.GetSocialScans(c.Request().Context(), dto.FindSocialScansParams{
		Symbol:   c.QueryParam("symbol"),
		Platform: c.QueryParam("platform"),
		From:     from,
		To:       to,
		Limit:    limitParam(c),
	})
	if err != nil {
		h.logger.Error("Failed to query social scans", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, scans)
}

func (h *WatchlistHandler) GetStock(c echo.Context) error {
	stock, err := h.dashboard.GetStock(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		h.logger.Error("Failed to query stock", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if stock == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown symbol"})
	}

	return c.JSON(http.StatusOK, stock)
}

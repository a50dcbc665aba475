package http

import (
	"strconv"
	"time"

	"scamdunk-ingest/pkg/utils"

	"github.com/labstack/echo/v4"
)

const defaultLimit = 100

// dateParam parses an optional YYYY-MM-DD query parameter.
func dateParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func limitParam(c echo.Context) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return limit
}

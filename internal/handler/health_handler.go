package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	metrics http.Handler
}

// metricsがnilなら /metrics は出さない
func NewHealthHandler(metrics http.Handler) *HealthHandler {
	return &HealthHandler{metrics: metrics}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics))
	}
}

func (h *HealthHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Message: "ok"})
}

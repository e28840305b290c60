package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/usecase"
)

// 接種日カレンダー（休診日・過去日を含めた月表示）
type ScheduleHandler struct {
	uc *usecase.ScheduleUsecase
}

func NewScheduleHandler(uc *usecase.ScheduleUsecase) *ScheduleHandler {
	return &ScheduleHandler{uc: uc}
}

func (h *ScheduleHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/schedule/calendar", h.calendar)
}

func (h *ScheduleHandler) calendar(c echo.Context) error {
	year, ok := queryInt(c, "year", 0)
	if !ok {
		return badRequest(c, "invalid year")
	}
	month, ok := queryInt(c, "month", 0)
	if !ok {
		return badRequest(c, "invalid month")
	}

	out, err := h.uc.Calendar(c.Request().Context(), year, month)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

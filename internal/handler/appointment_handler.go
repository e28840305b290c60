package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
	"kidcare/internal/usecase"
)

type AppointmentHandler struct {
	uc *usecase.AppointmentUsecase
}

func NewAppointmentHandler(uc *usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

func (h *AppointmentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/appointments")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.POST("", h.create)
	g.GET("", h.list)
	g.DELETE("/:id", h.cancel)

	// 承認・却下は管理者と担当者
	staff := e.Group("/admin/appointments")
	staff.Use(middleware.AuthJWT(cfg))
	staff.Use(middleware.TokenVersionGuard(userRepo))
	staff.Use(middleware.StaffRoleGuard())

	staff.GET("", h.adminList)
	staff.PATCH("/:id/status", h.updateStatus)
}

func (h *AppointmentHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req usecase.CreateAppointmentInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AppointmentHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Pendingの予約だけ取り消せる
func (h *AppointmentHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "cancelled"})
}

func (h *AppointmentHandler) adminList(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminList(c.Request().Context(), usecase.AdminAppointmentListInput{
		ListInput: in,
		Status:    c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) updateStatus(c echo.Context) error {
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		c.Param("id"),
		usecase.AppointmentStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

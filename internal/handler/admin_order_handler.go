package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
	"kidcare/internal/usecase"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/orders", h.list)
	admin.PATCH("/orders/:id/status", h.updateStatus)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return writeError(c, err)
	}

	// 作成日時（RFC3339）
	from, ok := queryTime(c, "from")
	if !ok {
		return badRequest(c, "invalid from")
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return badRequest(c, "invalid to")
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AdminOrderListInput{
		ListInput: in,
		Status:    c.QueryParam("status"),
		UserID:    c.QueryParam("user_id"),
		From:      from,
		To:        to,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	// 操作した管理者（監査ログ用）
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.UpdateStatus(
		c.Request().Context(),
		actor,
		c.Param("id"),
		usecase.AdminUpdateOrderStatusInput{Status: req.Status},
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

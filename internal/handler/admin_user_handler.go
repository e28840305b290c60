package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
	"kidcare/internal/usecase"
)

type AdminUserHandler struct {
	cfg      config.Config
	userRepo repository.UserRepository
	uc       *usecase.AdminUserUsecase
}

func NewAdminUserHandler(cfg config.Config, userRepo repository.UserRepository, uc *usecase.AdminUserUsecase) *AdminUserHandler {
	return &AdminUserHandler{cfg: cfg, userRepo: userRepo, uc: uc}
}

func (h *AdminUserHandler) RegisterRoutes(e *echo.Echo) {
	// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
	admin := e.Group(
		"/admin",
		middleware.AuthJWT(h.cfg),
		middleware.TokenVersionGuard(h.userRepo),
		middleware.AdminRoleGuard(),
	)

	admin.GET("/users", h.List)
	admin.PATCH("/users/:id", h.UpdateField)
	admin.POST("/users/:id/force-logout", h.ForceLogout)
}

func (h *AdminUserHandler) List(c echo.Context) error {
	in, err := listInput(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AdminUserListInput{
		ListInput: in,
		Role:      c.QueryParam("role"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 1項目ずつ更新する
func (h *AdminUserHandler) UpdateField(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req usecase.UpdateUserFieldInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateField(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminUserHandler) ForceLogout(c echo.Context) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.ForceLogout(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

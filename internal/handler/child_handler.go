package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
	"kidcare/internal/usecase"
)

// 子ども・ワクチンは参照のみ
type ChildHandler struct {
	uc *usecase.ChildUsecase
}

func NewChildHandler(uc *usecase.ChildUsecase) *ChildHandler {
	return &ChildHandler{uc: uc}
}

func (h *ChildHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/vaccines", h.vaccines)

	g := e.Group("/children")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.GET("", h.mine)

	admin := e.Group("/admin/children")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())
	admin.GET("", h.adminList)
}

func (h *ChildHandler) mine(c echo.Context) error {
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

// ?cursor=...&limit=...（最後のページではnextCursorが無い）
func (h *ChildHandler) adminList(c echo.Context) error {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return badRequest(c, "invalid limit")
	}

	out, err := h.uc.AdminListCursor(c.Request().Context(), c.QueryParam("cursor"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChildHandler) vaccines(c echo.Context) error {
	out, err := h.uc.ListVaccines(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

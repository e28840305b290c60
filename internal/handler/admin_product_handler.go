package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
	"kidcare/internal/usecase"
)

// 在庫更新の入力
type InventoryUpdateRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

// /admin/products/:id/stock
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminを登録
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")

	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.PUT("/products/:id/stock", h.updateInventory)
}

func (h *AdminProductHandler) updateInventory(c echo.Context) error {
	var req InventoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.AdminUpdateInventory(
		c.Request().Context(),
		adminID,
		c.Param("id"),
		req.Stock,
		req.Reason,
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

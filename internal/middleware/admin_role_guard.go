package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"kidcare/internal/domain/model"
)

//contextに入っているroleが許可されたものか確認します。

func RoleGuard(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if !slices.Contains(roles, model.Role(role)) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}

// ADMINだけ許可
func AdminRoleGuard() echo.MiddlewareFunc {
	return RoleGuard(model.RoleAdmin)
}

// ADMINとPROVIDER（予約の承認・却下）
func StaffRoleGuard() echo.MiddlewareFunc {
	return RoleGuard(model.RoleAdmin, model.RoleProvider)
}

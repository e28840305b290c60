package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"kidcare/internal/domain/status"
	"kidcare/internal/middleware"
	"kidcare/internal/usecase"
)

// エラーは {error, fields?} の形
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// 成功時のメッセージ
type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message, Fields: he.Fields})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

// AuthJWTが入れたuser_id
func getUserIDFromContext(c echo.Context) (string, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// 状態を変える人（監査ログ・遷移の権限確認用）
func actorFromContext(c echo.Context) (status.Actor, bool) {
	id, ok := getUserIDFromContext(c)
	if !ok {
		return status.Actor{}, false
	}
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)
	return status.Actor{ID: id, Role: role}, true
}

// 空ならdef。数値でなければok=false
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// RFC3339。空ならnil
func queryTime(c echo.Context, name string) (*time.Time, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	tm, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, false
	}
	return &tm, true
}

// q/page/limit（limit無しなら全件）
func listInput(c echo.Context) (usecase.ListInput, error) {
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return usecase.ListInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return usecase.ListInput{}, usecase.NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return usecase.ListInput{Q: c.QueryParam("q"), Page: page, Limit: limit}, nil
}

package server

import (
	"github.com/labstack/echo/v4"

	"kidcare/internal/config"
	"kidcare/internal/handler"
	"kidcare/internal/middleware"
	"kidcare/internal/repository"
)

// 全ハンドラ（nilのものは登録しない）
type Handlers struct {
	Health       *handler.HealthHandler
	Schedule     *handler.ScheduleHandler
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Order        *handler.OrderHandler
	Address      *handler.AddressHandler
	AdminOrder   *handler.AdminOrderHandler
	Appointment  *handler.AppointmentHandler
	Child        *handler.ChildHandler
	AdminUser    *handler.AdminUserHandler
	AuditLog     *handler.AuditLogHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	//公開
	if h.Health != nil {
		h.Health.RegisterRoutes(e)
	}
	if h.Schedule != nil {
		h.Schedule.RegisterRoutes(e)
	}
	if h.Product != nil {
		h.Product.RegisterRoutes(e)
	}

	//ログイン必須
	if h.Order != nil {
		h.Order.RegisterRoutes(e, cfg, userRepo)
	}
	if h.Address != nil {
		g := e.Group("/addresses", middleware.AuthJWT(cfg), middleware.TokenVersionGuard(userRepo))
		h.Address.RegisterRoutes(g)
	}
	if h.Appointment != nil {
		h.Appointment.RegisterRoutes(e, cfg, userRepo)
	}
	if h.Child != nil {
		h.Child.RegisterRoutes(e, cfg, userRepo)
	}

	//管理者
	if h.AdminProduct != nil {
		h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	}
	if h.AdminOrder != nil {
		h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	}
	if h.AdminUser != nil {
		h.AdminUser.RegisterRoutes(e)
	}
	if h.AuditLog != nil {
		h.AuditLog.RegisterRoutes(e, cfg, userRepo)
	}
}

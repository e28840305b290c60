package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"kidcare/internal/clock"
	"kidcare/internal/config"
	"kidcare/internal/domain/model"
	"kidcare/internal/domain/schedule"
	"kidcare/internal/handler"
	"kidcare/internal/infra/db"
	"kidcare/internal/infra/event"
	"kidcare/internal/infra/metrics"
	infraRepo "kidcare/internal/infra/repository"
	"kidcare/internal/logging"
	"kidcare/internal/server"
	"kidcare/internal/usecase"
)

func main() {
	log := logging.New(os.Stdout, os.Getenv("GO_ENV"))

	//設定
	if err := config.LoadEnvFile(); err != nil {
		logging.Error(log, logging.Fields{Component: "main", Message: "load .env"}, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Error(log, logging.Fields{Component: "main", Message: "load config"}, err)
		os.Exit(1)
	}
	log = logging.New(os.Stdout, cfg.GoEnv)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logging.Error(log, logging.Fields{Component: "main", Message: "connect db"}, err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		logging.Error(log, logging.Fields{Component: "main", Message: "migrate"}, err)
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(gormDB)
	childRepo := infraRepo.NewChildGormRepository(gormDB)
	vaccineRepo := infraRepo.NewVaccineGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//イベント・メトリクス
	publisher := event.New(cfg.KafkaBrokers)
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error(log, logging.Fields{Component: "main", Message: "close publisher"}, err)
		}
	}()
	m := metrics.NewServerMetrics(nil)

	//ステータス遷移のルール
	terminal := cfg.OrderStatusPolicy == config.PolicyTerminal
	orderEngine := model.NewOrderStatusEngine(terminal)
	appointmentEngine := model.NewAppointmentStatusEngine(terminal)

	clk := clock.NewSystem()
	rules := schedule.Rules{RestDays: cfg.RestDays}

	//Usecase生成
	scheduleUC := usecase.NewScheduleUsecase(rules, cfg.ScheduleTimezone, clk)
	productUC := usecase.NewProductUsecase(txm, productRepo, clk)
	orderUC := usecase.NewOrderUsecase(txm, orderRepo, addressRepo, clk)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, orderRepo, orderEngine, publisher, m, log, clk)
	addressUC := usecase.NewAddressUsecase(addressRepo, clk)
	appointmentUC := usecase.NewAppointmentUsecase(txm, appointmentRepo, childRepo, vaccineRepo, scheduleUC, appointmentEngine, publisher, m, log, clk)
	childUC := usecase.NewChildUsecase(childRepo, vaccineRepo, clk)
	adminUserUC := usecase.NewAdminUserUsecase(txm, userRepo, clk)
	auditUC := usecase.NewAuditLogUsecase(auditRepo)

	//Handler生成・ルート登録
	e := server.New(log, m)
	server.RegisterRoutes(e, cfg, userRepo, server.Handlers{
		Health:       handler.NewHealthHandler(m.Handler()),
		Schedule:     handler.NewScheduleHandler(scheduleUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		Address:      handler.NewAddressHandler(addressUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Appointment:  handler.NewAppointmentHandler(appointmentUC),
		Child:        handler.NewChildHandler(childUC),
		AdminUser:    handler.NewAdminUserHandler(cfg, userRepo, adminUserUC),
		AuditLog:     handler.NewAuditLogHandler(auditUC),
	})

	//Server起動（SIGINT/SIGTERMで停止）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Run(ctx, e, addr, log); err != nil {
		logging.Error(log, logging.Fields{Component: "main", Message: "server"}, err)
		os.Exit(1)
	}
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"kidcare/internal/infra/metrics"
	"kidcare/internal/logging"
)

// echoの共通設定（リカバリ・アクセスログ・メトリクス）
func New(log *slog.Logger, m *metrics.ServerMetrics) *echo.Echo {
	if log == nil {
		log = logging.Discard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			f := logging.Fields{
				Component:  "http",
				Action:     v.Method + " " + v.URI,
				ActorID:    actorID(c),
				Status:     strconv.Itoa(v.Status),
				DurationMS: v.Latency.Milliseconds(),
				Message:    "request",
			}
			if v.Error != nil {
				logging.Error(log, f, v.Error)
				return nil
			}
			logging.Info(log, f)
			return nil
		},
	}))
	if m != nil {
		e.Use(m.Middleware())
	}
	return e
}

func actorID(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

// ctxが終わったら受付を止めて、処理中のリクエストを待つ
func Run(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info(log, logging.Fields{Component: "server", Message: "listening on " + addr})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logging.Info(log, logging.Fields{Component: "server", Message: "stopped"})
	return nil
}

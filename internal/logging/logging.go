package logging

import (
	"io"
	"log/slog"
	"os"
)

// 1行1JSONで出すログの共通フィールド
type Fields struct {
	Component  string
	Action     string
	ActorID    string
	ResourceID string
	Status     string
	DurationMS int64
	Message    string
}

// JSONハンドラのロガーを作る
func New(w io.Writer, env string) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// テストや未設定時に使う（何も出さない）
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// 空でないフィールドだけ属性にする
func (f Fields) Attrs() []any {
	attrs := make([]any, 0, 12)
	if f.Component != "" {
		attrs = append(attrs, slog.String("component", f.Component))
	}
	if f.Action != "" {
		attrs = append(attrs, slog.String("action", f.Action))
	}
	if f.ActorID != "" {
		attrs = append(attrs, slog.String("actor_id", f.ActorID))
	}
	if f.ResourceID != "" {
		attrs = append(attrs, slog.String("resource_id", f.ResourceID))
	}
	if f.Status != "" {
		attrs = append(attrs, slog.String("status", f.Status))
	}
	if f.DurationMS > 0 {
		attrs = append(attrs, slog.Int64("duration_ms", f.DurationMS))
	}
	return attrs
}

func Info(l *slog.Logger, f Fields) {
	l.Info(f.Message, f.Attrs()...)
}

func Error(l *slog.Logger, f Fields, err error) {
	attrs := f.Attrs()
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.Error(f.Message, attrs...)
}

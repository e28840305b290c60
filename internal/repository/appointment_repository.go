package repository

import (
	"context"

	"kidcare/internal/domain/model"
)

type AppointmentListFilter struct {
	UserID string
	Status string
}

// 予約の保存・取得
type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	FindByID(ctx context.Context, id string) (model.Appointment, error)
	FindByIDForUpdate(ctx context.Context, id string) (model.Appointment, error)
	// 接種日の昇順
	List(ctx context.Context, f AppointmentListFilter) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error
	// 取消（論理削除）
	SoftDelete(ctx context.Context, id string) error
}

package repository

import (
	"context"

	"kidcare/internal/domain/model"
)

// 子どもは参照のみ
type ChildRepository interface {
	FindByID(ctx context.Context, id string) (model.Child, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Child, error)
	// afterIDより後ろをID順にlimit件（afterIDが空なら先頭から）
	ListAfter(ctx context.Context, afterID string, limit int) ([]model.Child, error)
	Create(ctx context.Context, c *model.Child) error
}

type VaccineRepository interface {
	FindByID(ctx context.Context, id string) (model.Vaccine, error)
	List(ctx context.Context) ([]model.Vaccine, error)
	Create(ctx context.Context, v *model.Vaccine) error
}

package repository

import (
	"context"
	"time"

	"kidcare/internal/domain/model"
)

// 管理者一覧の絞り込み（検索語はusecase側で照合する）
type AdminOrderListFilter struct {
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	// 明細つき（Position順）
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// ステータス変更用に行ロックを取る
	FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	// 明細は含めない（OrderItemRepositoryで作る）
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error)
	//管理者用の注文一覧（新しい順）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, error)
}

package repository

import (
	"context"
	"errors"

	"kidcare/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（冪等キーの衝突など）
	ErrDuplicate = errors.New("duplicate")
)

// 一覧検索
type ProductListQuery struct {
	Page  int
	Limit int
	Q     string
	Sort  string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	// 在庫を変える前に行ロックを取る
	FindByIDForUpdate(ctx context.Context, id string) (model.Product, error)

	Create(ctx context.Context, p *model.Product) error
}

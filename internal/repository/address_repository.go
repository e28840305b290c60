package repository

import (
	"context"

	"kidcare/internal/domain/model"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	//Create は住所を新規作成する。
	Create(ctx context.Context, address *model.Address) error

	//ユーザーが持つ住所一覧を返す
	ListByUserID(ctx context.Context, userID string) ([]model.Address, error)

	//住所IDから住所を1件取得
	FindByID(ctx context.Context, addressID string) (model.Address, error)

	//住所の更新。注文済みのスナップショットには影響しない
	Update(ctx context.Context, address model.Address) error
}

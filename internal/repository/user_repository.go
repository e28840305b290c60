package repository

import (
	"context"

	"kidcare/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。無ければErrNotFound
	FindByID(ctx context.Context, userID string) (*model.User, error)
	// 一覧（roleが空なら全員）。名前順
	List(ctx context.Context, role string) ([]model.User, error)
	// ユーザー情報の更新=>管理者による項目修正
	Update(ctx context.Context, user *model.User) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID string) error
}

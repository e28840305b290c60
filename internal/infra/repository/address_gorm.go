package repository

import (
	"context"

	"gorm.io/gorm"

	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 住所を作成
func (r *addressGormRepository) Create(ctx context.Context, address *model.Address) error {
	return translate(r.db.WithContext(ctx).Create(address).Error)
}

// ユーザーの住所一覧を返す
func (r *addressGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	var list []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// 住所IDで1件取得
func (r *addressGormRepository) FindByID(ctx context.Context, addressID string) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Where("id = ?", addressID).First(&a).Error; err != nil {
		return model.Address{}, translate(err)
	}
	return a, nil
}

// 住所を更新
func (r *addressGormRepository) Update(ctx context.Context, address model.Address) error {
	result := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ?", address.ID).
		Select(
			"phone",
			"governorate",
			"city",
			"street",
			"building_number",
			"apartment_number",
			"updated_at",
		).
		Updates(address)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

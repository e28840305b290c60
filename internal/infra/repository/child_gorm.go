package repository

import (
	"context"

	"gorm.io/gorm"

	"kidcare/internal/domain/model"
)

type ChildGormRepository struct {
	db *gorm.DB
}

func NewChildGormRepository(db *gorm.DB) *ChildGormRepository {
	return &ChildGormRepository{db: db}
}

func (r *ChildGormRepository) FindByID(ctx context.Context, id string) (model.Child, error) {
	var c model.Child
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return model.Child{}, translate(err)
	}
	return c, nil
}

func (r *ChildGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Child, error) {
	var list []model.Child
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("birth_date desc").
		Find(&list).Error
	if err != nil {
		return []model.Child{}, err
	}
	return list, nil
}

// キーセット方式（OFFSETを使わない）
func (r *ChildGormRepository) ListAfter(ctx context.Context, afterID string, limit int) ([]model.Child, error) {
	q := r.db.WithContext(ctx).Model(&model.Child{})
	if afterID != "" {
		q = q.Where("id > ?", afterID)
	}

	var list []model.Child
	if err := q.Order("id asc").Limit(limit).Find(&list).Error; err != nil {
		return []model.Child{}, err
	}
	return list, nil
}

func (r *ChildGormRepository) Create(ctx context.Context, c *model.Child) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

type VaccineGormRepository struct {
	db *gorm.DB
}

func NewVaccineGormRepository(db *gorm.DB) *VaccineGormRepository {
	return &VaccineGormRepository{db: db}
}

func (r *VaccineGormRepository) FindByID(ctx context.Context, id string) (model.Vaccine, error) {
	var v model.Vaccine
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return model.Vaccine{}, translate(err)
	}
	return v, nil
}

func (r *VaccineGormRepository) List(ctx context.Context) ([]model.Vaccine, error) {
	var list []model.Vaccine
	if err := r.db.WithContext(ctx).Order("min_age_months asc").Order("name asc").Find(&list).Error; err != nil {
		return []model.Vaccine{}, err
	}
	return list, nil
}

func (r *VaccineGormRepository) Create(ctx context.Context, v *model.Vaccine) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

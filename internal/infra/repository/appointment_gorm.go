package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Create(ctx context.Context, a *model.Appointment) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *AppointmentGormRepository) FindByID(ctx context.Context, id string) (model.Appointment, error) {
	var a model.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return model.Appointment{}, translate(err)
	}
	return a, nil
}

func (r *AppointmentGormRepository) FindByIDForUpdate(ctx context.Context, id string) (model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return model.Appointment{}, translate(err)
	}
	return a, nil
}

func (r *AppointmentGormRepository) List(ctx context.Context, f repo.AppointmentListFilter) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).Model(&model.Appointment{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var list []model.Appointment
	if err := q.Order("vaccination_date asc").Order("created_at asc").Find(&list).Error; err != nil {
		return []model.Appointment{}, err
	}
	return list, nil
}

func (r *AppointmentGormRepository) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Appointment{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// deleted_atをセット（以後の一覧・取得には出てこない）
func (r *AppointmentGormRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

package model

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentStatusPending  AppointmentStatus = "Pending"
	AppointmentStatusApproved AppointmentStatus = "Approved"
	AppointmentStatusRejected AppointmentStatus = "Rejected"
)

func AppointmentStatuses() []AppointmentStatus {
	return []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusApproved,
		AppointmentStatusRejected,
	}
}

// 予防接種の予約
// 申込者の取消は Pending の間だけ（論理削除）
type Appointment struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string            `gorm:"type:uuid;not null;index" json:"user_id"`
	ChildID         string            `gorm:"type:uuid;not null;index" json:"child_id"`
	VaccineID       string            `gorm:"type:uuid;not null;index" json:"vaccine_id"`
	VaccinationDate time.Time         `gorm:"type:date;not null;index" json:"vaccination_date"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Contact         AddressSnapshot   `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (a *Appointment) CurrentStatus() AppointmentStatus { return a.Status }
func (a *Appointment) SetStatus(s AppointmentStatus)    { a.Status = s }

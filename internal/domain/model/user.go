package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser     Role = "USER"
	RoleAdmin    Role = "ADMIN"
	RoleProvider Role = "PROVIDER"
)

// 認証は外部。ここでは一覧・検索・トークン版数の照合に使う
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"type:varchar(30)" json:"phone"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'USER';index" json:"role"`
	Governorate  string    `gorm:"type:varchar(100)" json:"governorate"`
	City         string    `gorm:"type:varchar(255)" json:"city"`
	Street       string    `gorm:"type:varchar(255)" json:"street"`
	TokenVersion int       `gorm:"not null;default:0" json:"-"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// 検索用の連結住所
func (u User) CompositeAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.Street, u.City, u.Governorate} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

package model

import "time"

//在庫調整の履歴（管理者の手動調整と、注文キャンセル時の戻し）

type InventoryAdjustment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   string    `gorm:"type:uuid;not null;index" json:"product_id"`
	AdminUserID string    `gorm:"type:uuid;not null;index" json:"admin_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

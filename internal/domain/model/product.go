package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 在庫表示（保存しない。読むたびに数量から計算）
type StockStatus string

const (
	StockOut StockStatus = "Out of Stock"
	StockLow StockStatus = "Low Stock"
	StockIn  StockStatus = "In Stock"
)

const lowStockMax = 10

func StockStatusOf(quantity int64) StockStatus {
	switch {
	case quantity <= 0:
		return StockOut
	case quantity <= lowStockMax:
		return StockLow
	default:
		return StockIn
	}
}

type Product struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Image     string          `gorm:"type:text" json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock     int64           `gorm:"not null" json:"stock"`
	IsActive  bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p Product) StockStatus() StockStatus {
	return StockStatusOf(p.Stock)
}

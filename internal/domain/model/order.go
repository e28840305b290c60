package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ワイヤ上の文字列そのもの（大文字小文字・空白も含めて保存形式）
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "Pending"
	OrderStatusOnlinePaid  OrderStatus = "Online paid"
	OrderStatusWaitingCash OrderStatus = "Waiting for cash payment"
	OrderStatusDelivered   OrderStatus = "Delivered"
	OrderStatusCancelled   OrderStatus = "Cancelled"
)

// 表示順
func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusOnlinePaid,
		OrderStatusWaitingCash,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// 一覧のラベル色
func (s OrderStatus) Color() string {
	switch s {
	case OrderStatusPending:
		return "warning"
	case OrderStatusOnlinePaid:
		return "info"
	case OrderStatusWaitingCash:
		return "secondary"
	case OrderStatusDelivered:
		return "success"
	case OrderStatusCancelled:
		return "error"
	default:
		return "default"
	}
}

type Order struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string          `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_user_idem" json:"user_id"`
	Status         OrderStatus     `gorm:"type:varchar(40);not null;index" json:"status"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Address        AddressSnapshot `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_orders_user_idem" json:"-"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`
}

// 注文時点の商品スナップショット（Positionが表示順）
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string          `gorm:"type:uuid;not null;index" json:"-"`
	Position  int             `gorm:"not null" json:"-"`
	ProductID string          `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Image     string          `gorm:"type:text" json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	CreatedAt time.Time       `gorm:"not null" json:"-"`
}

func (o *Order) CurrentStatus() OrderStatus { return o.Status }
func (o *Order) SetStatus(s OrderStatus)    { o.Status = s }

// price × quantity の合計
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

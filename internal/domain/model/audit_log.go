package model

import "time"

// 在庫更新、注文・予約ステータス更新など。
type AuditAction string

const (
	//在庫を更新した操作。
	AuditActionUpdateStock AuditAction = "UPDATE_STOCK"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//予約ステータスを更新した操作。
	AuditActionUpdateAppointmentStatus AuditAction = "UPDATE_APPOINTMENT_STATUS"
	//ユーザー情報を管理者が修正した操作。
	AuditActionUpdateUser AuditAction = "UPDATE_USER"
	//発行済みトークンを無効にした操作。
	AuditActionForceLogout AuditAction = "FORCE_LOGOUT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct     AuditResourceType = "product"
	AuditResourceOrder       AuditResourceType = "order"
	AuditResourceAppointment AuditResourceType = "appointment"
	AuditResourceUser        AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID string `gorm:"type:uuid;not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID string `gorm:"type:uuid;not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

package model

import "kidcare/internal/domain/status"

// 注文ステータスは管理者のみ変更できる
// terminal=true なら Delivered / Cancelled から動かせない
func NewOrderStatusEngine(terminal bool) *status.Engine[OrderStatus] {
	var policy status.Policy[OrderStatus] = status.OpenPolicy[OrderStatus]{}
	if terminal {
		policy = status.TerminalPolicy[OrderStatus]{
			Terminal: []OrderStatus{OrderStatusDelivered, OrderStatusCancelled},
		}
	}
	return status.NewEngine(OrderStatuses(), []string{string(RoleAdmin)}, policy)
}

// 予約ステータスはスタッフ（管理者・提供者）が変更する
func NewAppointmentStatusEngine(terminal bool) *status.Engine[AppointmentStatus] {
	var policy status.Policy[AppointmentStatus] = status.OpenPolicy[AppointmentStatus]{}
	if terminal {
		policy = status.TerminalPolicy[AppointmentStatus]{
			Terminal: []AppointmentStatus{AppointmentStatusApproved, AppointmentStatusRejected},
		}
	}
	return status.NewEngine(AppointmentStatuses(), []string{string(RoleAdmin), string(RoleProvider)}, policy)
}

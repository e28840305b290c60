package console

import (
	"context"

	"kidcare/internal/listing"
	"kidcare/internal/usecase"
)

// 検索対象はサーバーの一覧検索と同じ組み立てを使う

// 注文管理画面（全件取得してメモリでページング）
func LoadOrderBoard(ctx context.Context, c *Client, pageSize int) (*StatusBoard[Order], error) {
	orders, err := c.ListOrders(ctx, "")
	if err != nil {
		return nil, err
	}
	return NewStatusBoard(orders, pageSize, usecase.OrderSearchFields,
		func(o Order) string { return o.ID },
		func(o Order) string { return o.Status },
		c.UpdateOrderStatus,
	), nil
}

func LoadAppointmentBoard(ctx context.Context, c *Client, pageSize int) (*StatusBoard[Appointment], error) {
	list, err := c.ListAppointments(ctx, "")
	if err != nil {
		return nil, err
	}
	return NewStatusBoard(list, pageSize, usecase.AppointmentSearchFields,
		func(a Appointment) string { return a.ID },
		func(a Appointment) string { return a.Status },
		c.UpdateAppointmentStatus,
	), nil
}

// 利用者・担当者の一覧（roleが空なら全員）
func LoadUserDirectory(ctx context.Context, c *Client, role string, pageSize int) (*listing.OffsetView[User], error) {
	users, err := c.ListUsers(ctx, role)
	if err != nil {
		return nil, err
	}
	return listing.NewOffsetView(users, pageSize, usecase.UserSearchFields), nil
}

// 子どもの一覧はサーバーのカーソルで進む。Resetで1ページ目を読む
func NewChildPager(c *Client, limit int) listing.Pager[Child] {
	return listing.NewCursorView(c.ListChildren, limit)
}

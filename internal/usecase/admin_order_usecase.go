package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	"kidcare/internal/domain/status"
	"kidcare/internal/listing"
	repo "kidcare/internal/repository"
)

type AdminOrderUsecase struct {
	tx       repo.TransactionManager
	orders   repo.OrderRepository
	engine   *status.Engine[model.OrderStatus]
	notifier statusNotifier
	clock    clock.Clock
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	engine *status.Engine[model.OrderStatus],
	publisher StatusEventPublisher,
	recorder StatusChangeRecorder,
	log *slog.Logger,
	clk clock.Clock,
) *AdminOrderUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AdminOrderUsecase{
		tx:       tx,
		orders:   orders,
		engine:   engine,
		notifier: newStatusNotifier(publisher, recorder, log),
		clock:    clk,
	}
}

type AdminOrderListInput struct {
	ListInput
	Status string
	UserID string
	// 作成日時の範囲（両端を含む）
	From *time.Time
	To   *time.Time
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 検索対象：ID・注文者・ステータス・配送先・商品名
func OrderSearchFields(o OrderOutput) []string {
	fields := []string{
		o.ID,
		o.UserID,
		o.Status,
		o.Address.Phone,
		listing.AddressLine(o.Address.Street, o.Address.City, o.Address.Governorate),
	}
	for _, it := range o.Items {
		fields = append(fields, it.Name)
	}
	return fields
}

// 注文一覧（全件を返し、limitがあればそのページだけ）
func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (ListOutput[OrderOutput], error) {
	if err := in.validate(); err != nil {
		return ListOutput[OrderOutput]{}, err
	}
	if in.Status != "" && !u.engine.Valid(model.OrderStatus(in.Status)) {
		return ListOutput[OrderOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	if in.UserID != "" && !validID(in.UserID) {
		return ListOutput[OrderOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}
	if in.From != nil && in.To != nil && in.From.After(*in.To) {
		return ListOutput[OrderOutput]{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	orders, err := u.orders.ListAdmin(ctx, repo.AdminOrderListFilter{
		Status: in.Status,
		UserID: in.UserID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return ListOutput[OrderOutput]{}, errDB
	}

	outs := lo.Map(orders, func(o model.Order, _ int) OrderOutput { return toOrderOutput(o) })
	filtered := listing.Search(outs, in.Q, OrderSearchFields)
	return pageOf(filtered, in.Page, in.Limit), nil
}

// ステータス更新（Cancelledに入るなら在庫戻し、出るなら在庫を取り直す）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor status.Actor, orderID string, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actor.ID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	// uuidでなければ存在しない注文
	if !validID(orderID) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	target := model.OrderStatus(in.Status)

	var (
		before  model.OrderStatus
		changed bool
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得（行ロック）
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		before = o.Status

		// すでに同じなら何もしない（200）
		changed, err = u.engine.Apply(&o, target, actor)
		if err != nil || !changed {
			return err
		}

		if err := u.adjustStock(ctx, r, actor, orderID, before, target); err != nil {
			return err
		}

		// ステータス更新
		if err := r.Orders().UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}

		// 監査ログ（UPDATE_ORDER_STATUS）
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.ID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   auditJSON(map[string]string{"status": string(before)}),
			AfterJSON:    auditJSON(map[string]string{"status": string(target)}),
			CreatedAt:    u.clock.Now(),
		})
	})
	if err != nil {
		return OrderOutput{}, fromTransitionError(err)
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, fromRepoError(err)
	}

	if changed {
		u.notifier.notify(ctx, model.StatusChangedEvent{
			Kind:    model.EventKindOrder,
			ID:      orderID,
			From:    string(before),
			To:      string(target),
			ActorID: actor.ID,
			At:      u.clock.Now(),
		})
	}
	return toOrderOutput(o), nil
}

// Cancelledへの出入りに合わせて在庫を動かす
func (u *AdminOrderUsecase) adjustStock(ctx context.Context, r repo.TxRepos, actor status.Actor, orderID string, from, to model.OrderStatus) error {
	entering := to == model.OrderStatusCancelled && from != model.OrderStatusCancelled
	leaving := from == model.OrderStatusCancelled && to != model.OrderStatusCancelled
	if !entering && !leaving {
		return nil
	}

	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	for _, it := range items {
		delta := it.Quantity
		reason := "order cancelled: " + orderID
		if entering {
			if err := r.Inventory().IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		} else {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &status.TransitionError{
					From:   string(from),
					To:     string(to),
					Reason: "insufficient stock for " + it.Name,
				}
			}
			delta = -it.Quantity
			reason = "order reopened: " + orderID
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   it.ProductID,
			AdminUserID: actor.ID,
			Delta:       delta,
			Reason:      reason,
			CreatedAt:   u.clock.Now(),
		}); err != nil {
			return err
		}
	}
	return nil
}

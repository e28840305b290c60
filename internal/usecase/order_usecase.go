package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	addresses repo.AddressRepository
	clock     clock.Clock
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, addresses repo.AddressRepository, clk clock.Clock) *OrderUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &OrderUsecase{tx: tx, orders: orders, addresses: addresses, clock: clk}
}

type CheckoutItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutInput struct {
	AddressID      string
	Items          []CheckoutItemInput
	IdempotencyKey string
}

type OrderItemOutput struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
}

type OrderOutput struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Status      string                `json:"status"`
	StatusColor string                `json:"status_color"`
	TotalPrice  decimal.Decimal       `json:"total_price"`
	Address     model.AddressSnapshot `json:"address"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Items       []OrderItemOutput     `json:"items"`
}

// 同じキーの注文が同時に作られた
var errIdempotentReplay = errors.New("idempotent replay")

func (u *OrderUsecase) Checkout(ctx context.Context, userID string, in CheckoutInput) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	verrs := ValidationErrors{}
	if strings.TrimSpace(in.AddressID) == "" {
		verrs.Add("address_id", "address is required")
	}
	if len(in.Items) == 0 {
		verrs.Add("items", "at least one item is required")
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			verrs.Add(fmt.Sprintf("items[%d].product_id", i), "product is required")
		}
		if it.Quantity <= 0 {
			verrs.Add(fmt.Sprintf("items[%d].quantity", i), "quantity must be > 0")
		}
	}
	if err := verrs.Err(); err != nil {
		return OrderOutput{}, err
	}
	lines := mergeLines(in.Items)

	//address_idの存在確認＋所有チェック
	addr, err := u.addresses.FindByID(ctx, in.AddressID)
	if err != nil {
		return OrderOutput{}, fromRepoError(err)
	}
	//所有チェック（他人の住所なら403）
	if addr.UserID != userID {
		return OrderOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out OrderOutput

	//注文処理はトランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return errDB
		}
		if found {
			out = toOrderOutput(existing)
			return nil
		}

		now := u.clock.Now()
		orderItems := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
				return NewHTTPError(http.StatusBadRequest, "product not available: "+line.ProductID)
			}
			if err != nil {
				return errDB
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, line.Quantity)
			if err != nil {
				return errDB
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock: "+p.Name)
			}

			//スナップショット（価格はサーバー側の値）
			orderItems = append(orderItems, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Image:     p.Image,
				Price:     p.Price,
				Quantity:  line.Quantity,
				CreatedAt: now,
			})
		}

		order := model.Order{
			ID:             newID(),
			UserID:         userID,
			Status:         model.OrderStatusPending,
			TotalPrice:     model.SumItems(orderItems),
			Address:        addr.Snapshot(),
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Orders().Create(ctx, &order); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return errIdempotentReplay
			}
			return errDB
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return errDB
		}

		order.Items = orderItems
		out = toOrderOutput(order)
		return nil
	})

	//競合（同時で同じキーが入った等）はロールバック後に読み直して同じ結果を返す
	if errors.Is(err, errIdempotentReplay) {
		existing, found, err2 := u.orders.FindByIdempotencyKey(ctx, userID, key)
		if err2 != nil || !found {
			return OrderOutput{}, NewHTTPError(http.StatusConflict, "idempotency conflict")
		}
		return toOrderOutput(existing), nil
	}
	if err != nil {
		return OrderOutput{}, fromRepoError(err)
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, errDB
	}
	return lo.Map(orders, func(o model.Order, _ int) OrderOutput { return toOrderOutput(o) }), nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, fromRepoError(err)
	}
	if o.UserID != userID {
		//他人の注文は「存在しない扱い」にする
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toOrderOutput(o), nil
}

// 同じ商品は1行にまとめる（最初に出てきた位置を保つ）
func mergeLines(items []CheckoutItemInput) []CheckoutItemInput {
	out := make([]CheckoutItemInput, 0, len(items))
	index := map[string]int{}
	for _, it := range items {
		if i, ok := index[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		StatusColor: o.Status.Color(),
		TotalPrice:  o.TotalPrice,
		Address:     o.Address,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items: lo.Map(o.Items, func(it model.OrderItem, _ int) OrderItemOutput {
			return OrderItemOutput{
				ProductID: it.ProductID,
				Name:      it.Name,
				Image:     it.Image,
				Price:     it.Price,
				Quantity:  it.Quantity,
			}
		}),
	}
}

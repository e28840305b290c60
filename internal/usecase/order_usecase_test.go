package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
	"kidcare/internal/usecase"
)

var fixedNow = time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC)

func requireHTTPError(t *testing.T, err error, status int) *usecase.HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %T", err)
	assert.Equal(t, status, he.Status)
	return he
}

type checkoutFixture struct {
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	inventory *InventoryRepoMock
	products  *ProductRepoMock
	addresses *AddressRepoMock
	tx        *TxManagerMock
	uc        *usecase.OrderUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		inventory: new(InventoryRepoMock),
		products:  new(ProductRepoMock),
		addresses: new(AddressRepoMock),
	}
	f.tx = newTx(&TxReposMock{
		orders:     f.orders,
		orderItems: f.items,
		inventory:  f.inventory,
		products:   f.products,
	})
	f.uc = usecase.NewOrderUsecase(f.tx, f.orders, f.addresses, clock.NewFixed(fixedNow))
	return f
}

var homeAddress = model.Address{
	ID:          "addr-1",
	UserID:      "u1",
	Phone:       "01012345678",
	Governorate: "Cairo",
	City:        "Nasr City",
	Street:      "Abbas El Akkad",
}

// =====================
// Checkout
// =====================

func TestOrderUsecase_Checkout_MergesLinesAndTotals(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(homeAddress, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", Name: "Bottle", Price: decimal.NewFromInt(10), Stock: 5, IsActive: true}, nil)
	f.products.On("FindByID", mock.Anything, "p2").Return(model.Product{ID: "p2", Name: "Bib", Price: decimal.NewFromInt(5), Stock: 5, IsActive: true}, nil)
	// 同じ商品は1行にまとめてから減算する
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, "p1", int64(2)).Return(true, nil).Once()
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, "p2", int64(1)).Return(true, nil).Once()
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
		return o.UserID == "u1" && o.Status == model.OrderStatusPending && o.TotalPrice.Equal(decimal.NewFromInt(25))
	})).Return(nil)
	f.items.On("CreateBulk", mock.Anything, mock.Anything, mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].ProductID == "p1" && items[1].ProductID == "p2"
	})).Return(nil)

	out, err := f.uc.Checkout(ctx, "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: "key-1",
		Items: []usecase.CheckoutItemInput{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
			{ProductID: "p1", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, out.TotalPrice.Equal(decimal.NewFromInt(25)), "total=%s", out.TotalPrice)
	assert.Equal(t, "Pending", out.Status)
	assert.Equal(t, "warning", out.StatusColor)
	assert.Equal(t, homeAddress.Snapshot(), out.Address)
	require.Len(t, out.Items, 2)
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, fixedNow, out.CreatedAt)

	f.inventory.AssertExpectations(t)
	f.items.AssertExpectations(t)
}

func TestOrderUsecase_Checkout_ValidationCollectsFields(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		IdempotencyKey: "key-1",
		Items:          []usecase.CheckoutItemInput{{ProductID: " ", Quantity: 0}},
	})

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "address_id")
	assert.Contains(t, he.Fields, "items[0].product_id")
	assert.Contains(t, he.Fields, "items[0].quantity")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_Checkout_RequiresIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID: "addr-1",
		Items:     []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})

	requireHTTPError(t, err, http.StatusBadRequest)
	f.addresses.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_ForeignAddressForbidden(t *testing.T) {
	f := newCheckoutFixture()
	other := homeAddress
	other.UserID = "u2"
	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(other, nil)

	_, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: "key-1",
		Items:          []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})

	requireHTTPError(t, err, http.StatusForbidden)
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

func TestOrderUsecase_Checkout_ReplayReturnsSameOrder(t *testing.T) {
	f := newCheckoutFixture()
	existing := model.Order{ID: "o-1", UserID: "u1", Status: model.OrderStatusOnlinePaid, TotalPrice: decimal.NewFromInt(25)}
	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(homeAddress, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(existing, true, nil)

	out, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: " key-1 ",
		Items:          []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, "o-1", out.ID)
	assert.Equal(t, "info", out.StatusColor)
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_ConcurrentDuplicateReadsBack(t *testing.T) {
	f := newCheckoutFixture()
	existing := model.Order{ID: "o-9", UserID: "u1", Status: model.OrderStatusPending}
	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(homeAddress, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(model.Order{}, false, nil).Once()
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(existing, true, nil).Once()
	f.products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", Price: decimal.NewFromInt(10), IsActive: true}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, "p1", int64(1)).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	out, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: "key-1",
		Items:          []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Equal(t, "o-9", out.ID)
	f.items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_OutOfStock(t *testing.T) {
	f := newCheckoutFixture()
	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(homeAddress, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", Name: "Bottle", Price: decimal.NewFromInt(10), IsActive: true}, nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, "p1", int64(4)).Return(false, nil)

	_, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: "key-1",
		Items:          []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 4}},
	})

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "out of stock")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_Checkout_InactiveProduct(t *testing.T) {
	f := newCheckoutFixture()
	f.addresses.On("FindByID", mock.Anything, "addr-1").Return(homeAddress, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, "u1", "key-1").Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", IsActive: false}, nil)

	_, err := f.uc.Checkout(context.Background(), "u1", usecase.CheckoutInput{
		AddressID:      "addr-1",
		IdempotencyKey: "key-1",
		Items:          []usecase.CheckoutItemInput{{ProductID: "p1", Quantity: 1}},
	})

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Message, "product not available")
}

// =====================
// 自分の注文
// =====================

func TestOrderUsecase_GetMyOrderDetail_HidesOthersOrders(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.On("FindByID", mock.Anything, "o-1").Return(model.Order{ID: "o-1", UserID: "u2"}, nil)

	_, err := f.uc.GetMyOrderDetail(context.Background(), "u1", "o-1")
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestOrderUsecase_ListMyOrders_DBError(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.On("ListByUserID", mock.Anything, "u1").Return(nil, errors.New("boom"))

	_, err := f.uc.ListMyOrders(context.Background(), "u1")
	requireHTTPError(t, err, http.StatusInternalServerError)
}

package usecase_test

import (
	"context"
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

// =====================
// Public: List / Detail
// =====================

func TestProductUsecase_ListPublicProducts_InvalidInput(t *testing.T) {
	uc := usecase.NewProductUsecase(newTx(&TxReposMock{}), new(ProductRepoMock), clock.NewFixed(fixedNow))

	tests := []usecase.ListProductsInput{
		{Page: 0, Limit: 20},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
		{Page: 1, Limit: 20, Sort: "name"},
	}
	for _, in := range tests {
		_, err := uc.ListPublicProducts(context.Background(), in)
		requireHTTPError(t, err, http.StatusBadRequest)
	}
}

func TestProductUsecase_ListPublicProducts_StockStatus(t *testing.T) {
	products := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(newTx(&TxReposMock{}), products, clock.NewFixed(fixedNow))
	products.On("ListPublic", mock.Anything, repo.ProductListQuery{Page: 1, Limit: 2, Q: "bottle"}).Return([]model.Product{
		{ID: "p1", Name: "Bottle S", Price: decimal.NewFromInt(10), Stock: 0},
		{ID: "p2", Name: "Bottle M", Price: decimal.NewFromInt(12), Stock: 10},
	}, int64(3), nil)

	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 2, Q: " bottle "})

	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalEntries)
	assert.Equal(t, 2, out.TotalPages)
	assert.Equal(t, "Out of Stock", out.Data[0].StockStatus)
	assert.Equal(t, "Low Stock", out.Data[1].StockStatus)
}

func TestProductUsecase_GetProductDetail_InactiveIsNotFound(t *testing.T) {
	products := new(ProductRepoMock)
	uc := usecase.NewProductUsecase(newTx(&TxReposMock{}), products, clock.NewFixed(fixedNow))
	products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1", IsActive: false}, nil)

	_, err := uc.GetProductDetail(context.Background(), "p1")
	requireHTTPError(t, err, http.StatusNotFound)
}

// =====================
// Admin: 在庫
// =====================

func TestProductUsecase_AdminUpdateInventory(t *testing.T) {
	products := new(ProductRepoMock)
	inventory := new(InventoryRepoMock)
	audit := new(AuditRepoMock)
	tx := newTx(&TxReposMock{products: products, inventory: inventory, audit: audit})
	uc := usecase.NewProductUsecase(tx, products, clock.NewFixed(fixedNow))

	products.On("FindByIDForUpdate", mock.Anything, "p1").Return(model.Product{ID: "p1", Name: "Bottle", Stock: 30, IsActive: true}, nil)
	inventory.On("SetStock", mock.Anything, "p1", int64(8)).Return(nil)
	inventory.On("CreateAdjustment", mock.Anything, model.InventoryAdjustment{
		ProductID:   "p1",
		AdminUserID: "admin-1",
		Delta:       -22,
		Reason:      "stocktake",
		CreatedAt:   fixedNow,
	}).Return(nil)
	audit.On("Create", mock.Anything, model.AuditLog{
		ActorUserID:  "admin-1",
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   "p1",
		BeforeJSON:   `{"stock":30}`,
		AfterJSON:    `{"stock":8}`,
		CreatedAt:    fixedNow,
	}).Return(nil)

	out, err := uc.AdminUpdateInventory(context.Background(), "admin-1", "p1", 8, " stocktake ")

	require.NoError(t, err)
	assert.Equal(t, int64(8), out.Stock)
	assert.Equal(t, "Low Stock", out.StockStatus)
	inventory.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestProductUsecase_AdminUpdateInventory_Validation(t *testing.T) {
	tx := newTx(&TxReposMock{})
	uc := usecase.NewProductUsecase(tx, new(ProductRepoMock), clock.NewFixed(fixedNow))

	_, err := uc.AdminUpdateInventory(context.Background(), "admin-1", "p1", -1, "")

	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Contains(t, he.Fields, "stock")
	assert.Contains(t, he.Fields, "reason")
	tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// =====================
// 監査ログ
// =====================

func TestAuditLogUsecase_List(t *testing.T) {
	audit := new(AuditRepoMock)
	uc := usecase.NewAuditLogUsecase(audit)
	action := model.AuditActionUpdateOrderStatus
	resource := model.AuditResourceOrder
	audit.On("List", mock.Anything, repo.AuditLogFilter{
		Action:       &action,
		ResourceType: &resource,
		ResourceID:   "o-1",
		Limit:        50,
	}).Return(nil, nil)

	logs, err := uc.List(context.Background(), usecase.AuditLogListInput{
		Action:       "UPDATE_ORDER_STATUS",
		ResourceType: "order",
		ResourceID:   "o-1",
		Limit:        50,
	})

	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestAuditLogUsecase_List_Invalid(t *testing.T) {
	uc := usecase.NewAuditLogUsecase(new(AuditRepoMock))
	from := fixedNow
	to := fixedNow.Add(-time.Hour)

	_, err := uc.List(context.Background(), usecase.AuditLogListInput{ResourceType: "cart"})
	requireHTTPError(t, err, http.StatusBadRequest)

	_, err = uc.List(context.Background(), usecase.AuditLogListInput{From: &from, To: &to})
	requireHTTPError(t, err, http.StatusBadRequest)
}

package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"kidcare/internal/clock"
	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	clock       clock.Clock
}

// DI
func NewProductUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository, clk clock.Clock) *ProductUsecase {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
		clock:       clk,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page  int
	Limit int
	Q     string
	Sort  string
}

// stock_statusは読むたびに在庫数から出す
type ProductOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	StockStatus string          `json:"stock_status"`
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price,
		Stock:       p.Stock,
		StockStatus: string(p.StockStatus()),
	}
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ListOutput[ProductOutput], error) {
	if in.Page < 1 {
		return ListOutput[ProductOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > maxLimit {
		return ListOutput[ProductOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ListOutput[ProductOutput]{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "stock_asc":
	default:
		return ListOutput[ProductOutput]{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
		Sort:  in.Sort,
	})
	if err != nil {
		return ListOutput[ProductOutput]{}, errDB
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(in.Limit) - 1) / int64(in.Limit))
	}
	return ListOutput[ProductOutput]{
		Data:         lo.Map(items, func(p model.Product, _ int) ProductOutput { return toProductOutput(p) }),
		TotalEntries: int(total),
		Page:         in.Page,
		TotalPages:   totalPages,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID string) (ProductOutput, error) {
	if strings.TrimSpace(productID) == "" {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductOutput{}, fromRepoError(err)
	}

	if !p.IsActive {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toProductOutput(p), nil
}

// 在庫を現在値に更新し、調整履歴と監査ログを残す
func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, adminUserID string, productID string, newStock int64, reason string) (ProductOutput, error) {
	if adminUserID == "" {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	verrs := ValidationErrors{}
	if strings.TrimSpace(productID) == "" {
		verrs.Add("product_id", "product is required")
	}
	if newStock < 0 {
		verrs.Add("stock", "stock must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		verrs.Add("reason", "reason is required")
	}
	if err := verrs.Err(); err != nil {
		return ProductOutput{}, err
	}

	var out ProductOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		before := p.Stock

		//在庫の現在値を更新
		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			return err
		}

		//履歴を作成（差分）
		now := u.clock.Now()
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       newStock - before,
			Reason:      strings.TrimSpace(reason),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		//監査ログを作成（在庫更新）
		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   auditJSON(map[string]int64{"stock": before}),
			AfterJSON:    auditJSON(map[string]int64{"stock": newStock}),
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		p.Stock = newStock
		out = toProductOutput(p)
		return nil
	})
	if err != nil {
		return ProductOutput{}, fromRepoError(err)
	}
	return out, nil
}

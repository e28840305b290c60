package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kidcare/internal/domain/model"
	repo "kidcare/internal/repository"
)

// IDカラムはuuid型なので固定値もuuidにする
const (
	orderUUID       = "0190b5a0-7c3e-7000-8000-0000000000a1"
	missingUUID     = "0190b5a0-7c3e-7000-8000-0000000000ff"
	childUUID       = "0190b5a0-7c3e-7000-8000-0000000000c1"
	vaccineUUID     = "0190b5a0-7c3e-7000-8000-0000000000d1"
	appointmentUUID = "0190b5a0-7c3e-7000-8000-0000000000e1"
)

// =====================
// TxManager / TxRepos
// =====================

// WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	appointments repo.AppointmentRepository
	inventory    repo.InventoryRepository
	products     repo.ProductRepository
	users        repo.UserRepository
	audit        repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository             { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *TxReposMock) Appointments() repo.AppointmentRepository { return r.appointments }
func (r *TxReposMock) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository         { return r.products }
func (r *TxReposMock) Users() repo.UserRepository               { return r.users }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository       { return r.audit }

func newTx(repos *TxReposMock) *TxManagerMock {
	tx := &TxManagerMock{Repos: repos}
	tx.On("WithinTx", mock.Anything).Return()
	return tx
}

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIDForUpdate(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Order)
	return list, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID string, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.Order)
	return list, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID string, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID string, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDForUpdate(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address *model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID string) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

type AppointmentRepoMock struct{ mock.Mock }

func (m *AppointmentRepoMock) Create(ctx context.Context, a *model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AppointmentRepoMock) FindByID(ctx context.Context, id string) (model.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Appointment)
	return a, args.Error(1)
}

func (m *AppointmentRepoMock) FindByIDForUpdate(ctx context.Context, id string) (model.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Appointment)
	return a, args.Error(1)
}

func (m *AppointmentRepoMock) List(ctx context.Context, f repo.AppointmentListFilter) ([]model.Appointment, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.Appointment)
	return list, args.Error(1)
}

func (m *AppointmentRepoMock) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *AppointmentRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ChildRepoMock struct{ mock.Mock }

func (m *ChildRepoMock) FindByID(ctx context.Context, id string) (model.Child, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Child)
	return c, args.Error(1)
}

func (m *ChildRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Child, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Child)
	return list, args.Error(1)
}

func (m *ChildRepoMock) ListAfter(ctx context.Context, afterID string, limit int) ([]model.Child, error) {
	args := m.Called(ctx, afterID, limit)
	list, _ := args.Get(0).([]model.Child)
	return list, args.Error(1)
}

func (m *ChildRepoMock) Create(ctx context.Context, c *model.Child) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type VaccineRepoMock struct{ mock.Mock }

func (m *VaccineRepoMock) FindByID(ctx context.Context, id string) (model.Vaccine, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(model.Vaccine)
	return v, args.Error(1)
}

func (m *VaccineRepoMock) List(ctx context.Context) ([]model.Vaccine, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Vaccine)
	return list, args.Error(1)
}

func (m *VaccineRepoMock) Create(ctx context.Context, v *model.Vaccine) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) List(ctx context.Context, role string) ([]model.User, error) {
	args := m.Called(ctx, role)
	list, _ := args.Get(0).([]model.User)
	return list, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// 通知
// =====================

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishStatusChanged(ctx context.Context, ev model.StatusChangedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type RecorderMock struct{ mock.Mock }

func (m *RecorderMock) StatusChanged(kind, to string) {
	m.Called(kind, to)
}

func auditWith(action model.AuditAction, resourceID string) any {
	return mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == action && l.ResourceID == resourceID
	})
}

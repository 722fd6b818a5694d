package service

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// mockTxRunner executes the callback directly. The repositories under test
// ignore the tx handle, so nil is fine here.
type mockTxRunner struct{}

func (m *mockTxRunner) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
	// onLock, when set, runs at the start of FindByIDForUpdate. It stands in
	// for a concurrent writer that commits just before the row lock is won.
	onLock func()
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) add(p *model.Product) *model.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = model.ProductActive
	}
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) Create(p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range m.products {
		if p.SKU != nil && *p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	if m.onLock != nil {
		m.onLock()
	}
	return m.FindByID(id)
}

func (m *mockProductRepo) List(filter repository.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) Save(p *model.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *mockProductRepo) Delete(id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentStock = newStock
	return nil
}

func (m *mockProductRepo) Categories() ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, p := range m.products {
		if p.Category != nil && p.Status == model.ProductActive && !seen[*p.Category] {
			seen[*p.Category] = true
			categories = append(categories, *p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *mockProductRepo) LowStock(threshold *int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.Status != model.ProductActive {
			continue
		}
		if threshold != nil {
			if p.CurrentStock <= *threshold {
				out = append(out, *p)
			}
		} else if p.CurrentStock <= p.MinStockLevel {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockProductRepo) CountBySupplier(supplierID uuid.UUID) (int64, error) {
	var count int64
	for _, p := range m.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			count++
		}
	}
	return count, nil
}

func (m *mockProductRepo) FindBySupplier(supplierID uuid.UUID) ([]model.Product, error) {
	var out []model.Product
	for _, p := range m.products {
		if p.SupplierID != nil && *p.SupplierID == supplierID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// mockTransactionRepo keeps an ordered in-memory ledger. Created transactions
// get strictly increasing CreatedAt timestamps so ordering checks behave as
// they would against the database.
type mockTransactionRepo struct {
	products     *mockProductRepo
	transactions map[uuid.UUID]*model.StockTransaction
	base         time.Time
	seq          int
}

func newMockTransactionRepo(products *mockProductRepo) *mockTransactionRepo {
	return &mockTransactionRepo{
		products:     products,
		transactions: make(map[uuid.UUID]*model.StockTransaction),
		base:         time.Now(),
	}
}

func (m *mockTransactionRepo) Create(tx *gorm.DB, t *model.StockTransaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.seq++
	t.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	m.transactions[t.ID] = t
	return nil
}

func (m *mockTransactionRepo) Save(tx *gorm.DB, t *model.StockTransaction) error {
	if _, ok := m.transactions[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.transactions[t.ID] = t
	return nil
}

func (m *mockTransactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	delete(m.transactions, id)
	return nil
}

func (m *mockTransactionRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.StockTransaction, error) {
	t, ok := m.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if p, ok := m.products.products[t.ProductID]; ok {
		t.Product = *p
	}
	return t, nil
}

func (m *mockTransactionRepo) matches(t *model.StockTransaction, filter repository.TransactionFilter) bool {
	if filter.ProductID != nil && t.ProductID != *filter.ProductID {
		return false
	}
	if filter.Type != "" && t.Type != filter.Type {
		return false
	}
	if filter.StartDate != nil && t.TransactionDate.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && t.TransactionDate.After(*filter.EndDate) {
		return false
	}
	return true
}

func (m *mockTransactionRepo) ListAll(filter repository.TransactionFilter) ([]model.StockTransaction, error) {
	var out []model.StockTransaction
	for _, t := range m.transactions {
		if m.matches(t, filter) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockTransactionRepo) List(filter repository.TransactionFilter) ([]model.StockTransaction, int64, error) {
	all, err := m.ListAll(filter)
	if err != nil {
		return nil, 0, err
	}
	return all, int64(len(all)), nil
}

func (m *mockTransactionRepo) ExistsNewerForProduct(tx *gorm.DB, productID, excludeID uuid.UUID, after time.Time) (bool, error) {
	for _, t := range m.transactions {
		if t.ProductID == productID && t.ID != excludeID && t.CreatedAt.After(after) {
			return true, nil
		}
	}
	return false, nil
}

type mockSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
}

func newMockSupplierRepo() *mockSupplierRepo {
	return &mockSupplierRepo{suppliers: make(map[uuid.UUID]*model.Supplier)}
}

func (m *mockSupplierRepo) add(s *model.Supplier) *model.Supplier {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = model.SupplierActive
	}
	m.suppliers[s.ID] = s
	return s
}

func (m *mockSupplierRepo) Create(s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	m.suppliers[s.ID] = s
	return nil
}

func (m *mockSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockSupplierRepo) FindByName(name string) (*model.Supplier, error) {
	for _, s := range m.suppliers {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupplierRepo) FindByEmail(email string) (*model.Supplier, error) {
	for _, s := range m.suppliers {
		if s.Email != nil && *s.Email == email {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupplierRepo) List(filter repository.SupplierFilter) ([]model.Supplier, int64, error) {
	out := make([]model.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *mockSupplierRepo) Save(s *model.Supplier) error {
	m.suppliers[s.ID] = s
	return nil
}

func (m *mockSupplierRepo) Delete(id uuid.UUID) error {
	delete(m.suppliers, id)
	return nil
}

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) FindByUsername(username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *mockUserRepo) Create(u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) Save(u *model.User) error {
	m.users[u.ID] = u
	return nil
}

// mockDashboardRepo serves canned aggregates. Time-windowed queries are keyed
// by their window start so tests can pin distinct values for today vs month.
type mockDashboardRepo struct {
	activeProducts  int64
	activeSuppliers int64
	stockValue      decimal.Decimal
	lowStock        int64
	outOfStock      int64
	txCount         map[time.Time]int64
	qtySum          map[string]int64
	alerts          []model.Product
	recent          []model.StockTransaction
	categories      []repository.CategoryStat
	trends          []repository.MonthlyTrendRow
	dailyTrends     []repository.DailyTrendRow
	dailySince      time.Time
	top             []repository.TopProductRow
	supplierValues  []repository.SupplierValueRow
}

func qtyKey(tt model.TransactionType, since time.Time) string {
	return fmt.Sprintf("%s|%s", tt, since.Format(time.RFC3339))
}

func (m *mockDashboardRepo) CountActiveProducts() (int64, error)  { return m.activeProducts, nil }
func (m *mockDashboardRepo) CountActiveSuppliers() (int64, error) { return m.activeSuppliers, nil }
func (m *mockDashboardRepo) TotalStockValue() (decimal.Decimal, error) {
	return m.stockValue, nil
}
func (m *mockDashboardRepo) CountLowStock() (int64, error)   { return m.lowStock, nil }
func (m *mockDashboardRepo) CountOutOfStock() (int64, error) { return m.outOfStock, nil }

func (m *mockDashboardRepo) CountTransactionsSince(since time.Time) (int64, error) {
	return m.txCount[since], nil
}

func (m *mockDashboardRepo) SumQuantityByTypeSince(tt model.TransactionType, since time.Time) (int64, error) {
	return m.qtySum[qtyKey(tt, since)], nil
}

func (m *mockDashboardRepo) StockAlerts(limit int) ([]model.Product, error) {
	return m.alerts, nil
}

func (m *mockDashboardRepo) RecentTransactions(limit int) ([]model.StockTransaction, error) {
	return m.recent, nil
}

func (m *mockDashboardRepo) CategoryStats() ([]repository.CategoryStat, error) {
	return m.categories, nil
}

func (m *mockDashboardRepo) MonthlyTrends(since time.Time) ([]repository.MonthlyTrendRow, error) {
	return m.trends, nil
}

func (m *mockDashboardRepo) DailyTrends(since time.Time) ([]repository.DailyTrendRow, error) {
	m.dailySince = since
	return m.dailyTrends, nil
}

func (m *mockDashboardRepo) TopProducts(since time.Time, limit int) ([]repository.TopProductRow, error) {
	return m.top, nil
}

func (m *mockDashboardRepo) ValueBySupplier() ([]repository.SupplierValueRow, error) {
	return m.supplierValues, nil
}

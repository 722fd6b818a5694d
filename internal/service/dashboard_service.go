package service

import (
	"time"

	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardStats is the headline statistics block
type DashboardStats struct {
	TotalProducts          int64           `json:"total_products"`
	TotalSuppliers         int64           `json:"total_suppliers"`
	TotalStockValue        decimal.Decimal `json:"total_stock_value"`
	LowStockProducts       int64           `json:"low_stock_products"`
	OutOfStockProducts     int64           `json:"out_of_stock_products"`
	TransactionsToday      int64           `json:"total_transactions_today"`
	TransactionsThisMonth  int64           `json:"total_transactions_this_month"`
	StockInToday           int64           `json:"stock_in_today"`
	StockOutToday          int64           `json:"stock_out_today"`
	StockInThisMonth       int64           `json:"stock_in_this_month"`
	StockOutThisMonth      int64           `json:"stock_out_this_month"`
}

// StockAlert is a product at or below its minimum stock level
type StockAlert struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           *string         `json:"sku,omitempty"`
	CurrentStock  int             `json:"current_stock"`
	MinStockLevel int             `json:"min_stock_level"`
	SupplierName  *string         `json:"supplier_name,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockStatus   string          `json:"stock_status"`
}

// MonthlyTrend extends the repository row with the net change
type MonthlyTrend struct {
	Month             string `json:"month"`
	StockIn           int64  `json:"stock_in"`
	StockOut          int64  `json:"stock_out"`
	NetChange         int64  `json:"net_change"`
	TransactionsCount int64  `json:"transactions_count"`
}

// Dashboard bundles every dashboard panel into one response
type Dashboard struct {
	Stats              DashboardStats              `json:"stats"`
	StockAlerts        []StockAlert                `json:"stock_alerts"`
	RecentTransactions []model.TransactionResponse `json:"recent_transactions"`
	CategoryStats      []repository.CategoryStat   `json:"category_stats"`
	MonthlyTrends      []MonthlyTrend              `json:"monthly_trends"`
	TopProducts        []repository.TopProductRow  `json:"top_products"`
}

// ValueBreakdown splits the inventory valuation by category and supplier
type ValueBreakdown struct {
	ByCategory []repository.CategoryStat     `json:"by_category"`
	BySupplier []repository.SupplierValueRow `json:"by_supplier"`
}

// TrendBucket totals one transaction type within a single day
type TrendBucket struct {
	Count    int64           `json:"count"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailyTrend is one day of ledger activity, split by transaction type.
// Types with no activity carry zero buckets.
type DailyTrend struct {
	Date       string      `json:"date"`
	StockIn    TrendBucket `json:"stock_in"`
	StockOut   TrendBucket `json:"stock_out"`
	Adjustment TrendBucket `json:"adjustment"`
}

// TrendPeriod describes the window the trends cover
type TrendPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Days      int    `json:"days"`
}

// TransactionTrends is the daily activity series plus its window
type TransactionTrends struct {
	Trends []DailyTrend `json:"trends"`
	Period TrendPeriod  `json:"period"`
}

// DashboardQuery bounds the lookback window and list sizes
type DashboardQuery struct {
	DaysBack          int
	LimitAlerts       int
	LimitTransactions int
	LimitProducts     int
}

// DashboardService produces read-only snapshots. Each statistic is an
// independent query; a snapshot carries no cross-query consistency guarantee.
type DashboardService interface {
	GetDashboard(q DashboardQuery) (*Dashboard, error)
	GetValueBreakdown() (*ValueBreakdown, error)
	GetTransactionTrends(days int) (*TransactionTrends, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	log  *zap.Logger
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository, log *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, log: log, now: time.Now}
}

func (s *dashboardService) GetDashboard(q DashboardQuery) (*Dashboard, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	windowStart := startOfToday.AddDate(0, 0, -q.DaysBack)

	stats, err := s.collectStats(startOfToday, startOfMonth)
	if err != nil {
		return nil, err
	}

	alertProducts, err := s.repo.StockAlerts(q.LimitAlerts)
	if err != nil {
		return nil, err
	}
	alerts := make([]StockAlert, len(alertProducts))
	for i := range alertProducts {
		p := &alertProducts[i]
		alert := StockAlert{
			ID:            p.ID,
			Name:          p.Name,
			SKU:           p.SKU,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			UnitPrice:     p.UnitPrice,
			StockStatus:   p.StockStatus(),
		}
		if p.Supplier != nil {
			alert.SupplierName = &p.Supplier.Name
		}
		alerts[i] = alert
	}

	recent, err := s.repo.RecentTransactions(q.LimitTransactions)
	if err != nil {
		return nil, err
	}
	recentResponses := make([]model.TransactionResponse, len(recent))
	for i := range recent {
		recentResponses[i] = recent[i].ToResponse()
	}

	categories, err := s.repo.CategoryStats()
	if err != nil {
		return nil, err
	}

	trendRows, err := s.repo.MonthlyTrends(windowStart)
	if err != nil {
		return nil, err
	}
	trends := make([]MonthlyTrend, len(trendRows))
	for i, row := range trendRows {
		trends[i] = MonthlyTrend{
			Month:             row.Month,
			StockIn:           row.StockIn,
			StockOut:          row.StockOut,
			NetChange:         row.StockIn - row.StockOut,
			TransactionsCount: row.TransactionsCount,
		}
	}

	top, err := s.repo.TopProducts(windowStart, q.LimitProducts)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:              *stats,
		StockAlerts:        alerts,
		RecentTransactions: recentResponses,
		CategoryStats:      categories,
		MonthlyTrends:      trends,
		TopProducts:        top,
	}, nil
}

func (s *dashboardService) collectStats(startOfToday, startOfMonth time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.repo.CountActiveProducts(); err != nil {
		return nil, err
	}
	if stats.TotalSuppliers, err = s.repo.CountActiveSuppliers(); err != nil {
		return nil, err
	}
	if stats.TotalStockValue, err = s.repo.TotalStockValue(); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.repo.CountLowStock(); err != nil {
		return nil, err
	}
	if stats.OutOfStockProducts, err = s.repo.CountOutOfStock(); err != nil {
		return nil, err
	}
	if stats.TransactionsToday, err = s.repo.CountTransactionsSince(startOfToday); err != nil {
		return nil, err
	}
	if stats.TransactionsThisMonth, err = s.repo.CountTransactionsSince(startOfMonth); err != nil {
		return nil, err
	}
	if stats.StockInToday, err = s.repo.SumQuantityByTypeSince(model.TxStockIn, startOfToday); err != nil {
		return nil, err
	}
	if stats.StockOutToday, err = s.repo.SumQuantityByTypeSince(model.TxStockOut, startOfToday); err != nil {
		return nil, err
	}
	if stats.StockInThisMonth, err = s.repo.SumQuantityByTypeSince(model.TxStockIn, startOfMonth); err != nil {
		return nil, err
	}
	if stats.StockOutThisMonth, err = s.repo.SumQuantityByTypeSince(model.TxStockOut, startOfMonth); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetTransactionTrends builds the daily activity series over the last days
// days. Rows come back per day and type; days with partial activity get zero
// buckets for the missing types.
func (s *dashboardService) GetTransactionTrends(days int) (*TransactionTrends, error) {
	now := s.now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := startOfToday.AddDate(0, 0, -days)

	rows, err := s.repo.DailyTrends(windowStart)
	if err != nil {
		return nil, err
	}

	trends := make([]DailyTrend, 0, len(rows))
	for _, row := range rows {
		if len(trends) == 0 || trends[len(trends)-1].Date != row.Day {
			trends = append(trends, DailyTrend{Date: row.Day})
		}
		day := &trends[len(trends)-1]
		bucket := TrendBucket{Count: row.Count, Quantity: row.Quantity, Amount: row.Amount}
		switch row.Type {
		case model.TxStockIn:
			day.StockIn = bucket
		case model.TxStockOut:
			day.StockOut = bucket
		case model.TxAdjustment:
			day.Adjustment = bucket
		}
	}

	return &TransactionTrends{
		Trends: trends,
		Period: TrendPeriod{
			StartDate: windowStart.Format("2006-01-02"),
			EndDate:   now.Format("2006-01-02"),
			Days:      days,
		},
	}, nil
}

func (s *dashboardService) GetValueBreakdown() (*ValueBreakdown, error) {
	byCategory, err := s.repo.CategoryStats()
	if err != nil {
		return nil, err
	}
	bySupplier, err := s.repo.ValueBySupplier()
	if err != nil {
		return nil, err
	}
	return &ValueBreakdown{ByCategory: byCategory, BySupplier: bySupplier}, nil
}

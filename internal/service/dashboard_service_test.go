package service

import (
	"testing"
	"time"

	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService(t *testing.T) {
	// Pinned clock: mid-March, mid-morning.
	now := time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)
	startOfToday := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	newSvc := func(repo *mockDashboardRepo) DashboardService {
		return &dashboardService{repo: repo, log: zap.NewNop(), now: func() time.Time { return now }}
	}

	t.Run("GetDashboard_SplitsTodayAndMonthWindows", func(t *testing.T) {
		repo := &mockDashboardRepo{
			activeProducts:  12,
			activeSuppliers: 3,
			stockValue:      decimal.RequireFromString("1234.50"),
			lowStock:        2,
			outOfStock:      1,
			txCount: map[time.Time]int64{
				startOfToday: 4,
				startOfMonth: 40,
			},
			qtySum: map[string]int64{
				qtyKey(model.TxStockIn, startOfToday):  7,
				qtyKey(model.TxStockOut, startOfToday): 2,
				qtyKey(model.TxStockIn, startOfMonth):  70,
				qtyKey(model.TxStockOut, startOfMonth): 25,
			},
		}
		svc := newSvc(repo)

		dashboard, err := svc.GetDashboard(DashboardQuery{DaysBack: 30, LimitAlerts: 10, LimitTransactions: 10, LimitProducts: 10})
		require.NoError(t, err)

		stats := dashboard.Stats
		require.Equal(t, int64(12), stats.TotalProducts)
		require.Equal(t, int64(3), stats.TotalSuppliers)
		require.True(t, stats.TotalStockValue.Equal(decimal.RequireFromString("1234.50")))
		require.Equal(t, int64(4), stats.TransactionsToday)
		require.Equal(t, int64(40), stats.TransactionsThisMonth)
		require.Equal(t, int64(7), stats.StockInToday)
		require.Equal(t, int64(2), stats.StockOutToday)
		require.Equal(t, int64(70), stats.StockInThisMonth)
		require.Equal(t, int64(25), stats.StockOutThisMonth)
	})

	t.Run("GetDashboard_MapsAlertsWithSupplier", func(t *testing.T) {
		supplier := &model.Supplier{Name: "Acme Metals"}
		repo := &mockDashboardRepo{
			txCount: map[time.Time]int64{},
			qtySum:  map[string]int64{},
			alerts: []model.Product{
				{
					Name:          "Bolt",
					SKU:           strPtr("BOLT-001"),
					CurrentStock:  0,
					MinStockLevel: 10,
					UnitPrice:     decimal.RequireFromString("0.75"),
					Supplier:      supplier,
				},
				{
					Name:          "Nut",
					CurrentStock:  3,
					MinStockLevel: 10,
					UnitPrice:     decimal.RequireFromString("0.25"),
				},
			},
		}
		svc := newSvc(repo)

		dashboard, err := svc.GetDashboard(DashboardQuery{DaysBack: 30})
		require.NoError(t, err)
		require.Len(t, dashboard.StockAlerts, 2)

		require.Equal(t, "out_of_stock", dashboard.StockAlerts[0].StockStatus)
		require.NotNil(t, dashboard.StockAlerts[0].SupplierName)
		require.Equal(t, "Acme Metals", *dashboard.StockAlerts[0].SupplierName)

		require.Equal(t, "low_stock", dashboard.StockAlerts[1].StockStatus)
		require.Nil(t, dashboard.StockAlerts[1].SupplierName)
	})

	t.Run("GetDashboard_ComputesTrendNetChange", func(t *testing.T) {
		repo := &mockDashboardRepo{
			txCount: map[time.Time]int64{},
			qtySum:  map[string]int64{},
			trends: []repository.MonthlyTrendRow{
				{Month: "2026-02", StockIn: 100, StockOut: 60, TransactionsCount: 14},
				{Month: "2026-03", StockIn: 70, StockOut: 90, TransactionsCount: 11},
			},
		}
		svc := newSvc(repo)

		dashboard, err := svc.GetDashboard(DashboardQuery{DaysBack: 60})
		require.NoError(t, err)
		require.Len(t, dashboard.MonthlyTrends, 2)
		require.Equal(t, int64(40), dashboard.MonthlyTrends[0].NetChange)
		require.Equal(t, int64(-20), dashboard.MonthlyTrends[1].NetChange)
	})

	t.Run("GetDashboard_IsIdempotent", func(t *testing.T) {
		repo := &mockDashboardRepo{
			activeProducts: 5,
			txCount:        map[time.Time]int64{startOfToday: 2, startOfMonth: 9},
			qtySum:         map[string]int64{},
		}
		svc := newSvc(repo)

		first, err := svc.GetDashboard(DashboardQuery{DaysBack: 30})
		require.NoError(t, err)
		second, err := svc.GetDashboard(DashboardQuery{DaysBack: 30})
		require.NoError(t, err)
		require.Equal(t, first.Stats, second.Stats)
	})

	t.Run("GetTransactionTrends_GroupsRowsByDayWithZeroBuckets", func(t *testing.T) {
		repo := &mockDashboardRepo{
			dailyTrends: []repository.DailyTrendRow{
				{Day: "2026-03-13", Type: model.TxStockIn, Count: 3, Quantity: 50, Amount: decimal.RequireFromString("125.00")},
				{Day: "2026-03-13", Type: model.TxStockOut, Count: 1, Quantity: 8, Amount: decimal.RequireFromString("20.00")},
				{Day: "2026-03-14", Type: model.TxAdjustment, Count: 2, Quantity: 30, Amount: decimal.Zero},
			},
		}
		svc := newSvc(repo)

		trends, err := svc.GetTransactionTrends(30)
		require.NoError(t, err)

		require.Equal(t, startOfToday.AddDate(0, 0, -30), repo.dailySince)
		require.Equal(t, "2026-02-13", trends.Period.StartDate)
		require.Equal(t, "2026-03-15", trends.Period.EndDate)
		require.Equal(t, 30, trends.Period.Days)

		require.Len(t, trends.Trends, 2)

		day := trends.Trends[0]
		require.Equal(t, "2026-03-13", day.Date)
		require.Equal(t, int64(3), day.StockIn.Count)
		require.Equal(t, int64(50), day.StockIn.Quantity)
		require.True(t, day.StockIn.Amount.Equal(decimal.RequireFromString("125.00")))
		require.Equal(t, int64(1), day.StockOut.Count)
		require.Equal(t, int64(0), day.Adjustment.Count)

		day = trends.Trends[1]
		require.Equal(t, "2026-03-14", day.Date)
		require.Equal(t, int64(0), day.StockIn.Count)
		require.Equal(t, int64(0), day.StockOut.Count)
		require.Equal(t, int64(2), day.Adjustment.Count)
		require.Equal(t, int64(30), day.Adjustment.Quantity)
	})

	t.Run("GetTransactionTrends_EmptyWindow", func(t *testing.T) {
		svc := newSvc(&mockDashboardRepo{})

		trends, err := svc.GetTransactionTrends(7)
		require.NoError(t, err)
		require.Empty(t, trends.Trends)
		require.Equal(t, 7, trends.Period.Days)
	})

	t.Run("GetValueBreakdown_CombinesCategoryAndSupplier", func(t *testing.T) {
		repo := &mockDashboardRepo{
			categories: []repository.CategoryStat{
				{Category: "fasteners", ProductCount: 4, TotalStock: 900, TotalValue: decimal.RequireFromString("500.00")},
			},
			supplierValues: []repository.SupplierValueRow{
				{Supplier: "Acme Metals", ProductCount: 4, TotalStock: 900, TotalValue: decimal.RequireFromString("500.00")},
			},
		}
		svc := newSvc(repo)

		breakdown, err := svc.GetValueBreakdown()
		require.NoError(t, err)
		require.Len(t, breakdown.ByCategory, 1)
		require.Len(t, breakdown.BySupplier, 1)
		require.Equal(t, "fasteners", breakdown.ByCategory[0].Category)
		require.Equal(t, "Acme Metals", breakdown.BySupplier[0].Supplier)
	})
}

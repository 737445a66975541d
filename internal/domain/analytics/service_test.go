package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
)

type stubProducts struct {
	count int64
	low   []product.Product
}

func (s stubProducts) Count(context.Context) (int64, error) { return s.count, nil }

func (s stubProducts) LowStock(context.Context, int, int) ([]product.Product, error) {
	return s.low, nil
}

type stubOrders struct {
	views []order.View
	err   error
}

func (s stubOrders) AdminList(context.Context, *order.AdminListRequest) ([]order.View, error) {
	return s.views, s.err
}

type stubCustomers int64

func (s stubCustomers) CountCustomers(context.Context) (int64, error) { return int64(s), nil }

func line(id uint, name string, qty int, price int64) order.Line {
	p := decimal.NewFromInt(price)
	return order.Line{ProductID: id, Name: name, Quantity: qty, UnitPrice: p, Subtotal: p.Mul(decimal.NewFromInt(int64(qty)))}
}

func TestDashboard(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 11, d, 0, 0, 0, 0, time.UTC) }

	views := []order.View{
		{ID: 1, PlacedAt: day(1), Status: order.StatusDelivered, Total: decimal.NewFromInt(300), Lines: []order.Line{line(1, "Fan", 3, 100)}},
		{ID: 2, PlacedAt: day(3), Status: order.StatusDelivered, Total: decimal.NewFromInt(200), Lines: []order.Line{line(2, "Heater", 1, 200)}},
		{ID: 3, PlacedAt: day(2), Status: order.StatusPending, Total: decimal.NewFromInt(100), Lines: []order.Line{line(1, "Fan", 1, 100)}},
		{ID: 4, PlacedAt: day(4), Status: order.StatusCancelled, Total: decimal.NewFromInt(900), Lines: []order.Line{line(3, "Split", 9, 100)}},
	}

	svc := NewService(
		stubProducts{count: 12, low: []product.Product{{ID: 9, Name: "Extractor", Stock: 1}}},
		stubOrders{views: views},
		stubCustomers(7),
	)

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(7), stats.TotalCustomers)
	assert.Equal(t, 2, stats.OrdersByStatus[order.StatusDelivered])
	assert.Equal(t, 0, stats.OrdersByStatus[order.StatusShipped])
	assert.Equal(t, "500.00", stats.RevenueDisplay)
	assert.True(t, stats.AvgOrderValue.Equal(decimal.NewFromInt(250)))

	require.Len(t, stats.TopProducts, 2, "cancelled orders do not count as sales")
	assert.Equal(t, "Fan", stats.TopProducts[0].Name)
	assert.Equal(t, 4, stats.TopProducts[0].Units)

	require.Len(t, stats.LowStockProducts, 1)
	assert.Equal(t, uint(4), stats.RecentOrders[0].ID)
}

func TestDashboard_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(stubProducts{}, stubOrders{err: boom}, stubCustomers(0))

	_, err := svc.Dashboard(context.Background())
	assert.ErrorIs(t, err, boom)
}

// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/your-org/ventilation-store/internal/domain/order"
	"github.com/your-org/ventilation-store/internal/domain/product"
)

// LowStockThreshold is the stock level at which a product is flagged
const LowStockThreshold = 5

// Products is the catalog side of the dashboard
type Products interface {
	Count(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold, limit int) ([]product.Product, error)
}

// Orders is the order side of the dashboard
type Orders interface {
	AdminList(ctx context.Context, req *order.AdminListRequest) ([]order.View, error)
}

// Customers is the profile side of the dashboard
type Customers interface {
	CountCustomers(ctx context.Context) (int64, error)
}

// Service builds the admin dashboard
type Service struct {
	products  Products
	orders    Orders
	customers Customers
}

// NewService creates a new analytics service
func NewService(products Products, orders Orders, customers Customers) *Service {
	return &Service{products: products, orders: orders, customers: customers}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	TotalOrders    int64 `json:"total_orders"`
	TotalCustomers int64 `json:"total_customers"`

	OrdersByStatus map[order.Status]int `json:"orders_by_status"`

	// Sales metrics
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
	RevenueDisplay   string          `json:"revenue_display"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`

	LowStockProducts []LowStockData     `json:"low_stock_products"`
	TopProducts      []ProductSalesData `json:"top_products"`
	RecentOrders     []order.View       `json:"recent_orders"`
}

// LowStockData represents a product running out
type LowStockData struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// ProductSalesData represents units sold per product
type ProductSalesData struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Dashboard gathers counts and sales figures. Orders placed from admin profiles are not counted.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := s.customers.CountCustomers(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.orders.AdminList(ctx, &order.AdminListRequest{Status: string(order.StatusAll)})
	if err != nil {
		return nil, err
	}

	lowStock, err := s.products.LowStock(ctx, LowStockThreshold, 10)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts:    totalProducts,
		TotalOrders:      int64(len(views)),
		TotalCustomers:   totalCustomers,
		OrdersByStatus:   order.CountByStatus(views),
		LowStockProducts: make([]LowStockData, 0, len(lowStock)),
		TopProducts:      topProducts(views, 5),
		RecentOrders:     recent(views, 5),
	}

	revenue := decimal.Zero
	delivered := 0
	for _, v := range views {
		if v.Status == order.StatusDelivered {
			revenue = revenue.Add(v.Total)
			delivered++
		}
	}
	stats.DeliveredRevenue = revenue
	stats.RevenueDisplay = revenue.StringFixed(2)
	stats.AvgOrderValue = decimal.Zero
	if delivered > 0 {
		stats.AvgOrderValue = revenue.Div(decimal.NewFromInt(int64(delivered))).Round(2)
	}

	for _, p := range lowStock {
		stats.LowStockProducts = append(stats.LowStockProducts, LowStockData{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
		})
	}

	return stats, nil
}

func topProducts(views []order.View, limit int) []ProductSalesData {
	byProduct := make(map[uint]*ProductSalesData)
	for _, v := range views {
		if v.Status == order.StatusCancelled {
			continue
		}
		for _, line := range v.Lines {
			entry, ok := byProduct[line.ProductID]
			if !ok {
				entry = &ProductSalesData{ProductID: line.ProductID, Name: line.Name, Revenue: decimal.Zero}
				byProduct[line.ProductID] = entry
			}
			entry.Units += line.Quantity
			entry.Revenue = entry.Revenue.Add(line.Subtotal)
		}
	}

	out := make([]ProductSalesData, 0, len(byProduct))
	for _, entry := range byProduct {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].ProductID < out[j].ProductID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func recent(views []order.View, limit int) []order.View {
	sorted := order.SortedByDateDescending(views)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// String renders a one-line summary for logs
func (d *DashboardStats) String() string {
	return fmt.Sprintf("products=%d orders=%d customers=%d revenue=%s",
		d.TotalProducts, d.TotalOrders, d.TotalCustomers, d.RevenueDisplay)
}

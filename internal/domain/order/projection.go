// internal/domain/order/projection.go
package order

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/your-org/ventilation-store/internal/domain/payment"
)

const (
	// UnspecifiedMethod labels payments with no row or an unknown method id
	UnspecifiedMethod = payment.Unspecified
	// UnavailableProduct names lines whose product and snapshot are both missing
	UnavailableProduct = "Unavailable product"
)

// MethodLabel translates a payment method id into its display label
func MethodLabel(id int) string {
	return payment.Label(id)
}

// MethodCode resolves a method key or label to its id
func MethodCode(name string) (int, bool) {
	m, ok := payment.Lookup(name)
	return m.ID, ok
}

// IsCardMethod reports whether the method requires card fields
func IsCardMethod(id int) bool {
	m, ok := payment.ByID(id)
	return ok && m.RequireCard
}

// Project flattens a record with its relations. Missing relations degrade to
// defaults instead of failing.
func Project(record *OrderRecord) View {
	if record == nil {
		return View{Lines: []Line{}, Payment: PaymentSummary{Method: UnspecifiedMethod}}
	}

	view := View{
		ID:              record.ID,
		Number:          Number(record.ID, record.PlacedAt),
		UserID:          record.UserID,
		PlacedAt:        record.PlacedAt,
		Status:          record.Status,
		Total:           record.Total,
		Lines:           make([]Line, 0, len(record.Details)),
		ShippingAddress: parseAddress(record.ShippingAddress),
		Payment:         projectPayment(record.Payments),
		Notes:           record.Notes,
		CancelReason:    record.CancelReason,
		CancelledAt:     record.CancelledAt,
		ShippedAt:       record.ShippedAt,
		DeliveredAt:     record.DeliveredAt,
	}

	for _, detail := range record.Details {
		view.Lines = append(view.Lines, projectLine(detail))
	}

	if record.Customer != nil {
		view.CustomerName = record.Customer.FullName()
		view.CustomerEmail = record.Customer.Email
	}
	if view.CustomerName == "" {
		view.CustomerName = view.ShippingAddress.FullName
	}
	if view.CustomerEmail == "" {
		view.CustomerEmail = view.ShippingAddress.Email
	}

	return view
}

// ProjectAll projects a slice of records in order
func ProjectAll(records []OrderRecord) []View {
	views := make([]View, 0, len(records))
	for i := range records {
		views = append(views, Project(&records[i]))
	}
	return views
}

func projectLine(detail OrderDetail) Line {
	line := Line{
		ProductID: detail.ProductID,
		Name:      detail.ProductName,
		UnitPrice: detail.UnitPrice,
		Quantity:  detail.Quantity,
		Subtotal:  detail.UnitPrice.Mul(decimal.NewFromInt(int64(detail.Quantity))),
	}

	if detail.Product != nil {
		if line.Name == "" {
			line.Name = detail.Product.Name
		}
		line.ImageURL = detail.Product.ImageURL
	}
	if line.Name == "" {
		line.Name = UnavailableProduct
	}

	return line
}

func projectPayment(payments []PaymentRecord) PaymentSummary {
	if len(payments) == 0 {
		return PaymentSummary{Method: UnspecifiedMethod, Amount: decimal.Zero}
	}

	p := payments[0]
	return PaymentSummary{
		MethodID:  p.MethodID,
		Method:    MethodLabel(p.MethodID),
		Amount:    p.Amount,
		Status:    p.Status,
		Reference: p.Reference,
		PaidAt:    p.PaidAt,
	}
}

func parseAddress(raw string) Address {
	var addr Address
	if strings.TrimSpace(raw) == "" {
		return addr
	}
	if err := json.Unmarshal([]byte(raw), &addr); err != nil {
		return Address{}
	}
	return addr
}

// EncodeAddress serializes an address for the shipping_address column
func EncodeAddress(addr Address) (string, error) {
	data, err := json.Marshal(addr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SortedByDateDescending returns a new slice ordered newest first.
// Orders placed at the same instant keep their relative order.
func SortedByDateDescending(views []View) []View {
	out := make([]View, len(views))
	copy(out, views)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})
	return out
}

// FilterByStatus keeps orders with the given status, or all of them for StatusAll,
// sorted newest first
func FilterByStatus(views []View, status Status) []View {
	if status == StatusAll || status == "" {
		return SortedByDateDescending(views)
	}

	filtered := make([]View, 0, len(views))
	for _, v := range views {
		if v.Status == status {
			filtered = append(filtered, v)
		}
	}
	return SortedByDateDescending(filtered)
}

// CountByStatus tallies orders per status
func CountByStatus(views []View) map[Status]int {
	counts := map[Status]int{
		StatusPending:   0,
		StatusShipped:   0,
		StatusDelivered: 0,
		StatusCancelled: 0,
	}
	for _, v := range views {
		counts[v.Status]++
	}
	return counts
}

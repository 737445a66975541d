// internal/domain/payment/methods.go
package payment

import "strings"

// Method is an accepted payment method
type Method struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	Label       string `json:"label"`
	RequireCard bool   `json:"requires_card"`
}

// Unspecified labels unknown or missing methods
const Unspecified = "Unspecified"

// Approved is the status recorded for settled payments
const Approved = "approved"

var methods = []Method{
	{ID: 1, Key: "credit", Label: "Credit card", RequireCard: true},
	{ID: 2, Key: "debit", Label: "Debit card", RequireCard: true},
	{ID: 3, Key: "paypal", Label: "PayPal"},
	{ID: 4, Key: "yape", Label: "Yape/Plin"},
}

// Methods returns the accepted methods in display order
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Label translates a method id into its display label
func Label(id int) string {
	if m, ok := ByID(id); ok {
		return m.Label
	}
	return Unspecified
}

// ByID looks up a method by id
func ByID(id int) (Method, bool) {
	for _, m := range methods {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// Lookup resolves a method key or label, case-insensitively
func Lookup(name string) (Method, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Method{}, false
	}
	for _, m := range methods {
		if name == m.Key || name == strings.ToLower(m.Label) {
			return m, true
		}
	}
	return Method{}, false
}

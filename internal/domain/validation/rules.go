// internal/domain/validation/rules.go
package validation

import (
	"sort"
	"strings"
)

// Rules maps a form field name to its validator
type Rules map[string]Func

// Errors holds the failed fields of a form, keyed by field name
type Errors struct {
	Fields map[string]string `json:"fields"`
}

func (e *Errors) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate runs every rule against values and returns nil when all pass.
// A field missing from values is validated as the empty string.
func (r Rules) Validate(values map[string]string) *Errors {
	var errs *Errors
	for field, check := range r {
		res := check(values[field])
		if res.Valid {
			continue
		}
		if errs == nil {
			errs = &Errors{Fields: make(map[string]string)}
		}
		errs.Fields[field] = res.Message
	}
	return errs
}

// Merge combines rule sets; later sets win on duplicate fields
func Merge(sets ...Rules) Rules {
	merged := make(Rules)
	for _, set := range sets {
		for field, check := range set {
			merged[field] = check
		}
	}
	return merged
}

// Join folds several validation results into one, nil when all are nil
func Join(results ...*Errors) *Errors {
	var joined *Errors
	for _, res := range results {
		if res == nil {
			continue
		}
		if joined == nil {
			joined = &Errors{Fields: make(map[string]string)}
		}
		for field, msg := range res.Fields {
			joined.Fields[field] = msg
		}
	}
	return joined
}

// ProfileRules validates the personal data section of a customer profile
var ProfileRules = Rules{
	"first_names": Name,
	"last_names":  Name,
	"national_id": NationalID,
	"birth_date":  BirthDate,
	"phone":       Phone,
	"email":       Email,
}

// AddressRules validates a profile shipping address
var AddressRules = Rules{
	"street":      Street,
	"number":      Required("Number"),
	"department":  Required("Department"),
	"city":        Required("City"),
	"district":    Required("District"),
	"postal_code": PostalCode,
	"reference":   Optional,
}

// CardRules validates card payment data at checkout
var CardRules = Rules{
	"card_number": CardNumber,
	"card_holder": CardHolder,
	"card_expiry": CardExpiry,
	"cvv":         CVV,
}

// ShippingRules validates the checkout shipping form
var ShippingRules = Rules{
	"full_name":   Required("Full name"),
	"address":     Required("Address"),
	"city":        Required("City"),
	"postal_code": PostalCode,
	"phone":       Phone,
	"email":       Email,
	"notes":       Optional,
}

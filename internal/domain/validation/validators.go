// internal/domain/validation/validators.go
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Result is the outcome of a single field check
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Func validates one raw form value
type Func func(input string) Result

var (
	lettersPattern    = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	nationalIDPattern = regexp.MustCompile(`^\d{8}$`)
	phonePattern      = regexp.MustCompile(`^9\d{8}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}$`)
	cardNumberPattern = regexp.MustCompile(`^\d{16}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	whitespace        = regexp.MustCompile(`\s`)
)

const birthDateLayout = "2006-01-02"

func ok() Result { return Result{Valid: true} }

func fail(message string) Result { return Result{Valid: false, Message: message} }

func blank(input string) bool { return strings.TrimSpace(input) == "" }

// Name checks first names and last names
func Name(input string) Result {
	if blank(input) {
		return fail("This field is required")
	}
	if !lettersPattern.MatchString(input) {
		return fail("Only letters and spaces are allowed")
	}
	if utf8.RuneCountInString(input) < 2 {
		return fail("Must be at least 2 characters long")
	}
	return ok()
}

// NationalID checks an 8-digit DNI
func NationalID(input string) Result {
	if blank(input) {
		return fail("National ID is required")
	}
	if !nationalIDPattern.MatchString(input) {
		return fail("National ID must have 8 digits")
	}
	return ok()
}

// BirthDate checks the customer is an adult, evaluated against the current time
func BirthDate(input string) Result {
	return BirthDateAt(input, time.Now())
}

// BirthDateAt checks a YYYY-MM-DD birth date gives an age between 18 and 120 at now.
func BirthDateAt(input string, now time.Time) Result {
	if blank(input) {
		return fail("Birth date is required")
	}

	born, err := time.Parse(birthDateLayout, strings.TrimSpace(input))
	if err != nil {
		return fail("Invalid date")
	}

	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}

	if age < 18 {
		return fail("You must be at least 18 years old")
	}
	if age > 120 {
		return fail("Invalid date")
	}
	return ok()
}

// Phone checks a 9-digit mobile number starting with 9
func Phone(input string) Result {
	if blank(input) {
		return fail("Phone is required")
	}
	if !phonePattern.MatchString(input) {
		return fail("Must have 9 digits and start with 9")
	}
	return ok()
}

// Email checks for a single @ between a non-empty local part and a dotted domain
func Email(input string) Result {
	if blank(input) {
		return fail("Email is required")
	}
	if !emailPattern.MatchString(input) {
		return fail("Invalid email")
	}
	return ok()
}

// Street checks the street line of an address
func Street(input string) Result {
	if blank(input) {
		return fail("Street is required")
	}
	if utf8.RuneCountInString(input) < 3 {
		return fail("Must be at least 3 characters long")
	}
	return ok()
}

// Required returns a validator that only rejects empty input
func Required(field string) Func {
	return func(input string) Result {
		if blank(input) {
			return fail(field + " is required")
		}
		return ok()
	}
}

// PostalCode checks a 5-digit postal code
func PostalCode(input string) Result {
	if blank(input) {
		return fail("Postal code is required")
	}
	if !postalCodePattern.MatchString(input) {
		return fail("Must have 5 digits")
	}
	return ok()
}

// CardNumber checks for 16 digits once whitespace is removed
func CardNumber(input string) Result {
	if blank(input) {
		return fail("Card number is required")
	}
	if !cardNumberPattern.MatchString(whitespace.ReplaceAllString(input, "")) {
		return fail("Must have 16 digits")
	}
	return ok()
}

// CardHolder checks the name printed on the card
func CardHolder(input string) Result {
	if blank(input) {
		return fail("Card holder name is required")
	}
	if !lettersPattern.MatchString(input) {
		return fail("Only letters and spaces are allowed")
	}
	return ok()
}

// CardExpiry checks an MM/YY expiry against the current month
func CardExpiry(input string) Result {
	return CardExpiryAt(input, time.Now())
}

// CardExpiryAt checks an MM/YY expiry. A card expiring in the month of now is still valid.
func CardExpiryAt(input string, now time.Time) Result {
	if blank(input) {
		return fail("Expiry date is required")
	}
	if !cardExpiryPattern.MatchString(input) {
		return fail("Invalid format (MM/YY)")
	}

	parts := strings.SplitN(input, "/", 2)
	month, _ := strconv.Atoi(parts[0])
	year, _ := strconv.Atoi(parts[1])
	year += 2000

	if year < now.Year() || (year == now.Year() && time.Month(month) < now.Month()) {
		return fail("The card has expired")
	}
	return ok()
}

// CVV checks a 3 or 4 digit security code
func CVV(input string) Result {
	if blank(input) {
		return fail("CVV is required")
	}
	if !cvvPattern.MatchString(input) {
		return fail("Must have 3 or 4 digits")
	}
	return ok()
}

// Optional accepts anything
func Optional(string) Result {
	return ok()
}

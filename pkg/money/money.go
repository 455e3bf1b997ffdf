// Package money provides currency-safe arithmetic for statement amounts using
// integer minor units (centavos) and the Fowler Money pattern. It wraps
// go-money for safe arithmetic and shopspring/decimal for exact scaling, so
// reconciliation sums are reproducible bit for bit.
package money

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currencies seen on Argentine bank statements.
const (
	ARS = "ARS" // Argentine peso
	USD = "USD" // US dollar accounts (printed as u$s)
)

// Money is a monetary value in minor units with a currency.
type Money struct {
	m *money.Money
}

// New creates a Money value from minor units (centavos) and a currency code.
func New(minorUnits int64, currencyCode string) *Money {
	return &Money{m: money.New(minorUnits, currencyCode)}
}

// NewFromDecimal creates Money from a decimal value, scaling to the
// currency's minor units.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(ARS)
	}
	minor := amount.Shift(int32(currency.Fraction)).Round(0).IntPart()
	return New(minor, currencyCode)
}

// Zero returns a zero value for the given currency.
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the value in minor units.
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Currency returns the ISO-4217 currency code.
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsNegative reports whether the amount is below zero.
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Add returns m + other. Currencies must match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Subtract returns m - other. Currencies must match.
func (m *Money) Subtract(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		if other == nil || other.m == nil {
			return Zero(ARS), nil
		}
		return &Money{m: other.m.Negative()}, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}
	result, err := m.m.Subtract(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Equals reports whether both values carry the same amount and currency.
func (m *Money) Equals(other *Money) bool {
	if m == nil || m.m == nil || other == nil || other.m == nil {
		return m.Amount() == 0 && other.Amount() == 0
	}
	eq, _ := m.m.Equals(other.m)
	return eq
}

// ToDecimal converts the amount to a decimal in major units.
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	return decimal.New(m.m.Amount(), -int32(m.m.Currency().Fraction))
}

// Display renders the amount with the currency symbol using go-money's
// per-currency template.
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return money.New(0, ARS).Display()
	}
	return m.m.Display()
}

// String renders the amount as a plain decimal string with a dot separator
// and two decimals (e.g. "-1234.56").
func (m *Money) String() string {
	return m.ToDecimal().StringFixed(2)
}

// FormatMinorUnits renders minor units as a decimal string using the given
// separators, e.g. 123456789 with ',' and '.' → "1.234.567,89". A leading
// minus sign is used for negatives regardless of how the source statement
// printed them.
func FormatMinorUnits(minorUnits int64, decimalSep, thousandsSep rune) string {
	d := decimal.New(minorUnits, -2)
	s := d.StringFixed(2) // canonical: -1234567.89

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 && thousandsSep != 0 {
			b.WriteRune(thousandsSep)
		}
		b.WriteRune(r)
	}
	b.WriteRune(decimalSep)
	b.WriteString(fracPart)
	return b.String()
}

// Package profile holds the per-bank parsing configuration: how to recognize
// the lines of a statement, how the bank prints numbers and dates, and which
// columns a transaction line carries. Profiles are immutable once loaded and
// shared read-only across concurrent conversions.
package profile

import (
	"regexp"
	"time"
)

// LineKind classifies one extracted text line against a profile.
type LineKind int

const (
	// LineHeader marks the start of the transaction table.
	LineHeader LineKind = iota
	// LineTransaction starts a new transaction tuple.
	LineTransaction
	// LineContinuation extends the previous transaction's description.
	LineContinuation
	// LineTotals closes the transaction table (totals / closing balance row).
	LineTotals
	// LineNoise is per-page repetition: reprinted column headers, page
	// footers, branding. Discarded without touching parser state.
	LineNoise
)

// String returns the classification name used in warnings and logs.
func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineTransaction:
		return "transaction"
	case LineContinuation:
		return "continuation"
	case LineTotals:
		return "totals"
	case LineNoise:
		return "noise"
	default:
		return "unrecognized"
	}
}

// LineRule binds a classification to a pattern. Rules are evaluated in
// profile order and the first match wins, so profile authors control
// precedence (a totals pattern that would also match the transaction pattern
// must come first).
type LineRule struct {
	Kind    LineKind
	Pattern *regexp.Regexp
}

// NegativeStyle is how the bank prints negative amounts.
type NegativeStyle int

const (
	// NegLeadingMinus: "-1.234,56"
	NegLeadingMinus NegativeStyle = iota
	// NegTrailingMinus: "1.234,56-"
	NegTrailingMinus
	// NegParentheses: "(1.234,56)"
	NegParentheses
)

// NumberFormat declares the locale conventions for amounts.
type NumberFormat struct {
	DecimalSep   rune
	ThousandsSep rune
	Negative     NegativeStyle
}

// AmountLayout declares which amount columns a transaction line carries.
type AmountLayout int

const (
	// AmountSingle: one signed amount column.
	AmountSingle AmountLayout = iota
	// AmountSplit: separate debit and credit columns, both printed on every
	// row (the unused one as zero). Debits are negated during normalization.
	AmountSplit
)

// BankProfile is the full parsing configuration for one bank layout.
//
// Transaction patterns use named capture groups: date, desc, amount (single
// layout) or debit/credit (split layout), and balance when the bank prints a
// running balance.
type BankProfile struct {
	ID          string
	DisplayName string

	Rules   []LineRule
	Numbers NumberFormat
	Amounts AmountLayout

	// DateLayout is a Go reference layout. When MonthNames is set the raw
	// month token is translated before parsing (e.g. "05-ENE" → "05-01").
	DateLayout string
	MonthNames map[string]time.Month
	// YearFromPeriod derives the year of day-month dates from the statement
	// period metadata (banks that print "05-ENE" without a year).
	YearFromPeriod bool

	HasBalanceColumn bool
	Currency         string

	// Optional metadata patterns, matched while seeking the table header.
	// HolderPattern and PeriodPattern use group 1 (PeriodPattern may expose
	// named groups from/to). Opening/ClosingPattern use named group amount.
	HolderPattern  *regexp.Regexp
	PeriodPattern  *regexp.Regexp
	OpeningPattern *regexp.Regexp
	ClosingPattern *regexp.Regexp
}

// Summary is the listing entry for bank selection.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spanishMonths maps the uppercase month abbreviations printed on Argentine
// statements.
var spanishMonths = map[string]time.Month{
	"ENE": time.January, "FEB": time.February, "MAR": time.March,
	"ABR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DIC": time.December,
}

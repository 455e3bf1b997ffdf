// Package statement defines the canonical records produced by a conversion:
// normalized transactions and the per-document result that flows from the
// normalizer through reconciliation into the exporters.
package statement

import "time"

// SourceRef points back at the extracted line a record came from, for error
// attribution. Page and Line are 1-based.
type SourceRef struct {
	Page int
	Line int
}

// Transaction is one normalized statement movement. Amount is in minor
// currency units (centavos), positive for credits and negative for debits;
// the sign is always resolved during normalization, never left implicit.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      int64
	// BalanceAfter is the running balance printed on the statement, in minor
	// units. Nil when the bank does not print one.
	BalanceAfter *int64
	Source       SourceRef
}

// Warning is a non-fatal finding from any pipeline stage.
type Warning struct {
	Stage   string // "layout", "normalize", "reconcile"
	Message string
	Source  SourceRef // zero value when not tied to a line
}

// Result is the outcome of converting one document with one bank profile.
// Transactions keep statement order; the order is meaningful and is never
// re-sorted downstream.
type Result struct {
	BankID   string
	Currency string

	// Statement metadata, empty when the profile does not capture it.
	AccountHolder string
	Period        string

	// OpeningBalance and ClosingBalance are in minor units, nil when the
	// statement does not print them.
	OpeningBalance *int64
	ClosingBalance *int64

	Transactions []Transaction
	Warnings     []Warning
}

// AddWarning appends a finding to the result.
func (r *Result) AddWarning(stage, message string, src SourceRef) {
	r.Warnings = append(r.Warnings, Warning{Stage: stage, Message: message, Source: src})
}

package convert

import "fmt"

// ErrorKind classifies a failed conversion for transport mapping and
// metrics. The handler decides the HTTP status from the kind alone.
type ErrorKind int

const (
	// KindInternal is an unexpected failure; details stay in the logs.
	KindInternal ErrorKind = iota
	// KindUnknownBank: the requested bank id is not registered.
	KindUnknownBank
	// KindUnprocessableDocument: the upload is not a readable text PDF.
	KindUnprocessableDocument
	// KindLayoutMismatch: the document does not match the bank's layout.
	KindLayoutMismatch
	// KindNoTransactions: the layout matched but no movements were found.
	KindNoTransactions
	// KindReconciliationFailed: the output contradicts the statement's totals.
	KindReconciliationFailed
)

// String is the outcome label used in metrics and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindUnknownBank:
		return "unknown_bank"
	case KindUnprocessableDocument:
		return "unprocessable_document"
	case KindLayoutMismatch:
		return "layout_mismatch"
	case KindNoTransactions:
		return "no_transactions"
	case KindReconciliationFailed:
		return "reconciliation_failed"
	default:
		return "internal"
	}
}

// ConversionError is the single error type the service returns. Detail is the
// user-facing message (Spanish, safe to put on the wire); Err carries the
// underlying cause for logging.
type ConversionError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ConversionError) Unwrap() error { return e.Err }

func failure(kind ErrorKind, detail string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Detail: detail, Err: err}
}

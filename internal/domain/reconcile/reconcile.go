// Package reconcile validates a normalized statement against its own
// arithmetic: running balances, opening/closing totals, duplicate rows and
// date ordering. It decides whether the conversion is trustworthy enough to
// hand to the user.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
	"github.com/avalosjm/conversor-bancario/pkg/money"
)

// ErrReconciliationFailed means the statement's own numbers contradict the
// recognized movements badly enough that the output cannot be trusted.
var ErrReconciliationFailed = errors.New("los saldos del extracto no concilian con los movimientos reconocidos")

// Verdict is the reconciliation outcome for one statement.
type Verdict int

const (
	// Valid: every available check passed.
	Valid Verdict = iota
	// ValidWithWarnings: usable output with findings attached.
	ValidWithWarnings
	// Invalid: the output contradicts the statement and must not be delivered.
	Invalid
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case ValidWithWarnings:
		return "valid-with-warnings"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Policy tunes the checker. A few isolated balance mismatches are usually an
// extraction artifact on one line; a large fraction means the amounts
// themselves are being misread.
type Policy struct {
	// MismatchFraction is the tolerated share of per-row balance mismatches
	// before the whole statement is rejected.
	MismatchFraction float64
	// NearDuplicateDistance is the maximum Levenshtein distance between the
	// descriptions of two adjacent same-date same-amount rows that still
	// triggers a possible-duplicate warning.
	NearDuplicateDistance int
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{MismatchFraction: 0.20, NearDuplicateDistance: 3}
}

// Checker runs the reconciliation checks.
type Checker struct {
	policy Policy
}

// New creates a Checker with the given policy.
func New(policy Policy) *Checker {
	return &Checker{policy: policy}
}

// Check appends findings to res.Warnings and returns the verdict. On Invalid
// it also returns an error wrapping ErrReconciliationFailed with the reason.
// Transactions are never reordered or modified.
func (c *Checker) Check(res *statement.Result) (Verdict, error) {
	before := len(res.Warnings)

	if err := c.checkBalances(res); err != nil {
		return Invalid, err
	}
	c.checkDuplicates(res)
	c.checkDateOrder(res)

	if len(res.Warnings) > before {
		return ValidWithWarnings, nil
	}
	return Valid, nil
}

func (c *Checker) checkBalances(res *statement.Result) error {
	rowsWithBalance := 0
	for _, tx := range res.Transactions {
		if tx.BalanceAfter != nil {
			rowsWithBalance++
		}
	}

	if rowsWithBalance > 0 {
		return c.checkRunningBalances(res)
	}
	if res.OpeningBalance != nil && res.ClosingBalance != nil {
		return c.checkTotals(res)
	}

	res.AddWarning("reconcile", "el extracto no imprime saldos: los importes no pudieron verificarse", statement.SourceRef{})
	return nil
}

// checkRunningBalances walks the printed running balance. Each checkable row
// must satisfy previous + amount = balance. Isolated mismatches become
// warnings; past the policy fraction the statement is rejected.
func (c *Checker) checkRunningBalances(res *statement.Result) error {
	currency := statementCurrency(res)

	var prev *int64
	if res.OpeningBalance != nil {
		v := *res.OpeningBalance
		prev = &v
	}

	checked, mismatched := 0, 0
	for _, tx := range res.Transactions {
		if tx.BalanceAfter == nil {
			prev = nil
			continue
		}
		if prev != nil {
			checked++
			expected, err := money.New(*prev, currency).Add(money.New(tx.Amount, currency))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
			}
			if !expected.Equals(money.New(*tx.BalanceAfter, currency)) {
				mismatched++
				res.AddWarning("reconcile", fmt.Sprintf(
					"saldo inconsistente: se esperaba %s y el extracto imprime %s",
					money.FormatMinorUnits(expected.Amount(), ',', '.'),
					money.FormatMinorUnits(*tx.BalanceAfter, ',', '.'),
				), tx.Source)
			}
		}
		v := *tx.BalanceAfter
		prev = &v
	}

	if checked > 0 && float64(mismatched)/float64(checked) > c.policy.MismatchFraction {
		return fmt.Errorf("%w: %d de %d saldos no coinciden", ErrReconciliationFailed, mismatched, checked)
	}

	if res.ClosingBalance != nil && prev != nil && *prev != *res.ClosingBalance {
		res.AddWarning("reconcile", fmt.Sprintf(
			"el saldo final impreso %s no coincide con el ultimo saldo de la tabla %s",
			money.FormatMinorUnits(*res.ClosingBalance, ',', '.'),
			money.FormatMinorUnits(*prev, ',', '.'),
		), statement.SourceRef{})
	}
	return nil
}

// checkTotals is the fallback when only opening/closing balances exist. With
// a single equation there is no way to localize an error, so a mismatch
// rejects the statement outright.
func (c *Checker) checkTotals(res *statement.Result) error {
	currency := statementCurrency(res)

	expected := money.New(*res.OpeningBalance, currency)
	for _, tx := range res.Transactions {
		sum, err := expected.Add(money.New(tx.Amount, currency))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReconciliationFailed, err)
		}
		expected = sum
	}
	if !expected.Equals(money.New(*res.ClosingBalance, currency)) {
		return fmt.Errorf("%w: saldo anterior %s mas movimientos da %s, el extracto imprime %s",
			ErrReconciliationFailed,
			money.FormatMinorUnits(*res.OpeningBalance, ',', '.'),
			money.FormatMinorUnits(expected.Amount(), ',', '.'),
			money.FormatMinorUnits(*res.ClosingBalance, ',', '.'),
		)
	}
	return nil
}

// statementCurrency falls back to pesos for results whose profile did not
// stamp a currency; a single statement never mixes currencies.
func statementCurrency(res *statement.Result) string {
	if res.Currency != "" {
		return res.Currency
	}
	return money.ARS
}

// checkDuplicates flags adjacent rows with the same date and amount whose
// descriptions are identical or nearly so. Duplicated lines are a known
// artifact of overlapping text runs in some PDFs.
func (c *Checker) checkDuplicates(res *statement.Result) {
	for i := 1; i < len(res.Transactions); i++ {
		prev, cur := res.Transactions[i-1], res.Transactions[i]
		if !prev.Date.Equal(cur.Date) || prev.Amount != cur.Amount {
			continue
		}
		if prev.Description == cur.Description {
			res.AddWarning("reconcile", fmt.Sprintf("posible movimiento duplicado: %q", cur.Description), cur.Source)
			continue
		}
		if fuzzy.LevenshteinDistance(prev.Description, cur.Description) <= c.policy.NearDuplicateDistance {
			res.AddWarning("reconcile", fmt.Sprintf("posible duplicado con descripcion similar: %q y %q",
				prev.Description, cur.Description), cur.Source)
		}
	}
}

// checkDateOrder warns when dates go backwards. Statements list movements
// chronologically; a regression usually means rows from different sections
// got mixed.
func (c *Checker) checkDateOrder(res *statement.Result) {
	for i := 1; i < len(res.Transactions); i++ {
		if res.Transactions[i].Date.Before(res.Transactions[i-1].Date) {
			res.AddWarning("reconcile", "las fechas no estan en orden cronologico", res.Transactions[i].Source)
			return
		}
	}
}

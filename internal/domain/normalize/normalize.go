// Package normalize turns the raw field tuples recovered by the layout stage
// into canonical transactions: minor-unit integer amounts with resolved
// signs, real dates, and cleaned descriptions.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avalosjm/conversor-bancario/internal/domain/layout"
	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

// ErrFirstRowInvalid is returned when the very first recognized row cannot be
// normalized. One broken row mid-statement is a dropped row; a broken first
// row means the transaction pattern is matching the wrong thing, which is a
// layout problem, not a data problem.
var ErrFirstRowInvalid = errors.New("la primera fila reconocida no pudo interpretarse")

// minorUnitScale is the number of decimal places carried by the supported
// currencies (ARS, USD).
const minorUnitScale = 2

var monthToken = regexp.MustCompile(`[A-ZÁÉÍÓÚÑ]{3}`)

// Normalizer converts layout tuples into statement records.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize builds a statement.Result from the structural parse. Rows that
// cannot be normalized are dropped with a warning, except the first row,
// whose failure is fatal. Statement order is preserved.
func (n *Normalizer) Normalize(prof *profile.BankProfile, parsed *layout.Result) (*statement.Result, error) {
	res := &statement.Result{
		BankID:        prof.ID,
		Currency:      prof.Currency,
		AccountHolder: parsed.Holder,
		Period:        parsed.Period,
		Warnings:      parsed.Warnings,
	}

	if parsed.OpeningRaw != "" {
		if v, err := ParseAmount(parsed.OpeningRaw, prof.Numbers); err != nil {
			res.AddWarning("normalize", fmt.Sprintf("saldo anterior ilegible %q: %v", parsed.OpeningRaw, err), statement.SourceRef{})
		} else {
			res.OpeningBalance = &v
		}
	}
	if parsed.ClosingRaw != "" {
		if v, err := ParseAmount(parsed.ClosingRaw, prof.Numbers); err != nil {
			res.AddWarning("normalize", fmt.Sprintf("saldo final ilegible %q: %v", parsed.ClosingRaw, err), statement.SourceRef{})
		} else {
			res.ClosingBalance = &v
		}
	}

	periodFrom, periodTo := periodRange(prof, parsed.Period)

	for i, tuple := range parsed.Tuples {
		tx, err := n.normalizeTuple(prof, tuple, periodFrom, periodTo)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("%w: %v", ErrFirstRowInvalid, err)
			}
			res.AddWarning("normalize", fmt.Sprintf("fila descartada: %v", err), tuple.Source)
			continue
		}
		if tx == nil {
			res.AddWarning("normalize", "fila sin importe (debito y credito en cero), descartada", tuple.Source)
			continue
		}
		res.Transactions = append(res.Transactions, *tx)
	}
	return res, nil
}

// normalizeTuple returns (nil, nil) for a droppable zero-amount split row.
func (n *Normalizer) normalizeTuple(prof *profile.BankProfile, tuple layout.RawTuple, periodFrom, periodTo time.Time) (*statement.Transaction, error) {
	date, err := parseDate(prof, tuple.Date, periodFrom, periodTo)
	if err != nil {
		return nil, fmt.Errorf("fecha %q: %w", tuple.Date, err)
	}

	var amount int64
	if prof.Amounts == profile.AmountSplit {
		debit, err := ParseAmount(tuple.Debit, prof.Numbers)
		if err != nil {
			return nil, fmt.Errorf("debito %q: %w", tuple.Debit, err)
		}
		credit, err := ParseAmount(tuple.Credit, prof.Numbers)
		if err != nil {
			return nil, fmt.Errorf("credito %q: %w", tuple.Credit, err)
		}
		if debit == 0 && credit == 0 {
			return nil, nil
		}
		amount = credit - debit
	} else {
		amount, err = ParseAmount(tuple.Amount, prof.Numbers)
		if err != nil {
			return nil, fmt.Errorf("importe %q: %w", tuple.Amount, err)
		}
	}

	tx := &statement.Transaction{
		Date:        date,
		Description: cleanDescription(tuple.Desc),
		Amount:      amount,
		Source:      tuple.Source,
	}
	if prof.HasBalanceColumn && tuple.Balance != "" {
		balance, err := ParseAmount(tuple.Balance, prof.Numbers)
		if err != nil {
			return nil, fmt.Errorf("saldo %q: %w", tuple.Balance, err)
		}
		tx.BalanceAfter = &balance
	}
	return tx, nil
}

// ParseAmount converts a printed amount into minor units. It accepts the
// three negative notations (leading minus, trailing minus, parentheses)
// regardless of the profile's preferred one, and rejects values whose scale
// exceeds the currency's two decimals rather than rounding them.
func ParseAmount(raw string, nf profile.NumberFormat) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("importe vacio")
	}

	negative := false
	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		negative = true
		s = s[1 : len(s)-1]
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		negative = true
		s = s[:len(s)-1]
	}
	s = strings.TrimSpace(s)

	if nf.ThousandsSep != 0 {
		s = strings.ReplaceAll(s, string(nf.ThousandsSep), "")
	}
	if nf.DecimalSep != '.' {
		if strings.Contains(s, ".") {
			return 0, errors.New("separador decimal inesperado")
		}
		s = strings.ReplaceAll(s, string(nf.DecimalSep), ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("importe ilegible: %w", err)
	}
	shifted := d.Shift(minorUnitScale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("importe con mas de %d decimales", minorUnitScale)
	}
	minor := shifted.IntPart()
	if negative {
		minor = -minor
	}
	return minor, nil
}

// parseDate parses a raw date token using the profile's layout. Profiles with
// MonthNames print a month abbreviation that is translated first; profiles
// with YearFromPeriod print no year, which is then taken from the statement
// period (the destination year when the month falls outside the opening
// month's run, to cover periods spanning a year boundary).
func parseDate(prof *profile.BankProfile, raw string, periodFrom, periodTo time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("fecha vacia")
	}

	if len(prof.MonthNames) > 0 {
		token := monthToken.FindString(s)
		month, ok := prof.MonthNames[token]
		if !ok {
			return time.Time{}, fmt.Errorf("mes desconocido %q", token)
		}
		s = strings.Replace(s, token, fmt.Sprintf("%02d", int(month)), 1)
	}

	if prof.YearFromPeriod {
		if periodFrom.IsZero() {
			return time.Time{}, errors.New("la fecha no incluye el anio y el periodo del extracto no se reconocio")
		}
		t, err := time.Parse(prof.DateLayout, fmt.Sprintf("%s-%d", s, periodFrom.Year()))
		if err != nil {
			return time.Time{}, err
		}
		if t.Month() < periodFrom.Month() && !periodTo.IsZero() && periodTo.Year() > periodFrom.Year() {
			t = t.AddDate(1, 0, 0)
		}
		return t, nil
	}

	return time.Parse(prof.DateLayout, s)
}

// periodRange re-matches the captured period line to recover its from/to
// dates. Zero times when the profile has no period pattern or it did not
// match.
func periodRange(prof *profile.BankProfile, period string) (time.Time, time.Time) {
	if prof.PeriodPattern == nil || period == "" {
		return time.Time{}, time.Time{}
	}
	m := prof.PeriodPattern.FindStringSubmatch(period)
	if m == nil {
		return time.Time{}, time.Time{}
	}
	var from, to time.Time
	for i, name := range prof.PeriodPattern.SubexpNames() {
		if i >= len(m) {
			break
		}
		t, err := time.Parse("02/01/2006", m[i])
		if err != nil {
			continue
		}
		switch name {
		case "from":
			from = t
		case "to":
			to = t
		}
	}
	return from, to
}

// cleanDescription collapses runs of whitespace left by columnar extraction.
func cleanDescription(desc string) string {
	return strings.Join(strings.Fields(desc), " ")
}

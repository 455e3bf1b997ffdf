// Package layout recovers transaction structure from extracted statement
// text. A profile-driven state machine classifies each line and assembles
// raw field tuples, staying inside the transaction block across page
// boundaries so reprinted per-page headers never lose or duplicate rows.
package layout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/avalosjm/conversor-bancario/internal/domain/extract"
	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

var (
	// ErrLayoutMismatch means the text does not resemble the selected
	// profile at all: no header and no transaction line ever matched.
	// Strong signal of a wrong bank selection.
	ErrLayoutMismatch = errors.New("el documento no coincide con el formato del banco seleccionado")
	// ErrNoTransactions means the layout partially matched (header found)
	// but no transaction rows were recognized.
	ErrNoTransactions = errors.New("no se reconocieron movimientos en el documento")
	// ErrTooManyLines is the defensive cap on pathological documents.
	ErrTooManyLines = errors.New("el documento excede el limite de lineas procesables")
)

// maxStoredWarnings bounds the per-document warning list; past the cap only
// the counter grows.
const maxStoredWarnings = 25

// RawTuple is one transaction row before normalization. All fields are the
// raw strings captured from the line; unused columns stay empty.
type RawTuple struct {
	Date    string
	Desc    string
	Amount  string // single-column layouts
	Debit   string // split layouts
	Credit  string
	Balance string
	Source  statement.SourceRef
}

// Result is the structural parse of one document.
type Result struct {
	Tuples     []RawTuple
	OpeningRaw string
	ClosingRaw string
	Holder     string
	Period     string
	HeaderSeen bool
	Warnings   []statement.Warning
}

// Parser assembles RawTuples from extracted lines.
type Parser struct {
	maxLines int
}

// NewParser creates a parser with the given per-document line cap.
func NewParser(maxLines int) *Parser {
	return &Parser{maxLines: maxLines}
}

// Parse runs the classification machine over the document lines.
func (p *Parser) Parse(ctx context.Context, prof *profile.BankProfile, lines []extract.RawLine) (*Result, error) {
	if p.maxLines > 0 && len(lines) > p.maxLines {
		return nil, fmt.Errorf("%w (%d > %d)", ErrTooManyLines, len(lines), p.maxLines)
	}

	res := &Result{}
	st := stateSeekingHeader
	var current *RawTuple
	droppedWarnings := 0

	closeCurrent := func() {
		if current != nil {
			res.Tuples = append(res.Tuples, *current)
			current = nil
		}
	}
	warn := func(msg string, src statement.SourceRef) {
		if len(res.Warnings) < maxStoredWarnings {
			res.Warnings = append(res.Warnings, statement.Warning{Stage: "layout", Message: msg, Source: src})
		} else {
			droppedWarnings++
		}
	}

	for i, line := range lines {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if st == stateDone {
			break
		}

		src := statement.SourceRef{Page: line.Page, Line: line.Line}

		if p.captureMetadata(prof, res, st, line.Text) {
			continue
		}

		kind, match, rule := classify(prof, line.Text)
		switch kind {
		case profile.LineNoise:
			// Per-page repetition: never touches state, so a transaction
			// block survives page breaks intact.
			continue

		case profile.LineHeader:
			if st == stateSeekingHeader {
				st = stateInBlock
			}
			// Inside the block a reprinted header is page noise.
			res.HeaderSeen = true

		case profile.LineTransaction:
			closeCurrent()
			tuple := tupleFrom(rule.Pattern, match, src)
			current = &tuple
			st = stateSeekingContinuation

		case profile.LineContinuation:
			if current == nil {
				warn(fmt.Sprintf("linea de continuacion sin movimiento previo: %q", strings.TrimSpace(line.Text)), src)
				continue
			}
			desc := groupValue(rule.Pattern, match, "desc")
			current.Desc = strings.TrimSpace(current.Desc + " " + strings.TrimSpace(desc))

		case profile.LineTotals:
			// Summary lines in the preamble can look like a totals row
			// ("SALDO FINAL AL CIERRE..."); only the totals row of the
			// transaction table closes the document.
			if st == stateSeekingHeader {
				continue
			}
			closeCurrent()
			st = stateDone

		default: // unrecognized
			if st == stateInBlock || st == stateSeekingContinuation {
				warn(fmt.Sprintf("linea no reconocida dentro de la tabla: %q", strings.TrimSpace(line.Text)), src)
			}
		}
	}
	closeCurrent()

	if droppedWarnings > 0 {
		res.Warnings = append(res.Warnings, statement.Warning{
			Stage:   "layout",
			Message: fmt.Sprintf("se omitieron %d advertencias adicionales", droppedWarnings),
		})
	}

	if len(res.Tuples) == 0 {
		if !res.HeaderSeen {
			return nil, ErrLayoutMismatch
		}
		return nil, ErrNoTransactions
	}
	if !res.HeaderSeen {
		res.Warnings = append(res.Warnings, statement.Warning{
			Stage:   "layout",
			Message: "se reconocieron movimientos sin encabezado de tabla",
		})
	}
	return res, nil
}

// captureMetadata records holder, period and opening/closing balance lines.
// Returns true when the line was consumed as metadata.
func (p *Parser) captureMetadata(prof *profile.BankProfile, res *Result, st state, text string) bool {
	if st == stateSeekingHeader {
		if res.Holder == "" && prof.HolderPattern != nil {
			if m := prof.HolderPattern.FindStringSubmatch(text); m != nil {
				res.Holder = strings.TrimSpace(m[1])
				return true
			}
		}
		if res.Period == "" && prof.PeriodPattern != nil {
			if m := prof.PeriodPattern.FindStringSubmatch(text); m != nil {
				res.Period = strings.TrimSpace(m[0])
				return true
			}
		}
	}
	if res.OpeningRaw == "" && prof.OpeningPattern != nil {
		if m := prof.OpeningPattern.FindStringSubmatch(text); m != nil {
			res.OpeningRaw = groupValue(prof.OpeningPattern, m, "amount")
			return true
		}
	}
	if res.ClosingRaw == "" && prof.ClosingPattern != nil {
		if m := prof.ClosingPattern.FindStringSubmatch(text); m != nil {
			res.ClosingRaw = groupValue(prof.ClosingPattern, m, "amount")
			// Fall through to classification: the closing line is usually
			// also the totals row that ends the block.
		}
	}
	return false
}

// classify returns the first matching rule, spec'd so that profile rule
// order decides precedence.
func classify(prof *profile.BankProfile, text string) (profile.LineKind, []string, *profile.LineRule) {
	for i := range prof.Rules {
		rule := &prof.Rules[i]
		if m := rule.Pattern.FindStringSubmatch(text); m != nil {
			return rule.Kind, m, rule
		}
	}
	return profile.LineKind(-1), nil, nil
}

func tupleFrom(re *regexp.Regexp, match []string, src statement.SourceRef) RawTuple {
	return RawTuple{
		Date:    strings.TrimSpace(groupValue(re, match, "date")),
		Desc:    strings.TrimSpace(groupValue(re, match, "desc")),
		Amount:  strings.TrimSpace(groupValue(re, match, "amount")),
		Debit:   strings.TrimSpace(groupValue(re, match, "debit")),
		Credit:  strings.TrimSpace(groupValue(re, match, "credit")),
		Balance: strings.TrimSpace(groupValue(re, match, "balance")),
		Source:  src,
	}
}

func groupValue(re *regexp.Regexp, match []string, name string) string {
	for i, n := range re.SubexpNames() {
		if n == name && i < len(match) {
			return match[i]
		}
	}
	return ""
}

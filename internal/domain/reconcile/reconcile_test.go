package reconcile

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

func ptr(v int64) *int64 { return &v }

func hasWarningContaining(res *statement.Result, substr string) bool {
	for _, w := range res.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestCheck(t *testing.T) {
	checker := New(DefaultPolicy())

	t.Run("consistent running balances are valid", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(100000),
			ClosingBalance: ptr(117525),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "TRANSFERENCIA RECIBIDA", Amount: 25050, BalanceAfter: ptr(125050)},
				{Date: day(5), Description: "COMPRA SUPERMERCADO", Amount: -7525, BalanceAfter: ptr(117525)},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, Valid, verdict)
		assert.Empty(t, res.Warnings)
	})

	t.Run("balances reconcile in the statement currency", func(t *testing.T) {
		res := &statement.Result{
			Currency:       "USD",
			OpeningBalance: ptr(50000),
			ClosingBalance: ptr(60000),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "WIRE TRANSFER", Amount: 10000, BalanceAfter: ptr(60000)},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, Valid, verdict)
	})

	t.Run("isolated balance mismatch warns", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(0),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 1000, BalanceAfter: ptr(1000)},
				{Date: day(2), Description: "B", Amount: 1000, BalanceAfter: ptr(2100), Source: statement.SourceRef{Page: 1, Line: 8}},
				{Date: day(3), Description: "C", Amount: 1000, BalanceAfter: ptr(3100)},
				{Date: day(4), Description: "D", Amount: 1000, BalanceAfter: ptr(4100)},
				{Date: day(5), Description: "E", Amount: 1000, BalanceAfter: ptr(5100)},
				{Date: day(6), Description: "F", Amount: 1000, BalanceAfter: ptr(6100)},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "reconcile", res.Warnings[0].Stage)
		assert.Equal(t, 8, res.Warnings[0].Source.Line)
	})

	t.Run("widespread balance mismatches reject the statement", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(0),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 1000, BalanceAfter: ptr(9999)},
				{Date: day(2), Description: "B", Amount: 1000, BalanceAfter: ptr(8888)},
				{Date: day(3), Description: "C", Amount: 1000, BalanceAfter: ptr(7777)},
			},
		}

		verdict, err := checker.Check(res)
		assert.Equal(t, Invalid, verdict)
		assert.ErrorIs(t, err, ErrReconciliationFailed)
	})

	t.Run("totals-only mismatch is fatal", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(100000),
			ClosingBalance: ptr(999999),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 25050},
				{Date: day(5), Description: "B", Amount: -7525},
			},
		}

		verdict, err := checker.Check(res)
		assert.Equal(t, Invalid, verdict)
		assert.ErrorIs(t, err, ErrReconciliationFailed)
	})

	t.Run("totals-only match is valid", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(100000),
			ClosingBalance: ptr(117525),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 25050},
				{Date: day(5), Description: "B", Amount: -7525},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, Valid, verdict)
	})

	t.Run("no balances at all is unverifiable", func(t *testing.T) {
		res := &statement.Result{
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 25050},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0].Message, "no pudieron verificarse")
	})

	t.Run("closing balance disagreeing with last row warns", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(0),
			ClosingBalance: ptr(5000),
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "A", Amount: 1000, BalanceAfter: ptr(1000)},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0].Message, "saldo final")
	})

	t.Run("exact adjacent duplicate warns", func(t *testing.T) {
		res := &statement.Result{
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "DEBITO AUTOMATICO LUZ", Amount: -5000},
				{Date: day(1), Description: "DEBITO AUTOMATICO LUZ", Amount: -5000},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)
		assert.True(t, hasWarningContaining(res, "posible movimiento duplicado"))
	})

	t.Run("near duplicate within edit distance warns", func(t *testing.T) {
		res := &statement.Result{
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "COMPRA VISA 1234", Amount: -5000},
				{Date: day(1), Description: "COMPRA VISA 1235", Amount: -5000},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)
		assert.True(t, hasWarningContaining(res, "descripcion similar"))
	})

	t.Run("distinct adjacent rows do not warn", func(t *testing.T) {
		res := &statement.Result{
			Transactions: []statement.Transaction{
				{Date: day(1), Description: "COMPRA SUPERMERCADO COTO", Amount: -5000},
				{Date: day(1), Description: "PAGO EXPENSAS CONSORCIO", Amount: -5000},
			},
		}

		_, err := checker.Check(res)
		require.NoError(t, err)
		assert.False(t, hasWarningContaining(res, "duplicado"))
	})

	t.Run("dates out of order warn once", func(t *testing.T) {
		res := &statement.Result{
			OpeningBalance: ptr(0),
			ClosingBalance: ptr(3000),
			Transactions: []statement.Transaction{
				{Date: day(5), Description: "A", Amount: 1000},
				{Date: day(2), Description: "B", Amount: 1000},
				{Date: day(1), Description: "C", Amount: 1000},
			},
		}

		verdict, err := checker.Check(res)
		require.NoError(t, err)
		assert.Equal(t, ValidWithWarnings, verdict)

		count := 0
		for _, w := range res.Warnings {
			if w.Message == "las fechas no estan en orden cronologico" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})
}

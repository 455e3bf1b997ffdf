package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

func ptr(v int64) *int64 { return &v }

func profileByID(t *testing.T, id string) *profile.BankProfile {
	t.Helper()
	for _, p := range profile.Defaults() {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("profile %q not found", id)
	return nil
}

func sampleResult() *statement.Result {
	return &statement.Result{
		BankID:         "bbva-frances",
		Currency:       "ARS",
		AccountHolder:  "PEREZ JUAN",
		Period:         "PERIODO: 01/03/2024 AL 31/03/2024",
		OpeningBalance: ptr(100000),
		ClosingBalance: ptr(117525),
		Transactions: []statement.Transaction{
			{
				Date:         time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
				Description:  "TRANSFERENCIA RECIBIDA",
				Amount:       25050,
				BalanceAfter: ptr(125050),
			},
			{
				Date:         time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
				Description:  "COMPRA SUPERMERCADO",
				Amount:       -7525,
				BalanceAfter: ptr(117525),
			},
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "hsbc_procesado.xlsx", Filename("hsbc", "xlsx"))
	assert.Equal(t, "galicia_procesado.csv", Filename("galicia", "csv"))
}

func TestXLSXExport(t *testing.T) {
	exporter := NewXLSX()
	prof := profileByID(t, "bbva-frances")

	t.Run("workbook carries metadata, header and rows", func(t *testing.T) {
		data, err := exporter.Export(sampleResult(), prof)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)

		flat := make(map[string]bool)
		for _, row := range rows {
			for _, cell := range row {
				flat[cell] = true
			}
		}
		assert.True(t, flat["BBVA Frances"])
		assert.True(t, flat["PEREZ JUAN"])
		assert.True(t, flat["Fecha"])
		assert.True(t, flat["Saldo"])
		assert.True(t, flat["TRANSFERENCIA RECIBIDA"])
		assert.True(t, flat["250.50"], "amounts are numeric cells with a currency format")
		assert.True(t, flat["1,250.50"])
		assert.True(t, flat["-75.25"])
		assert.True(t, flat["Saldo anterior"])
		assert.True(t, flat["1,000.00"])
		assert.True(t, flat["Saldo final"])
		assert.True(t, flat["1,175.25"])
	})

	t.Run("amount cells hold numbers, not text", func(t *testing.T) {
		data, err := exporter.Export(sampleResult(), prof)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)

		headerRow := 0
		for i, row := range rows {
			if len(row) > 0 && row[0] == "Fecha" {
				headerRow = i + 1
				break
			}
		}
		require.NotZero(t, headerRow, "header row not found")

		cell, err := excelize.CoordinatesToCellName(3, headerRow+1)
		require.NoError(t, err)
		cellType, err := f.GetCellType(sheetName, cell)
		require.NoError(t, err)
		assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
		assert.NotEqual(t, excelize.CellTypeInlineString, cellType)

		raw, err := f.GetCellValue(sheetName, cell, excelize.Options{RawCellValue: true})
		require.NoError(t, err)
		assert.Equal(t, "250.50", raw)
	})

	t.Run("identical input yields identical bytes", func(t *testing.T) {
		a, err := exporter.Export(sampleResult(), prof)
		require.NoError(t, err)
		b, err := exporter.Export(sampleResult(), prof)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("no balance column when the bank prints none", func(t *testing.T) {
		res := sampleResult()
		res.BankID = "macro"
		for i := range res.Transactions {
			res.Transactions[i].BalanceAfter = nil
		}

		data, err := exporter.Export(res, profileByID(t, "macro"))
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		for _, row := range rows {
			for _, cell := range row {
				assert.NotEqual(t, "Saldo", cell)
			}
		}
	})
}

func TestCSVExport(t *testing.T) {
	exporter := NewCSV()
	prof := profileByID(t, "bbva-frances")

	data, err := exporter.Export(sampleResult(), prof)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "fecha,descripcion,importe,saldo", lines[0])
	assert.Equal(t, "01/03/2024,TRANSFERENCIA RECIBIDA,"+`"250,50","1.250,50"`, lines[1])
	assert.Contains(t, lines[2], "-75,25")
}

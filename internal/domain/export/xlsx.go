package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

const sheetName = "Movimientos"

// Fixed doc properties keep the workbook byte-identical across runs for the
// same input; excelize would otherwise stamp the current time.
const docTimestamp = "2000-01-01T00:00:00Z"

// XLSX renders a styled Excel workbook: a metadata block, a bold filled
// header row, one row per movement, and a closing balance summary row.
type XLSX struct{}

var _ Exporter = (*XLSX)(nil)

// NewXLSX creates the xlsx exporter.
func NewXLSX() *XLSX {
	return &XLSX{}
}

// Extension implements Exporter.
func (x *XLSX) Extension() string { return "xlsx" }

// ContentType implements Exporter.
func (x *XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export implements Exporter. Transactions are written in statement order.
func (x *XLSX) Export(res *statement.Result, prof *profile.BankProfile) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        "conversor-bancario",
		Created:        docTimestamp,
		Modified:       docTimestamp,
		LastModifiedBy: "conversor-bancario",
	}); err != nil {
		return nil, fmt.Errorf("failed to set doc properties: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	// Amounts go in as numbers so the sheet stays sortable and summable;
	// the number format handles the locale rendering.
	amountFormat := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		CustomNumFmt: &amountFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label style: %w", err)
	}

	row := 1
	writeMeta := func(label, value string) error {
		if value == "" {
			return nil
		}
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(sheetName, labelCell, label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, valueCell, value); err != nil {
			return err
		}
		row++
		return nil
	}

	metaRows := []struct{ label, value string }{
		{"Banco", prof.DisplayName},
		{"Titular", res.AccountHolder},
		{"Periodo", res.Period},
		{"Moneda", res.Currency},
	}
	for _, m := range metaRows {
		if err := writeMeta(m.label, m.value); err != nil {
			return nil, fmt.Errorf("failed to write metadata: %w", err)
		}
	}
	if res.OpeningBalance != nil {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(sheetName, labelCell, "Saldo anterior"); err != nil {
			return nil, fmt.Errorf("failed to write opening balance: %w", err)
		}
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle); err != nil {
			return nil, fmt.Errorf("failed to style opening balance: %w", err)
		}
		if err := x.writeAmount(f, valueCell, *res.OpeningBalance, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to write opening balance: %w", err)
		}
		row++
	}
	row++ // blank separator

	headers := []string{"Fecha", "Descripcion", "Importe"}
	if prof.HasBalanceColumn {
		headers = append(headers, "Saldo")
	}
	headerRow := row
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err := f.SetCellStyle(sheetName, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	row++

	for _, tx := range res.Transactions {
		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		descCell, _ := excelize.CoordinatesToCellName(2, row)
		amountCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellValue(sheetName, dateCell, tx.Date.Format("02/01/2006")); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		if err := f.SetCellValue(sheetName, descCell, tx.Description); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		if err := x.writeAmount(f, amountCell, tx.Amount, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
		if prof.HasBalanceColumn && tx.BalanceAfter != nil {
			balanceCell, _ := excelize.CoordinatesToCellName(4, row)
			if err := x.writeAmount(f, balanceCell, *tx.BalanceAfter, amountStyle); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
		row++
	}

	if res.ClosingBalance != nil {
		labelCell, _ := excelize.CoordinatesToCellName(2, row)
		valueCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellValue(sheetName, labelCell, "Saldo final"); err != nil {
			return nil, fmt.Errorf("failed to write closing balance: %w", err)
		}
		if err := f.SetCellStyle(sheetName, labelCell, labelCell, labelStyle); err != nil {
			return nil, fmt.Errorf("failed to style closing balance: %w", err)
		}
		if err := x.writeAmount(f, valueCell, *res.ClosingBalance, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to write closing balance: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 14); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 48); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "C", "D", 16); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeAmount stores a minor-units amount as a numeric cell with two decimal
// places. Minor units always fit a float64 exactly at this precision.
func (x *XLSX) writeAmount(f *excelize.File, cell string, minor int64, style int) error {
	value := decimal.New(minor, -2).InexactFloat64()
	if err := f.SetCellFloat(sheetName, cell, value, 2, 64); err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

package export

import (
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
	"github.com/avalosjm/conversor-bancario/pkg/money"
)

// csvRow is the flat record gocsv marshals. The saldo column is always
// present and left empty for banks that print no running balance, so the
// column set is stable across banks.
type csvRow struct {
	Date        string `csv:"fecha"`
	Description string `csv:"descripcion"`
	Amount      string `csv:"importe"`
	Balance     string `csv:"saldo"`
}

// CSV renders the plain-text variant of the export.
type CSV struct{}

var _ Exporter = (*CSV)(nil)

// NewCSV creates the csv exporter.
func NewCSV() *CSV {
	return &CSV{}
}

// Extension implements Exporter.
func (c *CSV) Extension() string { return "csv" }

// ContentType implements Exporter.
func (c *CSV) ContentType() string { return "text/csv; charset=utf-8" }

// Export implements Exporter.
func (c *CSV) Export(res *statement.Result, prof *profile.BankProfile) ([]byte, error) {
	rows := make([]csvRow, 0, len(res.Transactions))
	for _, tx := range res.Transactions {
		row := csvRow{
			Date:        tx.Date.Format("02/01/2006"),
			Description: tx.Description,
			Amount:      money.FormatMinorUnits(tx.Amount, prof.Numbers.DecimalSep, prof.Numbers.ThousandsSep),
		}
		if tx.BalanceAfter != nil {
			row.Balance = money.FormatMinorUnits(*tx.BalanceAfter, prof.Numbers.DecimalSep, prof.Numbers.ThousandsSep)
		}
		rows = append(rows, row)
	}

	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize csv: %w", err)
	}
	return data, nil
}

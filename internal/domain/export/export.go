// Package export renders a reconciled statement as a downloadable file.
// Amounts arrive as minor-unit integers and are rendered in the bank's own
// number locale, so what the user downloads reads like the statement did.
package export

import (
	"fmt"

	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
)

// Exporter renders one statement result into file bytes.
type Exporter interface {
	Export(res *statement.Result, prof *profile.BankProfile) ([]byte, error)
	Extension() string
	ContentType() string
}

// Filename is the download name clients see: "<bankId>_procesado.<ext>".
func Filename(bankID, ext string) string {
	return fmt.Sprintf("%s_procesado.%s", bankID, ext)
}

package convert

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalosjm/conversor-bancario/internal/domain/extract"
	"github.com/avalosjm/conversor-bancario/internal/domain/layout"
	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/reconcile"
	"github.com/avalosjm/conversor-bancario/pkg/metrics"
)

// fakeExtractor returns canned pages keyed by the upload's content, so tests
// run the real pipeline without real PDFs.
type fakeExtractor struct {
	pages map[string][]extract.Page
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, pdf []byte) ([]extract.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	pages, ok := f.pages[string(pdf)]
	if !ok {
		return nil, errors.New("unknown fixture")
	}
	return pages, nil
}

// bbvaStatement reproduces a minimal consistent statement: opening 1000.00,
// +250.50, -75.25, closing 1175.25.
const bbvaStatement = `BBVA Banco Frances
TITULAR: PEREZ JUAN
SALDO ANTERIOR 1.000,00
FECHA CONCEPTO IMPORTE SALDO
01/03/24 TRANSFERENCIA RECIBIDA 250,50 1.250,50
05/03/24 COMPRA SUPERMERCADO 75,25- 1.175,25
SALDO FINAL 1.175,25
`

func newTestService(t *testing.T, ex extract.TextExtractor) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
	return NewService(
		profile.NewRegistry(profile.Defaults()),
		ex,
		layout.NewParser(50000),
		reconcile.New(reconcile.DefaultPolicy()),
		metrics.NewNop(),
		logger,
		5*time.Second,
	)
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	ex := &fakeExtractor{pages: map[string][]extract.Page{
		"bbva.pdf":  {{Number: 1, Text: bbvaStatement}},
		"other.pdf": {{Number: 1, Text: "FACTURA ELECTRONICA\nTotal: 100,00\n"}},
	}}
	svc := newTestService(t, ex)

	t.Run("consistent statement converts without warnings", func(t *testing.T) {
		payload, err := svc.Convert(ctx, "bbva-frances", []byte("bbva.pdf"), "")
		require.NoError(t, err)

		assert.Equal(t, "bbva-frances_procesado.xlsx", payload.Filename)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload.ContentType)
		assert.NotEmpty(t, payload.Data)
		assert.Empty(t, payload.Warnings)
	})

	t.Run("identical uploads yield identical bytes", func(t *testing.T) {
		a, err := svc.Convert(ctx, "bbva-frances", []byte("bbva.pdf"), "")
		require.NoError(t, err)
		b, err := svc.Convert(ctx, "bbva-frances", []byte("bbva.pdf"), "")
		require.NoError(t, err)
		assert.Equal(t, a.Data, b.Data)
	})

	t.Run("csv format", func(t *testing.T) {
		payload, err := svc.Convert(ctx, "bbva-frances", []byte("bbva.pdf"), FormatCSV)
		require.NoError(t, err)

		assert.Equal(t, "bbva-frances_procesado.csv", payload.Filename)
		assert.Contains(t, string(payload.Data), "TRANSFERENCIA RECIBIDA")
		assert.Contains(t, string(payload.Data), `"-75,25"`)
	})

	t.Run("unknown bank", func(t *testing.T) {
		_, err := svc.Convert(ctx, "banco-inexistente", []byte("bbva.pdf"), "")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindUnknownBank, convErr.Kind)
		assert.Equal(t, "Banco no soportado", convErr.Detail)
	})

	t.Run("wrong bank selection is a layout mismatch", func(t *testing.T) {
		_, err := svc.Convert(ctx, "bbva-frances", []byte("other.pdf"), "")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindLayoutMismatch, convErr.Kind)
	})

	t.Run("scanned pdf without text layer", func(t *testing.T) {
		svcNoText := newTestService(t, &fakeExtractor{err: extract.ErrNoTextContent})

		_, err := svcNoText.Convert(ctx, "bbva-frances", []byte("scan.pdf"), "")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindUnprocessableDocument, convErr.Kind)
		assert.Equal(t, "El PDF no contiene texto extraible", convErr.Detail)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		svcBroken := newTestService(t, &fakeExtractor{err: errors.New("xref table broken")})

		_, err := svcBroken.Convert(ctx, "bbva-frances", []byte("bad.pdf"), "")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindUnprocessableDocument, convErr.Kind)
	})

	t.Run("reconciliation failure on totals-only statement", func(t *testing.T) {
		// Macro prints no running balance, so only the totals equation is
		// checkable, and here it does not hold.
		broken := `Banco Macro
SALDO ANTERIOR: 1.000,00
FECHA DESCRIPCIÓN DÉBITO CRÉDITO
01/03/2024 PAGO SERVICIO 100,00 0,00
SALDO FINAL: 5.000,00
`
		svcMacro := newTestService(t, &fakeExtractor{pages: map[string][]extract.Page{
			"macro.pdf": {{Number: 1, Text: broken}},
		}})

		_, err := svcMacro.Convert(ctx, "macro", []byte("macro.pdf"), "")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindReconciliationFailed, convErr.Kind)
	})

	t.Run("warnings surface in the payload", func(t *testing.T) {
		noisy := `FECHA CONCEPTO IMPORTE SALDO
01/03/24 COMPRA 10,00- 990,00
*** AJUSTE MANUAL ***
SALDO FINAL 990,00
`
		svcNoisy := newTestService(t, &fakeExtractor{pages: map[string][]extract.Page{
			"noisy.pdf": {{Number: 1, Text: noisy}},
		}})

		payload, err := svcNoisy.Convert(ctx, "bbva-frances", []byte("noisy.pdf"), "")
		require.NoError(t, err)
		require.NotEmpty(t, payload.Warnings)
		assert.Contains(t, payload.Warnings[0], "AJUSTE MANUAL")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := svc.Convert(ctx, "bbva-frances", []byte("bbva.pdf"), "pdf")

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, KindInternal, convErr.Kind)
	})
}

func TestBanks(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{})

	banks := svc.Banks()
	require.Len(t, banks, 13)
	assert.Equal(t, "bbva-frances", banks[0].ID)
	assert.Equal(t, "BBVA Frances", banks[0].Name)
}

func TestSupportsFormat(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{})

	assert.True(t, svc.SupportsFormat(FormatXLSX))
	assert.True(t, svc.SupportsFormat(FormatCSV))
	assert.False(t, svc.SupportsFormat("pdf"))
}

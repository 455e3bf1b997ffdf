// Package convert orchestrates the conversion pipeline: bank lookup, text
// extraction, layout parsing, normalization, reconciliation and export. It is
// the only package the transport layer talks to.
package convert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/avalosjm/conversor-bancario/internal/domain/export"
	"github.com/avalosjm/conversor-bancario/internal/domain/extract"
	"github.com/avalosjm/conversor-bancario/internal/domain/layout"
	"github.com/avalosjm/conversor-bancario/internal/domain/normalize"
	"github.com/avalosjm/conversor-bancario/internal/domain/profile"
	"github.com/avalosjm/conversor-bancario/internal/domain/reconcile"
	"github.com/avalosjm/conversor-bancario/internal/domain/statement"
	"github.com/avalosjm/conversor-bancario/pkg/metrics"
)

// FormatXLSX and FormatCSV are the accepted export formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// FilePayload is a finished conversion ready to be written to the wire.
type FilePayload struct {
	Filename    string
	ContentType string
	Data        []byte
	// Warnings carries the non-fatal findings, for logging and response
	// headers. The file itself is already rendered.
	Warnings []string
}

// Service runs conversions. Safe for concurrent use: every collaborator is
// read-only after construction.
type Service struct {
	registry   *profile.Registry
	extractor  extract.TextExtractor
	parser     *layout.Parser
	normalizer *normalize.Normalizer
	checker    *reconcile.Checker
	exporters  map[string]export.Exporter
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
	timeout    time.Duration
}

// NewService wires the pipeline.
func NewService(
	registry *profile.Registry,
	extractor extract.TextExtractor,
	parser *layout.Parser,
	checker *reconcile.Checker,
	m *metrics.Metrics,
	logger *slog.Logger,
	timeout time.Duration,
) *Service {
	return &Service{
		registry:   registry,
		extractor:  extractor,
		parser:     parser,
		normalizer: normalize.New(),
		checker:    checker,
		exporters: map[string]export.Exporter{
			FormatXLSX: export.NewXLSX(),
			FormatCSV:  export.NewCSV(),
		},
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("conversor/convert"),
		timeout: timeout,
	}
}

// Banks lists the supported banks in presentation order.
func (s *Service) Banks() []profile.Summary {
	return s.registry.List()
}

// SupportsFormat reports whether format names a known exporter.
func (s *Service) SupportsFormat(format string) bool {
	_, ok := s.exporters[format]
	return ok
}

// Convert runs the full pipeline for one uploaded document. format must be
// one of the Format constants; the zero value defaults to xlsx. All failures
// come back as *ConversionError.
func (s *Service) Convert(ctx context.Context, bankID string, pdf []byte, format string) (*FilePayload, error) {
	if format == "" {
		format = FormatXLSX
	}
	start := time.Now()
	conversionID := uuid.NewString()
	log := s.logger.With(
		slog.String("conversion_id", conversionID),
		slog.String("bank", bankID),
		slog.String("format", format),
	)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx, span := s.tracer.Start(ctx, "convert")
	defer span.End()

	payload, convErr := s.run(ctx, log, bankID, pdf, format)

	elapsed := time.Since(start)
	s.metrics.ConversionDuration.WithLabelValues(bankID).Observe(elapsed.Seconds())
	if convErr != nil {
		s.metrics.ConversionsTotal.WithLabelValues(bankID, convErr.Kind.String()).Inc()
		log.Warn("conversion failed",
			slog.String("outcome", convErr.Kind.String()),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", convErr.Err),
		)
		return nil, convErr
	}

	s.metrics.ConversionsTotal.WithLabelValues(bankID, "success").Inc()
	s.metrics.WarningsTotal.WithLabelValues(bankID).Add(float64(len(payload.Warnings)))
	log.Info("conversion finished",
		slog.Duration("elapsed", elapsed),
		slog.Int("warnings", len(payload.Warnings)),
		slog.Int("bytes", len(payload.Data)),
	)
	return payload, nil
}

func (s *Service) run(ctx context.Context, log *slog.Logger, bankID string, pdf []byte, format string) (*FilePayload, *ConversionError) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, failure(KindInternal, "Formato de salida no soportado", nil)
	}

	prof, err := s.registry.Get(bankID)
	if err != nil {
		return nil, failure(KindUnknownBank, "Banco no soportado", err)
	}

	pages, err := s.extractText(ctx, pdf)
	if err != nil {
		if errors.Is(err, extract.ErrNoTextContent) {
			return nil, failure(KindUnprocessableDocument, "El PDF no contiene texto extraible", err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, failure(KindInternal, "Error interno al procesar el archivo", ctxErr)
		}
		return nil, failure(KindUnprocessableDocument, "No se pudo procesar el archivo PDF", err)
	}

	parsed, err := s.parseLayout(ctx, prof, pages)
	if err != nil {
		switch {
		case errors.Is(err, layout.ErrLayoutMismatch):
			return nil, failure(KindLayoutMismatch, "El documento no coincide con el formato del banco seleccionado", err)
		case errors.Is(err, layout.ErrNoTransactions):
			return nil, failure(KindNoTransactions, "No se reconocieron movimientos en el documento", err)
		case errors.Is(err, layout.ErrTooManyLines):
			return nil, failure(KindUnprocessableDocument, "El documento es demasiado extenso para procesarse", err)
		default:
			return nil, failure(KindInternal, "Error interno al procesar el archivo", err)
		}
	}

	res, err := s.normalizeResult(ctx, prof, parsed)
	if err != nil {
		if errors.Is(err, normalize.ErrFirstRowInvalid) {
			return nil, failure(KindLayoutMismatch, "El documento no coincide con el formato del banco seleccionado", err)
		}
		return nil, failure(KindInternal, "Error interno al procesar el archivo", err)
	}

	verdict, err := s.reconcileResult(ctx, res)
	if err != nil {
		return nil, failure(KindReconciliationFailed, "Los saldos del extracto no concilian con los movimientos", err)
	}

	warnings := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		warnings = append(warnings, w.Message)
		log.Debug("conversion warning",
			slog.String("stage", w.Stage),
			slog.String("message", w.Message),
			slog.Int("page", w.Source.Page),
			slog.Int("line", w.Source.Line),
		)
	}
	log.Debug("statement reconciled",
		slog.String("verdict", verdict.String()),
		slog.Int("transactions", len(res.Transactions)),
	)

	data, convErr := s.exportResult(ctx, exporter, res, prof)
	if convErr != nil {
		return nil, convErr
	}

	return &FilePayload{
		Filename:    export.Filename(prof.ID, exporter.Extension()),
		ContentType: exporter.ContentType(),
		Data:        data,
		Warnings:    warnings,
	}, nil
}

func (s *Service) extractText(ctx context.Context, pdf []byte) ([]extract.Page, error) {
	ctx, span := s.tracer.Start(ctx, "extract")
	defer span.End()
	return s.extractor.Extract(ctx, pdf)
}

func (s *Service) parseLayout(ctx context.Context, prof *profile.BankProfile, pages []extract.Page) (*layout.Result, error) {
	ctx, span := s.tracer.Start(ctx, "layout")
	defer span.End()
	return s.parser.Parse(ctx, prof, extract.Lines(pages))
}

func (s *Service) normalizeResult(ctx context.Context, prof *profile.BankProfile, parsed *layout.Result) (*statement.Result, error) {
	_, span := s.tracer.Start(ctx, "normalize")
	defer span.End()
	return s.normalizer.Normalize(prof, parsed)
}

func (s *Service) reconcileResult(ctx context.Context, res *statement.Result) (reconcile.Verdict, error) {
	_, span := s.tracer.Start(ctx, "reconcile")
	defer span.End()
	return s.checker.Check(res)
}

func (s *Service) exportResult(ctx context.Context, exporter export.Exporter, res *statement.Result, prof *profile.BankProfile) ([]byte, *ConversionError) {
	_, span := s.tracer.Start(ctx, "export")
	defer span.End()
	data, err := exporter.Export(res, prof)
	if err != nil {
		return nil, failure(KindInternal, "Error interno al generar el archivo", err)
	}
	return data, nil
}

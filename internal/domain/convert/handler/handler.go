// Package handler exposes the conversion service over HTTP. The surface is
// deliberately small: list banks, process one upload, health. Errors go out
// as JSON bodies {"detail": "..."} with the status chosen from the failure
// kind.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/avalosjm/conversor-bancario/internal/domain/convert"
)

// Options tunes the HTTP layer.
type Options struct {
	MaxUploadBytes     int64
	AllowedOrigins     []string
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Handler serves the conversion API.
type Handler struct {
	svc    *convert.Service
	logger *slog.Logger
	opts   Options
}

// New creates the handler.
func New(svc *convert.Service, logger *slog.Logger, opts Options) *Handler {
	return &Handler{svc: svc, logger: logger, opts: opts}
}

// Routes builds the full middleware-wrapped HTTP handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /banks", h.listBanks)
	mux.HandleFunc("POST /process", h.process)
	mux.HandleFunc("GET /healthz", h.healthz)

	var handler http.Handler = mux
	if h.opts.RateLimitPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(h.opts.RateLimitPerSecond), h.opts.RateLimitBurst)
		handler = rateLimit(limiter, handler)
	}
	c := cors.New(cors.Options{
		AllowedOrigins: h.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(handler)
}

func rateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeDetail(w, http.StatusTooManyRequests, "Demasiadas solicitudes, intente nuevamente")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.svc.Banks()); err != nil {
		h.logger.Error("failed to encode bank list", slog.Any("error", err))
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank")
	if bankID == "" {
		writeDetail(w, http.StatusBadRequest, "Falta el parametro bank")
		return
	}
	format := r.URL.Query().Get("format")
	if format != "" && !h.svc.SupportsFormat(format) {
		writeDetail(w, http.StatusBadRequest, "Formato de salida no soportado")
		return
	}

	if h.opts.MaxUploadBytes > 0 {
		if r.ContentLength > h.opts.MaxUploadBytes {
			writeDetail(w, http.StatusRequestEntityTooLarge, "El archivo excede el tamano maximo permitido")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "El archivo excede el tamano maximo permitido")
			return
		}
		writeDetail(w, http.StatusBadRequest, "Falta el archivo a procesar")
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeDetail(w, http.StatusRequestEntityTooLarge, "El archivo excede el tamano maximo permitido")
			return
		}
		h.logger.Error("failed to read upload", slog.Any("error", err))
		writeDetail(w, http.StatusInternalServerError, "Error interno al procesar el archivo")
		return
	}

	payload, err := h.svc.Convert(r.Context(), bankID, pdf, format)
	if err != nil {
		status, detail := statusFor(err)
		writeDetail(w, status, detail)
		return
	}

	w.Header().Set("Content-Type", payload.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	w.Header().Set("X-Conversion-Warnings", fmt.Sprintf("%d", len(payload.Warnings)))
	if _, err := w.Write(payload.Data); err != nil {
		h.logger.Error("failed to write payload", slog.Any("error", err))
	}
}

// statusFor maps a conversion failure to an HTTP status and wire detail.
// Unexpected errors never leak internals to the client.
func statusFor(err error) (int, string) {
	var convErr *convert.ConversionError
	if !errors.As(err, &convErr) {
		return http.StatusInternalServerError, "Error interno al procesar el archivo"
	}
	switch convErr.Kind {
	case convert.KindUnknownBank:
		return http.StatusBadRequest, convErr.Detail
	case convert.KindUnprocessableDocument,
		convert.KindLayoutMismatch,
		convert.KindNoTransactions,
		convert.KindReconciliationFailed:
		return http.StatusUnprocessableEntity, convErr.Detail
	default:
		return http.StatusInternalServerError, convErr.Detail
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

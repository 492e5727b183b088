package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
	"github.com/huyhoang1996vn/zinc-assignment/internal/importer"
	applog "github.com/huyhoang1996vn/zinc-assignment/internal/log"
)

// handleImportSales accepts a multipart upload and runs the import pipeline.
// 201 with the table total on success; 400 for unrecognized extensions;
// parse and database failures stay 500 with the error message in detail.
func (s *Server) handleImportSales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "Invalid multipart upload",
			applog.NewFields().WithOperation(applog.OpImport).WithError(err).ToSlice()...)
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorContext(ctx, "Failed reading upload",
			applog.NewFields().WithOperation(applog.OpImport).WithError(err).ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: err.Error()})
		return
	}

	total, err := s.importer.ImportFile(ctx, header.Filename, data)
	if err != nil {
		if errors.Is(err, importer.ErrUnsupportedFormat) {
			writeJSON(w, http.StatusBadRequest, errorMessage{Error: "Unsupported file format"})
			return
		}
		fields := applog.NewFields().
			WithOperation(applog.OpImport).
			WithError(err)
		fields[applog.FieldFilename] = header.Filename
		logger.ErrorContext(ctx, "Import sales failed", fields.ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: err.Error()})
		return
	}

	logger.InfoContext(ctx, "Sales imported",
		applog.FieldFilename, header.Filename,
		"imported_rows", total)
	writeJSON(w, http.StatusCreated, map[string]int64{"imported_rows": total})
}

// handleRevenue returns the range summary as a single-element list.
func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)

	dr, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: err.Error()})
		return
	}

	summary, err := s.metrics.RevenueSummary(ctx, dr)
	if err != nil {
		logger.ErrorContext(ctx, "Revenue summary failed",
			applog.NewFields().WithOperation(applog.OpRevenue).WithError(err).ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, []core.RevenueSummary{summary})
}

// handleRevenueDaily returns per-day totals in ascending date order.
func (s *Server) handleRevenueDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)

	dr, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDetail{Detail: err.Error()})
		return
	}

	daily, err := s.metrics.RevenueByDay(ctx, dr)
	if err != nil {
		logger.ErrorContext(ctx, "Daily revenue failed",
			applog.NewFields().WithOperation(applog.OpRevenueDaily).WithError(err).ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, errorDetail{Detail: err.Error()})
		return
	}
	if daily == nil {
		daily = []core.DailyRevenue{}
	}

	writeJSON(w, http.StatusOK, daily)
}

// handleHealth probes the data store and never mutates state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx := r.Context()
	if err := s.health.Ping(ctx); err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Health check failed",
			applog.NewFields().WithOperation(applog.OpHealth).WithError(err).ToSlice()...)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":   "error",
			"database": "unreachable",
			"error":    err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "reachable",
	})
}

// parseDateRange reads start_date/end_date query params in YYYY-MM-DD form
// and rejects inverted ranges before any query runs.
func parseDateRange(r *http.Request) (core.DateRange, error) {
	q := r.URL.Query()

	startStr := strings.TrimSpace(q.Get("start_date"))
	endStr := strings.TrimSpace(q.Get("end_date"))
	if startStr == "" || endStr == "" {
		return core.DateRange{}, errors.New("start_date and end_date are required")
	}

	start, err := core.ParseISODate(startStr)
	if err != nil {
		return core.DateRange{}, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", startStr)
	}
	end, err := core.ParseISODate(endStr)
	if err != nil {
		return core.DateRange{}, fmt.Errorf("invalid end_date %q: expected YYYY-MM-DD", endStr)
	}

	dr := core.DateRange{Start: start, End: end}
	if err := dr.Validate(); err != nil {
		return core.DateRange{}, err
	}
	return dr, nil
}

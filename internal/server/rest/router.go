// Package rest exposes the exports as HTTP downloads.
//
//	GET  /api/ping
//	GET  /api/export/all?format=json|markdown
//	GET  /api/export/backup/{year}/{month}
//	GET  /api/export/report/{year}
//	POST /api/export/backup/{year}/{month}/s3
//	POST /api/import
//
// Every route but ping requires "Authorization: Bearer <token>".
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/couplespace/internal/common"
	"github.com/dmitrijs2005/couplespace/internal/delivery"
	"github.com/dmitrijs2005/couplespace/internal/export"
	"github.com/dmitrijs2005/couplespace/internal/logging"
	"github.com/dmitrijs2005/couplespace/internal/server/auth"
	"github.com/gorilla/mux"
)

// Exporter builds artifacts for an owner; *export.Exporter implements it.
type Exporter interface {
	BuildFlat(ctx context.Context, owner string, format export.Format) (export.Artifact, error)
	BuildMonthlyBackup(ctx context.Context, owner string, year, month int) (export.Artifact, error)
	BuildAnnualReport(ctx context.Context, owner string, year int) (export.Artifact, error)
}

// Uploader parks an artifact in object storage; *delivery.S3Deliverer
// implements it.
type Uploader interface {
	UploadFor(ctx context.Context, owner string, a export.Artifact) (delivery.Stored, error)
}

// Importer restores a flat JSON export for an owner.
type Importer interface {
	Import(ctx context.Context, owner string, doc export.FlatDocument) (int, error)
}

// maxImportBytes caps the request body of /api/import.
const maxImportBytes = 64 << 20

type Handler struct {
	exporter  Exporter
	uploader  Uploader
	importer  Importer
	logger    logging.Logger
	jwtSecret []byte
}

// NewHandler wires the routes. uploader may be nil, in which case the S3
// route answers 501.
func NewHandler(e Exporter, u Uploader, l logging.Logger, secretKey string) *Handler {
	return &Handler{
		exporter:  e,
		uploader:  u,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
	}
}

// WithImporter enables POST /api/import.
func (h *Handler) WithImporter(i Importer) *Handler {
	h.importer = i
	return h
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)
	r.HandleFunc("/api/ping", h.ping).Methods(http.MethodGet)

	api := r.PathPrefix("/api/export").Subrouter()
	api.Use(h.requireOwner)
	api.HandleFunc("/all", h.exportAll).Methods(http.MethodGet)
	api.HandleFunc("/backup/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.exportMonth).Methods(http.MethodGet)
	api.HandleFunc("/backup/{year:[0-9]{4}}/{month:[0-9]{1,2}}/s3", h.uploadMonth).Methods(http.MethodPost)
	api.HandleFunc("/report/{year:[0-9]{4}}", h.exportReport).Methods(http.MethodGet)

	r.Handle("/api/import", h.requireOwner(http.HandlerFunc(h.importRecords))).Methods(http.MethodPost)
	return r
}

func (h *Handler) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		owner, err := auth.OwnerFromToken(token, h.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), owner)))
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFromContext(r.Context())

	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.exporter.BuildFlat(r.Context(), owner, format)
	h.send(w, r, a, err)
}

func (h *Handler) exportMonth(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFromContext(r.Context())
	year, month := pathInt(r, "year"), pathInt(r, "month")

	a, err := h.exporter.BuildMonthlyBackup(r.Context(), owner, year, month)
	h.send(w, r, a, err)
}

func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	owner, _ := auth.OwnerFromContext(r.Context())

	a, err := h.exporter.BuildAnnualReport(r.Context(), owner, pathInt(r, "year"))
	h.send(w, r, a, err)
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
	URL      string `json:"url"`
}

func (h *Handler) uploadMonth(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusNotImplemented, "object storage is not configured")
		return
	}
	owner, _ := auth.OwnerFromContext(r.Context())

	a, err := h.exporter.BuildMonthlyBackup(r.Context(), owner, pathInt(r, "year"), pathInt(r, "month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	stored, err := h.uploader.UploadFor(r.Context(), owner, a)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{Filename: a.Filename, Key: stored.Key, URL: stored.URL})
}

func (h *Handler) importRecords(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeError(w, http.StatusNotImplemented, "import is not enabled")
		return
	}
	owner, _ := auth.OwnerFromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	doc, err := export.ParseFlat(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := h.importer.Import(r.Context(), owner, doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request, a export.Artifact, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := delivery.NewHTTPDeliverer(w).Deliver(r.Context(), a, a.Filename); err != nil {
		// headers are already out, nothing left to tell the client
		h.logger.Warn(r.Context(), "download interrupted", "file", a.Filename, "error", err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrEmptyBackupWindow):
		writeError(w, http.StatusNotFound, common.ErrEmptyBackupWindow.Error())
	case errors.Is(err, common.ErrUnsupportedFormat), errors.Is(err, common.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrDeliveryFailure):
		h.logger.Error(r.Context(), "upload failed", "error", err)
		writeError(w, http.StatusBadGateway, "upload failed")
	default:
		h.logger.Error(r.Context(), "export failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}

// pathInt reads a route variable already constrained to digits by the route.
func pathInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(mux.Vars(r)[name])
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

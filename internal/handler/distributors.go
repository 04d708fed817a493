package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/export"
	"github.com/wakala-ledger/api/internal/ledger"
	"github.com/wakala-ledger/api/internal/store"
)

// DistributorStore defines the database methods needed by distributor
// handlers. Satisfied by *store.Store.
type DistributorStore interface {
	CreateDistributor(ctx context.Context, d store.Distributor) (store.Distributor, error)
	ListDistributors(ctx context.Context) ([]store.Distributor, error)
	GetDistributor(ctx context.Context, distributorID string) (store.Distributor, error)
	ListDistributorOperations(ctx context.Context, distributorID, date string) ([]ledger.Operation, error)
}

// DistributorHandler handles distributor and settlement endpoints.
// Statements are computed fresh on every request from the operations
// recorded for the distributor on the given day; nothing is persisted.
type DistributorHandler struct {
	store DistributorStore
}

// NewDistributorHandler creates a new DistributorHandler.
func NewDistributorHandler(store DistributorStore) *DistributorHandler {
	return &DistributorHandler{store: store}
}

// RegisterRoutes registers distributor endpoints on the given Chi router.
// Mount under /distributors.
func (h *DistributorHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListDistributors)
	r.Get("/{id}/operations", h.ListOperations)
	r.Post("/{id}/statement", h.CreateStatement)
}

// RegisterAdminRoutes registers distributor creation and statement export.
// Split out so the router can wrap them in a stricter role check.
func (h *DistributorHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateDistributor)
	r.Post("/{id}/statement/export", h.ExportStatement)
}

// --- Request types ---

type statementRequest struct {
	Date         string          `json:"history"`
	CurrentBoxes int64           `json:"currentBoxes"`
	Discount     decimal.Decimal `json:"discount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
}

type createDistributorRequest struct {
	DistributorID   string `json:"distributorId"`
	DistributorName string `json:"distributorName"`
}

// --- Handlers ---

// CreateDistributor registers a new reseller.
func (h *DistributorHandler) CreateDistributor(w http.ResponseWriter, r *http.Request) {
	var req createDistributorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.DistributorID == "" || req.DistributorName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "distributorId and distributorName are required"})
		return
	}

	d, err := h.store.CreateDistributor(r.Context(), store.Distributor{
		DistributorID:   req.DistributorID,
		DistributorName: req.DistributorName,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "distributor already exists"})
			return
		}
		log.Printf("ERROR: create distributor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

// ListDistributors returns all distributors.
func (h *DistributorHandler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	distributors, err := h.store.ListDistributors(r.Context())
	if err != nil {
		log.Printf("ERROR: list distributors: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, distributors)
}

// ListOperations returns all operations recorded against a distributor for
// one day, across every customer.
func (h *DistributorHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	distributorID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("history")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "history is required"})
		return
	}

	if _, err := h.store.GetDistributor(r.Context(), distributorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "distributor not found"})
			return
		}
		log.Printf("ERROR: get distributor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ops, err := h.store.ListDistributorOperations(r.Context(), distributorID, date)
	if err != nil {
		log.Printf("ERROR: list distributor operations: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

// CreateStatement computes the settlement for one distributor and day.
func (h *DistributorHandler) CreateStatement(w http.ResponseWriter, r *http.Request) {
	in, _, ok := h.buildStatementInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ledger.ComputeStatement(in))
}

// ExportStatement computes the settlement and streams it back as an XLSX
// workbook or a PDF, selected by the format query parameter.
func (h *DistributorHandler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = enum.ExportFormatXLSX
	}
	if format != enum.ExportFormatXLSX && format != enum.ExportFormatPDF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "format must be xlsx or pdf"})
		return
	}

	in, distributor, ok := h.buildStatementInput(w, r)
	if !ok {
		return
	}
	st := ledger.ComputeStatement(in)

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case enum.ExportFormatXLSX:
		data, err = export.BuildStatementXLSX(in, st, distributor.DistributorName)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case enum.ExportFormatPDF:
		data, err = export.BuildStatementPDF(in, st, distributor.DistributorName)
		contentType = "application/pdf"
	}
	if err != nil {
		log.Printf("ERROR: export statement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	filename := fmt.Sprintf("sales_payment_report_%s.%s", in.DistributorID, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// buildStatementInput decodes the request, resolves the distributor and
// loads the day's operations. On failure it writes the error response and
// returns ok=false.
func (h *DistributorHandler) buildStatementInput(w http.ResponseWriter, r *http.Request) (ledger.StatementInput, store.Distributor, bool) {
	distributorID := chi.URLParam(r, "id")

	var req statementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return ledger.StatementInput{}, store.Distributor{}, false
	}
	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "history is required"})
		return ledger.StatementInput{}, store.Distributor{}, false
	}

	distributor, err := h.store.GetDistributor(r.Context(), distributorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "distributor not found"})
			return ledger.StatementInput{}, store.Distributor{}, false
		}
		log.Printf("ERROR: get distributor: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return ledger.StatementInput{}, store.Distributor{}, false
	}

	ops, err := h.store.ListDistributorOperations(r.Context(), distributorID, req.Date)
	if err != nil {
		log.Printf("ERROR: list distributor operations: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return ledger.StatementInput{}, store.Distributor{}, false
	}

	return ledger.StatementInput{
		DistributorID: distributorID,
		Date:          req.Date,
		Operations:    ops,
		CurrentBoxes:  req.CurrentBoxes,
		Discount:      req.Discount,
		PaidAmount:    req.PaidAmount,
	}, distributor, true
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/ledger"
	"github.com/wakala-ledger/api/internal/service"
	"github.com/wakala-ledger/api/internal/store"
	"github.com/wakala-ledger/api/internal/ws"
)

// CustomerStore defines the database methods needed by customer handlers.
// Satisfied by *store.Store.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, arg store.CreateCustomerParams) (ledger.Customer, error)
	GetCustomer(ctx context.Context, customerID string) (ledger.Customer, error)
	ListCustomers(ctx context.Context) ([]ledger.Customer, error)
	ListOperations(ctx context.Context, customerID string) ([]ledger.Operation, error)
	GetRollup(ctx context.Context, customerID, date string) (ledger.Rollup, error)
	ListRollups(ctx context.Context, customerID string) ([]ledger.Rollup, error)
}

// LedgerServicer is the slice of the ledger service used by customer
// handlers. Satisfied by *service.LedgerService.
type LedgerServicer interface {
	AppendOperation(ctx context.Context, customerID string, op ledger.Operation) (ledger.Operation, error)
	RecomputeRollup(ctx context.Context, customerID, date string) (ledger.Rollup, error)
}

// CustomerHandler handles customer ledger endpoints. Reads go straight to
// the store; mutations go through the ledger service so that appends and
// rollup recomputes for one customer are serialized.
type CustomerHandler struct {
	store  CustomerStore
	ledger LedgerServicer
	hub    *ws.Hub
}

// NewCustomerHandler creates a new CustomerHandler. hub may be nil when
// live notifications are not wired (tests).
func NewCustomerHandler(store CustomerStore, ledgerSvc LedgerServicer, hub *ws.Hub) *CustomerHandler {
	return &CustomerHandler{store: store, ledger: ledgerSvc, hub: hub}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Mount under /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateCustomer)
	r.Get("/", h.ListCustomers)
	r.Get("/search", h.Search)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetCustomer)
		r.Post("/operations", h.AppendOperation)
		r.Put("/accumulate", h.Accumulate)
		r.Get("/accumulated", h.GetAccumulated)
		r.Post("/invoice", h.CreateInvoice)
	})
}

// --- Request / Response types ---

type createCustomerRequest struct {
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
}

type customerResponse struct {
	CustomerID   string             `json:"customerId"`
	CustomerName string             `json:"customerName"`
	Operations   []ledger.Operation `json:"operations,omitempty"`
	Accumulated  []rollupResponse   `json:"accumulatedData,omitempty"`
}

// rollupResponse renders decimal totals as strings so clients never see
// float artifacts.
type rollupResponse struct {
	Date          string `json:"date"`
	TotalBoxCount int64  `json:"totalBoxCount"`
	TotalWeight   string `json:"totalWeight"`
	TotalPrice    string `json:"totalPrice"`
}

func toRollupResponse(r ledger.Rollup) rollupResponse {
	return rollupResponse{
		Date:          r.Date,
		TotalBoxCount: r.TotalBoxCount,
		TotalWeight:   r.TotalWeight.String(),
		TotalPrice:    r.TotalPrice.String(),
	}
}

type appendOperationRequest struct {
	Date          string          `json:"history"`
	DistributorID string          `json:"distributorId"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	NumBoxes      int64           `json:"numBoxes"`
	BoxType       string          `json:"boxType"`
	Weight        decimal.Decimal `json:"weight"`
	NumUnits      int64           `json:"numUnits"`
	ItemType      string          `json:"itemType"`
}

// accumulateRequest carries the client's own running totals. They are
// advisory only; the rollup is always recomputed from stored operations.
type accumulateRequest struct {
	TotalBoxCount int64           `json:"totalBoxCount"`
	TotalWeight   decimal.Decimal `json:"totalWeight"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

type invoiceRequest struct {
	DriverTip decimal.Decimal `json:"driverTip"`
	Tobacco   decimal.Decimal `json:"tobacco"`
}

type invoiceResponse struct {
	CustomerID  string `json:"customerId"`
	Date        string `json:"history"`
	TotalPrice  string `json:"totalPrice"`
	Commission  string `json:"commission"`
	DriverTip   string `json:"driverTip"`
	Tobacco     string `json:"tobacco"`
	FinalAmount string `json:"finalAmount"`
}

// --- Handlers ---

// CreateCustomer registers a new customer account with an empty ledger.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.CustomerID == "" || req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customerId and customerName are required"})
		return
	}

	c, err := h.store.CreateCustomer(r.Context(), store.CreateCustomerParams{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "customer already exists"})
			return
		}
		log.Printf("ERROR: create customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, customerResponse{
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
	})
}

// ListCustomers returns all customers without their operations.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		log.Printf("ERROR: list customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, customerResponse{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Search filters customers by text, date range and category, then flattens
// every operation of each matching customer into report rows.
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := ledger.SearchQuery{
		SearchText: r.URL.Query().Get("searchText"),
		DateFrom:   r.URL.Query().Get("dateFrom"),
		DateTo:     r.URL.Query().Get("dateTo"),
		Category:   r.URL.Query().Get("itemType"),
	}

	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		log.Printf("ERROR: search customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rows, err := ledger.Search(customers, q)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no results found for the given criteria"})
			return
		}
		log.Printf("ERROR: search customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// GetCustomer returns one customer with its full operation history and all
// cached rollups.
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	c, err := h.store.GetCustomer(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ops, err := h.store.ListOperations(r.Context(), customerID)
	if err != nil {
		log.Printf("ERROR: list operations: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rollups, err := h.store.ListRollups(r.Context(), customerID)
	if err != nil {
		log.Printf("ERROR: list rollups: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := customerResponse{
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
		Operations:   ops,
	}
	for _, ru := range rollups {
		resp.Accumulated = append(resp.Accumulated, toRollupResponse(ru))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AppendOperation records a new sales operation for a customer.
func (h *CustomerHandler) AppendOperation(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")

	var req appendOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	op, err := h.ledger.AppendOperation(r.Context(), customerID, ledger.Operation{
		Date:          req.Date,
		DistributorID: req.DistributorID,
		Category:      req.Category,
		Price:         req.Price,
		NumBoxes:      req.NumBoxes,
		BoxType:       req.BoxType,
		Weight:        req.Weight,
		NumUnits:      req.NumUnits,
		ItemType:      req.ItemType,
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
		case errors.Is(err, service.ErrDateRequired), errors.Is(err, service.ErrInvalidBoxType):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: append operation: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.notify(customerID, enum.EventOperationCreated, op)
	writeJSON(w, http.StatusCreated, op)
}

// Accumulate recomputes and stores the rollup for one customer and date.
// The request body's totals are read and discarded; stored operations are
// the only source of truth.
func (h *CustomerHandler) Accumulate(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")

	if r.Body != nil {
		var req accumulateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	rollup, err := h.ledger.RecomputeRollup(r.Context(), customerID, date)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
		case errors.Is(err, service.ErrDateRequired):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			log.Printf("ERROR: accumulate: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toRollupResponse(rollup)
	h.notify(customerID, enum.EventRollupUpdated, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetAccumulated returns the cached rollup for one customer and date.
func (h *CustomerHandler) GetAccumulated(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	if _, err := h.store.GetCustomer(r.Context(), customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rollup, err := h.store.GetRollup(r.Context(), customerID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no accumulated data for the given date"})
			return
		}
		log.Printf("ERROR: get rollup: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toRollupResponse(rollup))
}

// CreateInvoice derives a customer invoice from the cached rollup for the
// given date. The 8% commission, driver tip and tobacco charge are deducted
// from the day's total price.
func (h *CustomerHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}

	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if _, err := h.store.GetCustomer(r.Context(), customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "customer not found"})
			return
		}
		log.Printf("ERROR: get customer: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	rollup, err := h.store.GetRollup(r.Context(), customerID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no accumulated data for the given date"})
			return
		}
		log.Printf("ERROR: get rollup: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	inv := ledger.ComputeInvoice(rollup.TotalPrice, req.DriverTip, req.Tobacco)
	writeJSON(w, http.StatusOK, invoiceResponse{
		CustomerID:  customerID,
		Date:        date,
		TotalPrice:  inv.TotalPrice.String(),
		Commission:  inv.Commission.String(),
		DriverTip:   inv.DriverTip.String(),
		Tobacco:     inv.Tobacco.String(),
		FinalAmount: inv.FinalAmount.String(),
	})
}

func (h *CustomerHandler) notify(customerID, eventType string, payload interface{}) {
	if h.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	h.hub.BroadcastToCustomer(customerID, ws.Event{Type: eventType, Payload: data})
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wakala-ledger/api/internal/store"
)

// ItemStore defines the database methods needed by item handlers.
// Satisfied by *store.Store.
type ItemStore interface {
	ListItems(ctx context.Context) ([]store.Item, error)
	CreateItem(ctx context.Context, itemName string) (store.Item, error)
}

// ItemHandler handles the produce item catalog.
type ItemHandler struct {
	store ItemStore
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(store ItemStore) *ItemHandler {
	return &ItemHandler{store: store}
}

// RegisterRoutes registers read endpoints on the given Chi router.
// Mount under /items.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListItems)
}

// RegisterAdminRoutes registers catalog mutations. Split out so the router
// can restrict them to admins.
func (h *ItemHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateItem)
}

type createItemRequest struct {
	ItemName string `json:"itemName"`
}

// ListItems returns the full item catalog.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateItem adds a produce item to the catalog.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ItemName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "itemName is required"})
		return
	}

	item, err := h.store.CreateItem(r.Context(), req.ItemName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "item already exists"})
			return
		}
		log.Printf("ERROR: create item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wakala-ledger/api/internal/handler"
	"github.com/wakala-ledger/api/internal/store"
)

type mockItemStore struct {
	items map[string]store.Item
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{items: make(map[string]store.Item)}
}

func (m *mockItemStore) ListItems(_ context.Context) ([]store.Item, error) {
	out := make([]store.Item, 0, len(m.items))
	for _, item := range m.items {
		out = append(out, item)
	}
	return out, nil
}

func (m *mockItemStore) CreateItem(_ context.Context, itemName string) (store.Item, error) {
	if _, ok := m.items[itemName]; ok {
		return store.Item{}, &pgconn.PgError{Code: "23505"}
	}
	item := store.Item{ID: uuid.New(), ItemName: itemName}
	m.items[itemName] = item
	return item, nil
}

func newItemRouter(st handler.ItemStore) chi.Router {
	h := handler.NewItemHandler(st)
	r := chi.NewRouter()
	r.Route("/items", func(r chi.Router) {
		h.RegisterRoutes(r)
		h.RegisterAdminRoutes(r)
	})
	return r
}

func TestListItems(t *testing.T) {
	st := newMockItemStore()
	st.items["tomato"] = store.Item{ID: uuid.New(), ItemName: "tomato"}
	st.items["okra"] = store.Item{ID: uuid.New(), ItemName: "okra"}
	r := newItemRouter(st)

	rr := getRequest(t, r, "/items")

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("items: got %d, want 2", len(resp))
	}
}

func TestCreateItem(t *testing.T) {
	r := newItemRouter(newMockItemStore())

	rr := doJSON(t, r, "POST", "/items", map[string]string{"itemName": "tomato"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["itemName"] != "tomato" {
		t.Errorf("itemName: got %v, want tomato", resp["itemName"])
	}
	if resp["id"] == nil || resp["id"] == "" {
		t.Error("expected non-empty id")
	}
}

func TestCreateItem_Duplicate(t *testing.T) {
	st := newMockItemStore()
	st.items["tomato"] = store.Item{ID: uuid.New(), ItemName: "tomato"}
	r := newItemRouter(st)

	rr := doJSON(t, r, "POST", "/items", map[string]string{"itemName": "tomato"})

	if rr.Code != http.StatusConflict {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestCreateItem_MissingName(t *testing.T) {
	r := newItemRouter(newMockItemStore())

	rr := doJSON(t, r, "POST", "/items", map[string]string{})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

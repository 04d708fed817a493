package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/handler"
	"github.com/wakala-ledger/api/internal/store"
)

const testSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	userByEmail map[string]store.User
	userByID    map[uuid.UUID]store.User
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{
		userByEmail: make(map[string]store.User),
		userByID:    make(map[uuid.UUID]store.User),
	}
}

func (m *mockAuthStore) addUser(u store.User) {
	m.userByEmail[u.Email] = u
	m.userByID[u.ID] = u
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	u, ok := m.userByEmail[email]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthStore) GetUserByID(_ context.Context, id uuid.UUID) (store.User, error) {
	u, ok := m.userByID[id]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

// --- Helpers ---

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

func makeTestUser(t *testing.T) store.User {
	t.Helper()
	return store.User{
		ID:             uuid.New(),
		Email:          "clerk@test.com",
		FullName:       "Test Clerk",
		HashedPassword: hashPassword(t, "correct-password"),
		Role:           enum.UserRoleClerk,
	}
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- Login tests ---

func TestLogin_ValidCredentials(t *testing.T) {
	st := newMockAuthStore()
	user := makeTestUser(t)
	st.addUser(user)

	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rr := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "clerk@test.com",
		"password": "correct-password",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
	if resp["refresh_token"] == nil || resp["refresh_token"] == "" {
		t.Error("expected non-empty refresh_token")
	}

	userResp, ok := resp["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected user object in response")
	}
	if userResp["email"] != "clerk@test.com" {
		t.Errorf("user email: got %v, want clerk@test.com", userResp["email"])
	}
	if userResp["role"] != enum.UserRoleClerk {
		t.Errorf("user role: got %v, want %s", userResp["role"], enum.UserRoleClerk)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	st := newMockAuthStore()
	st.addUser(makeTestUser(t))

	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rr := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "clerk@test.com",
		"password": "wrong-password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	st := newMockAuthStore()
	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rr := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "nobody@test.com",
		"password": "password",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	st := newMockAuthStore()
	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rr := postJSON(t, r, "/auth/login", map[string]string{
		"email": "clerk@test.com",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// --- Refresh tests ---

func TestRefresh_ValidToken(t *testing.T) {
	st := newMockAuthStore()
	user := makeTestUser(t)
	st.addUser(user)

	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	login := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "clerk@test.com",
		"password": "correct-password",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login status: got %d; body: %s", login.Code, login.Body.String())
	}
	refreshToken := decodeResponse(t, login)["refresh_token"].(string)

	rr := postJSON(t, r, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if resp["access_token"] == nil || resp["access_token"] == "" {
		t.Error("expected non-empty access_token")
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	st := newMockAuthStore()
	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rr := postJSON(t, r, "/auth/refresh", map[string]string{
		"refresh_token": "not-a-token",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRefresh_DeletedUser(t *testing.T) {
	st := newMockAuthStore()
	user := makeTestUser(t)
	st.addUser(user)

	h := handler.NewAuthHandler(st, testSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	login := postJSON(t, r, "/auth/login", map[string]string{
		"email":    "clerk@test.com",
		"password": "correct-password",
	})
	refreshToken := decodeResponse(t, login)["refresh_token"].(string)

	delete(st.userByID, user.ID)
	delete(st.userByEmail, user.Email)

	rr := postJSON(t, r, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

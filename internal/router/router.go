package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wakala-ledger/api/internal/config"
	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/handler"
	mw "github.com/wakala-ledger/api/internal/middleware"
	"github.com/wakala-ledger/api/internal/service"
	"github.com/wakala-ledger/api/internal/store"
	"github.com/wakala-ledger/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Statement exports and catalog mutations are restricted to admins.
func New(cfg *config.Config, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	st := store.New(pool)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(st, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/customers/{id}/ledger", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		newLedgerStore := func(db store.DBTX) service.LedgerStore {
			return store.New(db)
		}
		ledgerService := service.NewLedgerService(pool, newLedgerStore)

		customerHandler := handler.NewCustomerHandler(st, ledgerService, hub)
		r.Route("/customers", customerHandler.RegisterRoutes)

		distributorHandler := handler.NewDistributorHandler(st)
		r.Route("/distributors", func(r chi.Router) {
			distributorHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				distributorHandler.RegisterAdminRoutes(r)
			})
		})

		itemHandler := handler.NewItemHandler(st)
		r.Route("/items", func(r chi.Router) {
			itemHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))
				itemHandler.RegisterAdminRoutes(r)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/wakala-ledger/api/internal/config"
	"github.com/wakala-ledger/api/internal/db"
	"github.com/wakala-ledger/api/internal/router"
	"github.com/wakala-ledger/api/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()
	log.Println("Connected to database")

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, pool, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}

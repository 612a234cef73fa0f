package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/suprmushrooms/storefront/internal/config"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database successfully")

	srv := server.New(db)

	go func() {
		if err := srv.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server starting on %s", cfg.Server.Addr())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Printf("Signal received, shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server shutdown: %v", err)
	}
}

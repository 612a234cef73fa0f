package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/suprmushrooms/storefront/internal/config"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/notify"
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

	mailer, err := notify.NewMailer(cfg.SMTP, cfg.Store)
	if err != nil {
		log.Fatalf("Configure mailer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Printf("Notifier listening for new orders")
	dispatcher := notify.NewDispatcher(db, cfg.Database.URL, mailer)
	if err := dispatcher.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Dispatcher: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/argus-dev/argus/internal/auth"
	"github.com/argus-dev/argus/internal/catalog"
	"github.com/argus-dev/argus/internal/events"
	"github.com/argus-dev/argus/internal/handlers"
	"github.com/argus-dev/argus/internal/mailwatch"
	"github.com/argus-dev/argus/internal/notifiers"
	"github.com/argus-dev/argus/internal/probes"
	"github.com/argus-dev/argus/internal/registry"
	"github.com/argus-dev/argus/internal/router"
	"github.com/argus-dev/argus/internal/scheduler"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "catalog.json"
	}

	store := catalog.NewStore(catalogPath)
	cat, err := store.Load()

	if err != nil {
		log.Fatalf("Failed to load catalog from %s: %v", catalogPath, err)
	}

	reg := registry.NewFromCatalog(cat, store)
	log.Printf("Loaded catalog: %d accounts, %d jobs, %d alerts, %d silence periods",
		len(cat.Accounts), len(cat.Jobs), len(cat.Alerts), len(cat.SilencePeriods))

	bus := events.NewBus()

	notifier := notifiers.Multi{
		Voice: notifiers.NewTwilio(),
		Mail:  smtpFromEnv(),
	}

	sched := scheduler.New(scheduler.Config{
		Registry: reg,
		Prober:   &probes.Checker{},
		Notifier: notifier,
		Bus:      bus,
	})

	var watcher *mailwatch.NATSWatcher

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		prefix := os.Getenv("NATS_MAIL_PREFIX")
		if prefix == "" {
			prefix = "mail"
		}

		watcher, err = mailwatch.NewNATS(natsURL, prefix)

		if err != nil {
			log.Fatalf("Failed to connect mail watcher: %v", err)
		}

		go sched.ConsumeLabelEvents(watcher)
	}

	h := handlers.New(reg, sched, bus)
	r := router.NewRouter(h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Argus listening on :%s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	if watcher != nil {
		watcher.Close()
	}

	sched.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

func smtpFromEnv() *notifiers.SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}

	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	return &notifiers.SMTPMailer{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

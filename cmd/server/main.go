/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rent schedule engine server.

STARTUP SEQUENCE:
  1. Load optional .env file
  2. Parse command-line flags (env vars as defaults)
  3. Initialize SQLite store
  4. Configure handler, router, due sweeper
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080, env PORT)
  -db       SQLite database path (default: rent.db, env DB_PATH)
            Use ":memory:" for an in-memory database
  -sweep    Cron spec for the payments-due sweep (default: @hourly,
            env SWEEP_SPEC, empty disables)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop the sweeper, stop accepting connections, wait
  for active requests (30s timeout), close the database.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/warp/rent-engine/api"
	"github.com/warp/rent-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over environment.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "rent.db"), "SQLite database path")
	sweepSpec := flag.String("sweep", envStr("SWEEP_SPEC", "@hourly"), "cron spec for payments-due sweep (empty disables)")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	handler := api.NewHandler(store, log)
	router := api.NewRouter(handler)

	var sweeper *api.DueSweeper
	if *sweepSpec != "" {
		sweeper = api.NewDueSweeper(store, log, *sweepSpec, 3)
		if err := sweeper.Start(); err != nil {
			log.WithError(err).Fatal("failed to start due sweeper")
		}
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if sweeper != nil {
		sweeper.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"partelog/infrastructure/audit"
	"partelog/infrastructure/cache"
	httpserver "partelog/infrastructure/http"
	"partelog/infrastructure/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("err", err))
	}

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "partelog.db")
	globalUsernames := getenvBool("GLOBAL_USERNAMES", true)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// Empty dir means the migrations embedded in the binary, so a deployed
	// binary boots from any working directory. MIGRATIONS_DIR overrides for
	// development against work-in-progress .sql files.
	if err := sqlite.ApplyMigrations(context.Background(), db, os.Getenv("MIGRATIONS_DIR")); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	flashes := cache.NewFlashCache()
	auditSvc := audit.NewService()

	server := httpserver.NewServer(addr, db, sessionCache, flashes, auditSvc, httpserver.Options{
		GlobalUsernames: globalUsernames,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("partelog listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

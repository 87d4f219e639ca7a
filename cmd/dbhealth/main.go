package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursefolio/syllabus-parser/internal/common"
	repo "github.com/coursefolio/syllabus-parser/internal/repository"
)

func main() {
	_ = godotenv.Load()

	// Opening a path that does not exist would create an empty database,
	// so this tool insists on an explicit one.
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		log.Println("ERROR: DB_PATH env var is required")
		log.Println("  mac/Linux (bash/zsh): export DB_PATH=./syllabi.db")
		log.Println("  Windows (PowerShell): $env:DB_PATH='.\\syllabi.db'")
		os.Exit(2)
	}
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("DB_PATH %s: %v", dbPath, err)
	}
	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Repositories log structurally; this tool's own output stays plain.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repo.Open(repo.Config{
		Path:        dbPath,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, logger)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer repo.Close(db, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	log.Println("DB health: OK")

	var version int
	if err := db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		log.Fatalf("reading schema version: %v", err)
	}
	log.Printf("schema version: %d", version)

	coursesRepo := repo.NewCourseRepository(db, logger)
	instructorsRepo := repo.NewInstructorRepository(db, logger)
	importLogRepo := repo.NewImportLogRepository(db, logger)

	courses, err := coursesRepo.List(ctx)
	if err != nil {
		log.Fatalf("listing courses: %v", err)
	}
	instructors, err := instructorsRepo.List(ctx)
	if err != nil {
		log.Fatalf("listing instructors: %v", err)
	}
	log.Printf("courses count: %d", len(courses))
	log.Printf("instructors count: %d", len(instructors))

	recent, err := importLogRepo.ListRecent(ctx, 5)
	if err != nil {
		log.Fatalf("listing recent imports: %v", err)
	}
	log.Printf("recent imports: %d", len(recent))
	for _, e := range recent {
		log.Printf("- [%s] %s (%s)", e.Status, e.SourcePath, e.StartedAt.Format(time.RFC3339))
	}
}

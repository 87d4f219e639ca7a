package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/batch"
	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/courses"
	"github.com/coursefolio/syllabus-parser/internal/export"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/ingest"
	"github.com/coursefolio/syllabus-parser/internal/ocr"
	"github.com/coursefolio/syllabus-parser/internal/pipeline"
	repo "github.com/coursefolio/syllabus-parser/internal/repository"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		inmem    = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir      = flag.String("dir", "", "directory to process syllabi from")
		watch    = flag.Bool("watch", false, "keep watching the directory for new files (requires -dir)")
		out      = flag.String("out", "", "output directory for exports (optional, defaults to EXPORT_DIR)")
		semester = flag.String("semester", "", "limit the XLSX export to one semester (requires -year)")
		year     = flag.Int("year", 0, "limit the XLSX export to one year (requires -semester)")
	)
	flag.Parse()

	// Remaining arguments are individual files to process
	paths := flag.Args()
	if *dir == "" && len(paths) == 0 {
		printError("Error: provide -dir or at least one file path\n")
		os.Exit(1)
	}
	if *watch && *dir == "" {
		printError("Error: -watch requires -dir\n")
		os.Exit(1)
	}
	if (*semester == "") != (*year == 0) {
		printError("Error: -semester and -year must be used together\n")
		os.Exit(1)
	}
	if *semester != "" {
		if canonical, ok := constants.CanonicalizeSemester(*semester); ok {
			*semester = string(canonical)
		}
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load configuration
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if *out == "" {
		*out = cfg.Export.Dir
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		logger.Error("failed to create output directory", "dir", *out, "error", err)
		os.Exit(1)
	}

	// Initialize database
	dbPath := cfg.Database.Path
	if *inmem {
		dbPath = ":memory:"
	}
	db, err := repo.Open(repo.Config{Path: dbPath, BusyTimeout: cfg.Database.BusyTimeout}, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	// Wire repositories
	instructorsRepo := repo.NewInstructorRepository(db, logger)
	coursesRepo := repo.NewCourseRepository(db, logger)
	importLogRepo := repo.NewImportLogRepository(db, logger)

	importer := courses.NewService(coursesRepo, instructorsRepo, importLogRepo, logger)
	exporter := export.NewService(coursesRepo, instructorsRepo, logger)

	// Setup the extraction pipeline
	engine := ocr.NewTesseractEngine(ocr.Config{
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	pages := ocr.NewPageExtractor(engine, logger)
	cache := extract.NewContentCache(cfg.Batch.CacheCapacity)
	extractor := extract.NewExtractor(pages, cache, logger)
	processor := pipeline.NewProcessor(logger, extractor, nil)

	// Collect input files
	if *dir != "" {
		scanned, stats, err := ingest.ScanDirectory(*dir, true)
		if err != nil {
			logger.Error("failed to scan directory", "dir", *dir, "error", err)
			os.Exit(1)
		}
		logger.Info("scan complete",
			"dir", *dir,
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"failed", stats.Failed)
		paths = append(paths, scanned...)
	}

	// Import each parsed record and write its JSON artifact. The handler is
	// shared between the batch pass and the watch queue, whose workers call
	// it concurrently.
	processed := 0
	failures := 0
	var mu sync.Mutex

	handleResult := func(path string, rec *syllabus.Record, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			failures++
			if logErr := importer.RecordFailure(ctx, path, err); logErr != nil {
				logger.Error("failed to record failure", "path", path, "error", logErr)
			}
			return
		}

		if _, err := importer.ImportRecord(ctx, rec, path); err != nil {
			logger.Error("failed to import record", "path", path, "error", err)
			failures++
			return
		}

		data, err := exporter.ExportRecordJSON(rec)
		if err != nil {
			logger.Error("failed to export record JSON", "path", path, "error", err)
		} else {
			jsonPath := filepath.Join(*out, recordFileName(rec))
			if err := os.WriteFile(jsonPath, data, 0644); err != nil {
				logger.Error("failed to write record JSON", "path", jsonPath, "error", err)
			}
		}
		processed++
	}

	// Process the collected files
	if len(paths) > 0 {
		parser := batch.NewParser(processor, cfg.Batch.Workers, logger)
		for res := range parser.ParseAll(ctx, paths) {
			handleResult(res.Path, res.Record, res.Err)
		}
	}

	// Keep watching for new arrivals until interrupted
	if *watch {
		watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

		queue := batch.NewQueue(processor, handleResult, logger,
			batch.WithWorkers(cfg.Batch.Workers),
			batch.WithProcessTimeout(cfg.Batch.FileTimeout))

		evCh, errCh, err := ingest.StartWatcher(watchCtx, ingest.WatchConfig{
			Roots:    []string{*dir},
			Debounce: cfg.Ingest.Debounce,
		})
		if err != nil {
			stop()
			logger.Error("failed to start watcher", "dir", *dir, "error", err)
			os.Exit(1)
		}

		logger.Info("watching for new syllabi", "dir", *dir)
		for evCh != nil || errCh != nil {
			select {
			case p, ok := <-evCh:
				if !ok {
					evCh = nil
					continue
				}
				_ = queue.Enqueue(watchCtx, batch.Job{Path: p})
			case _, ok := <-errCh:
				if !ok {
					errCh = nil
				}
			}
		}
		stop()
		queue.Shutdown(ctx)
	}

	cacheStats := extractor.Cache().Stats()
	logger.Info("extract cache stats",
		"hits", cacheStats.Hits,
		"misses", cacheStats.Misses,
		"evictions", cacheStats.Evictions,
		"entries", cacheStats.Entries)

	// Export to XLSX
	outFile := filepath.Join(*out, "courses.xlsx")
	logger.Info("exporting to XLSX", "output", outFile)

	xlsxBytes, err := exporter.ExportCoursesXLSX(ctx, *semester, *year)
	if err != nil {
		logger.Error("failed to export courses", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outFile, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	// Log summary
	logger.Info("batch processing complete",
		"files_processed", processed,
		"failures", failures,
		"output_file", outFile)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", outFile)
}

// recordFileName names a record's JSON artifact after its course key so two
// syllabi named the same on disk cannot overwrite each other.
func recordFileName(rec *syllabus.Record) string {
	code := strings.ReplaceAll(rec.CourseCode, " ", "")
	term := strings.ReplaceAll(rec.Semester, " ", "")
	if term == "" {
		return fmt.Sprintf("%s-%d.json", code, rec.Year)
	}
	return fmt.Sprintf("%s-%s%d.json", code, term, rec.Year)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/ocr"
)

// runocr extracts the text of a single syllabus file and prints it,
// without parsing or storing anything. Useful for checking what the OCR
// engine actually sees.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <syllabus-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Batch.FileTimeout)
	defer cancel()

	doc, err := extract.NewSourceDocument(path)
	if err != nil {
		logger.Error("unsupported input", "path", path, "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseractEngine(ocr.Config{
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	pages := ocr.NewPageExtractor(engine, logger)
	extractor := extract.NewExtractor(pages, nil, logger)

	start := time.Now()
	text, err := extractor.Extract(ctx, doc)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"kind", doc.Kind,
		"fingerprint", extract.ShortFingerprint(doc.Fingerprint),
		"pages", text.PageCount(),
		"bytes", len(text.Text),
		"duration_ms", dur.Milliseconds(),
	)

	fmt.Print(text.Text)
}

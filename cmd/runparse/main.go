package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/ocr"
	"github.com/coursefolio/syllabus-parser/internal/pipeline"
)

func main() {
	// Logs go to stderr so stdout carries only the parsed record.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runparse <syllabus-file>")
		os.Exit(2)
	}
	path := os.Args[1]

	_ = godotenv.Load()
	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Batch.FileTimeout)
	defer cancel()

	engine := ocr.NewTesseractEngine(ocr.Config{
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	pages := ocr.NewPageExtractor(engine, logger)
	extractor := extract.NewExtractor(pages, nil, logger)
	p := pipeline.NewProcessor(logger, extractor, nil)

	start := time.Now()
	rec, err := p.ProcessFile(ctx, path)
	dur := time.Since(start)

	if err != nil {
		logger.Error("parse failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("parse OK",
		"path", path,
		"course_code", rec.CourseCode,
		"semester", rec.Semester,
		"year", rec.Year,
		"duration_ms", dur.Milliseconds(),
	)

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

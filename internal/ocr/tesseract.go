package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/otiai10/gosseract/v2"
)

type Config struct {
	Language    string // default "eng"
	TessdataDir string
	PSM         int // page segmentation mode; default automatic with orientation detection
}

// TesseractEngine recognizes text through the linked Tesseract library.
type TesseractEngine struct {
	cfg    Config
	logger *slog.Logger
}

func NewTesseractEngine(cfg Config, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PSM == 0 {
		cfg.PSM = int(gosseract.PSM_AUTO_OSD)
	}
	return &TesseractEngine{cfg: cfg, logger: logger}
}

// Recognize runs Tesseract over a PNG-encoded page image. A fresh client is
// created per call because gosseract clients are not safe for concurrent use.
func (e *TesseractEngine) Recognize(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.cfg.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if e.cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(e.cfg.PSM)); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	dur := time.Since(start)
	if err != nil {
		e.logger.Error("ocr failed",
			"duration_ms", dur.Milliseconds(),
			"image_bytes", len(img),
			"error", err,
		)
		return "", fmt.Errorf("tesseract: %w", err)
	}
	e.logger.Debug("ocr ok",
		"duration_ms", dur.Milliseconds(),
		"image_bytes", len(img),
		"text_bytes", len(text),
	)
	return text, nil
}

var _ Engine = (*TesseractEngine)(nil)

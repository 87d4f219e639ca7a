package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TextLayerThreshold is the minimum embedded-text length (after trimming)
// at which a page's own text layer is trusted and OCR is skipped.
const TextLayerThreshold = 100

// RenderFunc produces an encoded image (PNG, JPEG or TIFF) of the page.
// It is only invoked when the text layer is too thin and OCR has to run.
type RenderFunc func() ([]byte, error)

// PageExtractor produces the text of a single page, choosing between the
// embedded text layer and OCR of the rendered page.
type PageExtractor struct {
	engine Engine
	logger *slog.Logger
}

func NewPageExtractor(engine Engine, logger *slog.Logger) *PageExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageExtractor{engine: engine, logger: logger}
}

// PageText returns the embedded text layer unchanged when it carries at
// least TextLayerThreshold characters. Otherwise it renders the page and
// recognizes it. An empty result is not a page-level error; a failed
// render or engine invocation is.
func (p *PageExtractor) PageText(ctx context.Context, textLayer string, render RenderFunc) (string, error) {
	if len(strings.TrimSpace(textLayer)) >= TextLayerThreshold {
		p.logger.Debug("page.textlayer.ok", "text_bytes", len(textLayer))
		return textLayer, nil
	}

	img, err := render()
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}

	txt, err := p.engine.Recognize(ctx, img)
	if err != nil {
		return "", err
	}
	p.logger.Debug("page.ocr.ok", "text_bytes", len(txt))
	return Normalize(txt), nil
}

package extract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/gen2brain/go-fitz"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/ocr"
)

const (
	// PDFChunkSize bounds how many pages are walked before the next
	// cancellation check; chunk N+1 starts only after chunk N is done.
	PDFChunkSize = 5

	// RenderDPI doubles the 72 DPI PDF default. OCR accuracy degrades
	// sharply below an effective 144 DPI on letter-size pages.
	RenderDPI = 144
)

// Extractor produces the full text of one document, consulting the
// content cache before doing any extraction work.
type Extractor struct {
	pages  *ocr.PageExtractor
	cache  *ContentCache
	logger *slog.Logger
}

func NewExtractor(pages *ocr.PageExtractor, cache *ContentCache, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewContentCache(DefaultCacheCapacity)
	}
	return &Extractor{pages: pages, cache: cache, logger: logger}
}

// Cache exposes the extractor's cache, mainly for stats reporting.
func (e *Extractor) Cache() *ContentCache {
	return e.cache
}

// Extract returns the document's full text. Byte-identical inputs hit the
// cache and do no extraction work; nothing partial is cached on failure.
func (e *Extractor) Extract(ctx context.Context, doc SourceDocument) (*ExtractedText, error) {
	if txt, ok := e.cache.Get(doc.Fingerprint); ok {
		e.logger.Debug("extract.cache.hit",
			"path", doc.Path,
			"fingerprint", ShortFingerprint(doc.Fingerprint),
		)
		return txt, nil
	}

	var (
		txt *ExtractedText
		err error
	)
	switch doc.Kind {
	case constants.KindPDF:
		txt, err = e.extractPDF(ctx, doc)
	case constants.KindImage:
		txt, err = e.extractImage(ctx, doc)
	default:
		return nil, common.NewFileTypeError(doc.Path, string(doc.Kind))
	}
	if err != nil {
		return nil, err
	}

	e.cache.Put(doc.Fingerprint, txt)
	e.logger.Debug("extract.ok",
		"path", doc.Path,
		"pages", txt.PageCount(),
		"text_bytes", len(txt.Text),
	)
	return txt, nil
}

func (e *Extractor) extractPDF(ctx context.Context, doc SourceDocument) (*ExtractedText, error) {
	d, err := fitz.New(doc.Path)
	if err != nil {
		return nil, common.NewExtractionError(doc.Path, -1, fmt.Errorf("open pdf: %w", err))
	}
	defer d.Close()

	total := d.NumPage()
	pages := make([]string, 0, total)

	for chunkStart := 0; chunkStart < total; chunkStart += PDFChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, common.NewExtractionError(doc.Path, chunkStart, err)
		}
		chunkEnd := min(chunkStart+PDFChunkSize, total)
		for pageNum := chunkStart; pageNum < chunkEnd; pageNum++ {
			layer, err := d.Text(pageNum)
			if err != nil {
				return nil, common.NewExtractionError(doc.Path, pageNum, fmt.Errorf("text layer: %w", err))
			}
			pageText, err := e.pages.PageText(ctx, layer, func() ([]byte, error) {
				return renderPage(d, pageNum)
			})
			if err != nil {
				return nil, common.NewExtractionError(doc.Path, pageNum, err)
			}
			pages = append(pages, pageText)
		}
	}

	return &ExtractedText{Pages: pages, Text: joinPages(pages)}, nil
}

// renderPage rasterizes one page at RenderDPI and encodes it as PNG.
func renderPage(d *fitz.Document, pageNum int) ([]byte, error) {
	img, err := d.ImageDPI(pageNum, RenderDPI)
	if err != nil {
		return nil, fmt.Errorf("rasterize: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Extractor) extractImage(ctx context.Context, doc SourceDocument) (*ExtractedText, error) {
	// empty text layer forces recognition
	txt, err := e.pages.PageText(ctx, "", func() ([]byte, error) {
		return os.ReadFile(doc.Path)
	})
	if err != nil {
		return nil, common.NewExtractionError(doc.Path, 0, err)
	}
	return &ExtractedText{Pages: []string{txt}, Text: txt}, nil
}

var _ TextExtractor = (*Extractor)(nil)

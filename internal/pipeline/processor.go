package pipeline

import (
	"context"
	"log/slog"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/parse"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// Processor coordinates text extraction, field parsing and validation for
// one file at a time.
type Processor struct {
	Logger    *slog.Logger
	Extractor extract.TextExtractor
	Parser    *parse.Parser
}

func NewProcessor(logger *slog.Logger, extractor extract.TextExtractor, parser *parse.Parser) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = parse.NewParser()
	}
	return &Processor{Logger: logger, Extractor: extractor, Parser: parser}
}

// ProcessFile runs the full pipeline for one path: reject unsupported
// kinds, extract text (cache-checked), parse fields, validate. Every
// input yields either a validated record or a typed error, never a
// partially populated record.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*syllabus.Record, error) {
	log := p.Logger
	if batchID := common.BatchIDFromContext(ctx); batchID != "" {
		log = log.With("batch_id", batchID)
	}

	doc, err := extract.NewSourceDocument(path)
	if err != nil {
		log.Error("processor.source.failed", "path", path, "err", err)
		return nil, err
	}

	txt, err := p.Extractor.Extract(ctx, doc)
	if err != nil {
		log.Error("processor.extract.failed", "path", path, "err", err)
		return nil, err
	}
	log.Info("processor.extract.ok",
		"path", path,
		"kind", string(doc.Kind),
		"pages", txt.PageCount(),
		"fingerprint", extract.ShortFingerprint(doc.Fingerprint),
	)

	rec := p.Parser.Parse(txt.Text)
	if err := rec.Validate(); err != nil {
		log.Error("processor.validate.failed", "path", path, "err", err)
		return nil, err
	}
	log.Info("processor.validate.ok",
		"path", path,
		"course_code", rec.CourseCode,
		"semester", rec.Semester,
		"year", rec.Year,
	)
	return rec, nil
}

package extract

import (
	"context"
)

// TextExtractor is stage 1 of the pipeline: document -> full text.
type TextExtractor interface {
	Extract(ctx context.Context, doc SourceDocument) (*ExtractedText, error)
}

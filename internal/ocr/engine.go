package ocr

import "context"

// Engine lets us stub the recognition backend in tests.
type Engine interface {
	Recognize(ctx context.Context, img []byte) (string, error)
}

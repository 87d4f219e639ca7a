package batch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/pipeline"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// DefaultWorkers bounds the pool when no worker count is configured.
const DefaultWorkers = 4

// Result pairs one input with its outcome: a validated record or the
// typed error that stopped that file. Index is the input position.
type Result struct {
	Index  int
	Path   string
	Record *syllabus.Record
	Err    error
}

// Parser fans the single-file pipeline out across a bounded worker pool.
// One file's failure never cancels another file's work.
type Parser struct {
	processor *pipeline.Processor
	workers   int
	logger    *slog.Logger
}

func NewParser(processor *pipeline.Processor, workers int, logger *slog.Logger) *Parser {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{processor: processor, workers: workers, logger: logger}
}

// ParseAll processes paths concurrently and returns a channel yielding one
// Result per input, delivered incrementally in input order. The channel
// closes after the last result. Cancelling ctx fails not-yet-started
// files with the context error; running files finish and report.
func (b *Parser) ParseAll(ctx context.Context, paths []string) <-chan Result {
	out := make(chan Result)
	if len(paths) == 0 {
		close(out)
		return out
	}

	batchID := uuid.NewString()
	ctx = common.WithBatchID(ctx, batchID)
	b.logger.Info("batch.start",
		"batch_id", batchID,
		"files", len(paths),
		"workers", b.workers,
	)

	type workItem struct {
		index int
		path  string
	}

	workChan := make(chan workItem, len(paths))
	for i, p := range paths {
		workChan <- workItem{index: i, path: p}
	}
	close(workChan)

	// Each input owns a one-slot channel; the emitter drains them in
	// input order so results stream out ordered without waiting for the
	// whole batch.
	slots := make([]chan Result, len(paths))
	for i := range slots {
		slots[i] = make(chan Result, 1)
	}

	var wg sync.WaitGroup
	for w := 0; w < min(b.workers, len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				if err := ctx.Err(); err != nil {
					slots[item.index] <- Result{Index: item.index, Path: item.path, Err: err}
					continue
				}
				fctx := common.WithSourcePath(ctx, item.path)
				rec, err := b.processor.ProcessFile(fctx, item.path)
				slots[item.index] <- Result{Index: item.index, Path: item.path, Record: rec, Err: err}
			}
		}()
	}

	go func() {
		defer close(out)
		for i := range slots {
			r := <-slots[i]
			if r.Err != nil {
				b.logger.Warn("batch.file.err", "batch_id", batchID, "path", r.Path, "err", r.Err)
			}
			out <- r
		}
		wg.Wait()
		b.logger.Info("batch.done", "batch_id", batchID, "files", len(paths))
	}()

	return out
}

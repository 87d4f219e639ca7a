package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/pipeline"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

type handled struct {
	path string
	rec  *syllabus.Record
	err  error
}

// resultCollector is a ResultHandler safe for concurrent workers.
type resultCollector struct {
	mu      sync.Mutex
	results []handled
}

func (c *resultCollector) handle(path string, rec *syllabus.Record, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, handled{path: path, rec: rec, err: err})
}

func (c *resultCollector) snapshot() []handled {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]handled(nil), c.results...)
}

func TestQueue_ProcessesAllJobs(t *testing.T) {
	paths, stub := makeBatchFiles(t, 5)
	proc := pipeline.NewProcessor(quietLogger(), stub, nil)
	collector := &resultCollector{}

	q := NewQueue(proc, collector.handle, quietLogger(), WithWorkers(2))
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p}))
	}
	q.Shutdown(context.Background())

	results := collector.snapshot()
	require.Len(t, results, 5)

	seen := map[string]bool{}
	for _, r := range results {
		assert.NoError(t, r.err)
		require.NotNil(t, r.rec)
		seen[r.path] = true
	}
	for _, p := range paths {
		assert.True(t, seen[p], "no result for %s", p)
	}
}

func TestQueue_ReportsPerFileErrors(t *testing.T) {
	paths, stub := makeBatchFiles(t, 3)
	stub.errs[paths[1]] = common.NewExtractionError(paths[1], 0, errors.New("corrupt"))
	proc := pipeline.NewProcessor(quietLogger(), stub, nil)
	collector := &resultCollector{}

	q := NewQueue(proc, collector.handle, quietLogger(), WithWorkers(2))
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p}))
	}
	q.Shutdown(context.Background())

	results := collector.snapshot()
	require.Len(t, results, 3)

	var failures int
	for _, r := range results {
		if r.err != nil {
			failures++
			assert.Equal(t, paths[1], r.path)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestQueue_EnqueueAfterShutdownIsRejected(t *testing.T) {
	paths, stub := makeBatchFiles(t, 1)
	proc := pipeline.NewProcessor(quietLogger(), stub, nil)
	collector := &resultCollector{}

	q := NewQueue(proc, collector.handle, quietLogger())
	q.Shutdown(context.Background())

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: paths[0]}))

	// Give a stray worker a moment to misbehave before asserting.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, collector.snapshot())
}

func TestQueue_ShutdownIsIdempotent(t *testing.T) {
	_, stub := makeBatchFiles(t, 1)
	proc := pipeline.NewProcessor(quietLogger(), stub, nil)

	q := NewQueue(proc, nil, quietLogger())
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/pipeline"
)

// textStub satisfies extract.TextExtractor with canned output per path.
type textStub struct {
	texts map[string]string
	errs  map[string]error
}

func (s *textStub) Extract(_ context.Context, doc extract.SourceDocument) (*extract.ExtractedText, error) {
	if err, ok := s.errs[doc.Path]; ok {
		return nil, err
	}
	text := s.texts[doc.Path]
	return &extract.ExtractedText{Pages: []string{text}, Text: text}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syllabusText renders a parseable document for the given course code.
func syllabusText(code string) string {
	return fmt.Sprintf("Course Code: %s\nCourse Title: Some Course\nInstructor: Dr. Doe\nTerm: Fall 2025\n", code)
}

// makeBatchFiles writes n placeholder files and a stub that maps each one
// to a distinct parseable document.
func makeBatchFiles(t *testing.T, n int) ([]string, *textStub) {
	t.Helper()
	dir := t.TempDir()
	stub := &textStub{texts: map[string]string{}, errs: map[string]error{}}
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("syllabus-%02d.png", i))
		require.NoError(t, os.WriteFile(paths[i], []byte(fmt.Sprintf("file %d", i)), 0o644))
		stub.texts[paths[i]] = syllabusText(fmt.Sprintf("CS %d", 100+i))
	}
	return paths, stub
}

func collect(t *testing.T, ch <-chan Result) []Result {
	t.Helper()
	var results []Result
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func TestParseAll_ResultsInInputOrder(t *testing.T) {
	paths, stub := makeBatchFiles(t, 8)
	b := NewParser(pipeline.NewProcessor(quietLogger(), stub, nil), 2, quietLogger())

	results := collect(t, b.ParseAll(context.Background(), paths))

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, paths[i], r.Path)
		require.NoError(t, r.Err)
		assert.Equal(t, fmt.Sprintf("CS %d", 100+i), r.Record.CourseCode)
	}
}

func TestParseAll_CorruptFileDoesNotShortCircuit(t *testing.T) {
	paths, stub := makeBatchFiles(t, 3)
	stub.errs[paths[1]] = common.NewExtractionError(paths[1], 0, errors.New("corrupt stream"))
	b := NewParser(pipeline.NewProcessor(quietLogger(), stub, nil), 2, quietLogger())

	results := collect(t, b.ParseAll(context.Background(), paths))

	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	assert.Equal(t, "CS 100", results[0].Record.CourseCode)

	require.Error(t, results[1].Err)
	var ee *common.ExtractionError
	assert.True(t, errors.As(results[1].Err, &ee))
	assert.Nil(t, results[1].Record)

	require.NoError(t, results[2].Err)
	assert.Equal(t, "CS 102", results[2].Record.CourseCode)
}

func TestParseAll_EmptyInput(t *testing.T) {
	b := NewParser(pipeline.NewProcessor(quietLogger(), &textStub{}, nil), 2, quietLogger())

	results := collect(t, b.ParseAll(context.Background(), nil))

	assert.Empty(t, results)
}

func TestParseAll_CancelledContextFailsPendingFiles(t *testing.T) {
	paths, stub := makeBatchFiles(t, 4)
	b := NewParser(pipeline.NewProcessor(quietLogger(), stub, nil), 2, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := collect(t, b.ParseAll(ctx, paths))

	require.Len(t, results, 4)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestParseAll_SingleWorkerStillCompletes(t *testing.T) {
	paths, stub := makeBatchFiles(t, 3)
	b := NewParser(pipeline.NewProcessor(quietLogger(), stub, nil), 1, quietLogger())

	results := collect(t, b.ParseAll(context.Background(), paths))

	require.Len(t, results, 3)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestNewSourceDocument_SupportedKinds(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		kind constants.FileKind
	}{
		{"syllabus.pdf", constants.KindPDF},
		{"syllabus.PDF", constants.KindPDF},
		{"scan.png", constants.KindImage},
		{"scan.jpg", constants.KindImage},
		{"scan.jpeg", constants.KindImage},
		{"scan.tiff", constants.KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, []byte("content"))
			doc, err := NewSourceDocument(path)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, doc.Kind)
			assert.Equal(t, path, doc.Path)
			assert.Len(t, doc.Fingerprint, 64)
		})
	}
}

func TestNewSourceDocument_RejectsUnsupportedExtensionBeforeReading(t *testing.T) {
	// The path deliberately does not exist: the extension check must fire
	// before any attempt to open the file.
	_, err := NewSourceDocument("/nonexistent/notes.docx")

	var fte *common.FileTypeError
	require.True(t, errors.As(err, &fte))
	assert.Equal(t, "docx", fte.Ext)
	assert.Equal(t, "/nonexistent/notes.docx", fte.Path)
}

func TestNewSourceDocument_MissingFile(t *testing.T) {
	_, err := NewSourceDocument("/nonexistent/syllabus.pdf")

	var ee *common.ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, -1, ee.Page)
}

func TestFingerprint_IndependentOfPath(t *testing.T) {
	dir := t.TempDir()
	content := []byte("byte-identical syllabus content")

	a := writeFile(t, dir, "original.pdf", content)
	b := writeFile(t, dir, "copy.pdf", content)

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)

	assert.Equal(t, fpA, fpB)
}

func TestFingerprint_ChangesWithContent(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "one.pdf", []byte("version one"))
	b := writeFile(t, dir, "two.pdf", []byte("version two"))

	fpA, err := Fingerprint(a)
	require.NoError(t, err)
	fpB, err := Fingerprint(b)
	require.NoError(t, err)

	assert.NotEqual(t, fpA, fpB)
}

func TestShortFingerprint(t *testing.T) {
	assert.Equal(t, "abcdef", ShortFingerprint("abcdef"))
	assert.Equal(t, "0123456789ab", ShortFingerprint("0123456789abcdef0123456789abcdef"))
}

func TestExtractedText_PageCount(t *testing.T) {
	txt := &ExtractedText{Pages: []string{"one", "two"}, Text: "one\ntwo\n"}
	assert.Equal(t, 2, txt.PageCount())
}

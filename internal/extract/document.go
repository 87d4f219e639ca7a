package extract

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
)

// SourceDocument identifies one input file for a single pipeline
// invocation: its path, the hash of its bytes, and its declared kind.
type SourceDocument struct {
	Path        string
	Fingerprint string
	Kind        constants.FileKind
}

// NewSourceDocument rejects unsupported extensions before any read, then
// fingerprints the file's byte content.
func NewSourceDocument(path string) (SourceDocument, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	kind, ok := constants.KindForExt(ext)
	if !ok {
		return SourceDocument{}, common.NewFileTypeError(path, ext)
	}

	fp, err := Fingerprint(path)
	if err != nil {
		return SourceDocument{}, common.NewExtractionError(path, -1, fmt.Errorf("fingerprint: %w", err))
	}

	return SourceDocument{Path: path, Fingerprint: fp, Kind: kind}, nil
}

// Fingerprint hashes a file's byte content. Two byte-identical files at
// different paths share a fingerprint; a changed file gets a new one.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ShortFingerprint abbreviates a fingerprint for log output.
func ShortFingerprint(fp string) string {
	if len(fp) <= 12 {
		return fp
	}
	return fp[:12]
}

// ExtractedText is the full text of one document: per-page strings in
// strict page order plus the concatenated form. Frozen once built.
type ExtractedText struct {
	Pages []string
	Text  string
}

// PageCount reports how many pages contributed to the text.
func (t *ExtractedText) PageCount() int {
	return len(t.Pages)
}

// joinPages concatenates page texts, each followed by the page separator.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteString("\n")
	}
	return b.String()
}

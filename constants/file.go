package constants

import "strings"

// FileKind is the declared kind of an input document.
type FileKind string

const (
	KindPDF   FileKind = "PDF"
	KindImage FileKind = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for syllabus ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tiff": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindForExt maps a file extension to its document kind. The boolean is
// false for extensions outside AllowedExtensions.
func KindForExt(ext string) (FileKind, bool) {
	switch NormalizeExt(ext) {
	case "pdf":
		return KindPDF, true
	case "png", "jpg", "jpeg", "tiff":
		return KindImage, true
	default:
		return "", false
	}
}

// Package ingest discovers syllabus files on the local filesystem, either
// by walking a directory once or by watching it for new arrivals.
package ingest

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Failed  uint32
}

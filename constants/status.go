package constants

// ImportStatus is the canonical status for rows in import_log.
type ImportStatus string

// Stable values (store these exact strings in DB).
const (
	ImportStatusParsed   ImportStatus = "PARSED"   // pipeline produced a validated record
	ImportStatusImported ImportStatus = "IMPORTED" // course row created or updated
	ImportStatusFailed   ImportStatus = "FAILED"   // terminal failure for this file
)

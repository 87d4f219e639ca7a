package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/constants"
)

// ImportLogEntry represents one processed source file for data transfer between layers.
type ImportLogEntry struct {
	ID           uuid.UUID              `json:"id"`
	SourcePath   string                 `json:"source_path"`
	Fingerprint  string                 `json:"fingerprint"`
	Status       constants.ImportStatus `json:"status"`
	CourseID     *uuid.UUID             `json:"course_id,omitempty"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	RecordJSON   json.RawMessage        `json:"record_json,omitempty"`
	StartedAt    time.Time              `json:"started_at"`
	FinishedAt   *time.Time             `json:"finished_at,omitempty"`
}

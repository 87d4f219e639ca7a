package entity

import (
	"time"

	"github.com/google/uuid"
)

// Course represents a course for data transfer between layers.
type Course struct {
	ID                uuid.UUID            `json:"id"`
	Code              string               `json:"code"`
	Name              string               `json:"name"`
	Semester          string               `json:"semester"`
	Year              int                  `json:"year"`
	Description       *string              `json:"description,omitempty"`
	InstructorID      uuid.UUID            `json:"instructor_id"`
	Textbooks         []string             `json:"textbooks,omitempty"`
	GradingScheme     map[string]float64   `json:"grading_scheme,omitempty"`
	ImportantDates    map[string]time.Time `json:"important_dates,omitempty"`
	SourcePath        *string              `json:"source_path,omitempty"`
	SourceFingerprint *string              `json:"source_fingerprint,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

package syllabus

import (
	"time"
)

// Record is a structured course description extracted from one syllabus.
// A Record that has passed Validate carries every required field in a
// well-formed state; nothing partially valid leaves the pipeline.
type Record struct {
	CourseCode        string               `json:"course_code"`
	CourseName        string               `json:"course_name"`
	InstructorName    string               `json:"instructor_name"`
	InstructorEmail   string               `json:"instructor_email,omitempty"`
	OfficeHours       string               `json:"office_hours,omitempty"`
	Semester          string               `json:"semester"`
	Year              int                  `json:"year"`
	CourseDescription string               `json:"course_description,omitempty"`
	Textbooks         []string             `json:"textbooks,omitempty"`
	GradingScheme     map[string]float64   `json:"grading_scheme,omitempty"`
	ImportantDates    map[string]time.Time `json:"important_dates,omitempty"`
}

// NewRecord returns a provisional record with the year defaulted to the
// current year. Fields stay empty until pattern extraction fills them.
func NewRecord() *Record {
	return &Record{
		Year:           time.Now().Year(),
		Textbooks:      []string{},
		GradingScheme:  map[string]float64{},
		ImportantDates: map[string]time.Time{},
	}
}

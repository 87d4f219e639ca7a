package syllabus

import (
	"regexp"

	"github.com/coursefolio/syllabus-parser/internal/common"
)

// Course codes are validated case-sensitively even though extraction scans
// case-insensitively, so a lowercased code is extracted and then rejected
// here rather than silently fixed up.
var reCourseCode = regexp.MustCompile(`^[A-Z]{2,4}\s*\d{3,4}$`)

// Validate checks the rules a record must satisfy before it leaves the
// pipeline, in a fixed order. The first violation is returned as a
// ValidationError naming the field and the rejected value.
func (r *Record) Validate() error {
	if r.CourseCode == "" || !reCourseCode.MatchString(r.CourseCode) {
		return &common.ValidationError{Field: "course_code", Value: r.CourseCode, Message: "invalid course code"}
	}
	if r.CourseName == "" {
		return &common.ValidationError{Field: "course_name", Value: r.CourseName, Message: "is required"}
	}
	if r.InstructorName == "" {
		return &common.ValidationError{Field: "instructor_name", Value: r.InstructorName, Message: "is required"}
	}
	if r.InstructorEmail != "" && !common.EmailPattern.MatchString(r.InstructorEmail) {
		return &common.ValidationError{Field: "instructor_email", Value: r.InstructorEmail, Message: "must be a valid email address"}
	}
	if len(r.GradingScheme) > 0 {
		var sum float64
		for _, pct := range r.GradingScheme {
			sum += pct
		}
		if sum != 100 {
			return &common.ValidationError{Field: "grading_scheme", Value: sum, Message: "percentages must sum to 100"}
		}
	}
	return nil
}

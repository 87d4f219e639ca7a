package syllabus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_Roundtrip(t *testing.T) {
	rec := validRecord()
	rec.Textbooks = []string{"Clean Code"}
	rec.GradingScheme = map[string]float64{"Exams": 50, "Homework": 50}
	rec.ImportantDates = map[string]time.Time{
		"Midterm Exam": time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	got, err := FromJSON(b)
	require.NoError(t, err)

	assert.Equal(t, rec.CourseCode, got.CourseCode)
	assert.Equal(t, rec.CourseName, got.CourseName)
	assert.Equal(t, rec.InstructorName, got.InstructorName)
	assert.Equal(t, rec.Textbooks, got.Textbooks)
	assert.Equal(t, rec.GradingScheme, got.GradingScheme)
	require.Len(t, got.ImportantDates, 1)
	assert.True(t, rec.ImportantDates["Midterm Exam"].Equal(got.ImportantDates["Midterm Exam"]))
}

func TestFromJSON_RejectsUnknownFields(t *testing.T) {
	data := []byte(`{
		"course_code": "CS 101",
		"course_name": "Introduction to Programming",
		"instructor_name": "Dr. Jane Doe",
		"year": 2025,
		"gpa_boost": true
	}`)

	_, err := FromJSON(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestFromJSON_RejectsMissingRequired(t *testing.T) {
	data := []byte(`{
		"course_code": "CS 101",
		"instructor_name": "Dr. Jane Doe",
		"year": 2025
	}`)

	_, err := FromJSON(data)
	assert.Error(t, err)
}

func TestFromJSON_RejectsMalformedCourseCode(t *testing.T) {
	data := []byte(`{
		"course_code": "cs101",
		"course_name": "Introduction to Programming",
		"instructor_name": "Dr. Jane Doe",
		"year": 2025
	}`)

	_, err := FromJSON(data)
	assert.Error(t, err)
}

func TestFromJSON_RejectsInvalidJSON(t *testing.T) {
	_, err := FromJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFromJSON_RunsRecordValidation(t *testing.T) {
	// The schema alone cannot see a grading sum, so the record rules run too.
	data := []byte(`{
		"course_code": "CS 101",
		"course_name": "Introduction to Programming",
		"instructor_name": "Dr. Jane Doe",
		"year": 2025,
		"grading_scheme": {"Exams": 60, "Homework": 50}
	}`)

	_, err := FromJSON(data)
	assert.Error(t, err)
}

func TestValidateJSONAgainstSchema_Valid(t *testing.T) {
	schema := BuildRecordJSONSchema()
	data := []byte(`{
		"course_code": "MATH 2010",
		"course_name": "Linear Algebra",
		"instructor_name": "Emmy Noether",
		"year": 2025
	}`)

	assert.NoError(t, ValidateJSONAgainstSchema(schema, data))
}

func TestValidateJSONAgainstSchema_WrongType(t *testing.T) {
	schema := BuildRecordJSONSchema()
	data := []byte(`{
		"course_code": "MATH 2010",
		"course_name": "Linear Algebra",
		"instructor_name": "Emmy Noether",
		"year": "2025"
	}`)

	assert.Error(t, ValidateJSONAgainstSchema(schema, data))
}

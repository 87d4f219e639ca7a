package parse

import (
	"strconv"
	"strings"

	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// Parser turns a text blob into a provisional syllabus record by applying
// a fixed set of field patterns. Parsing never fails: unresolved fields
// stay empty and are judged later by validation.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse applies every field pattern to the text. First match wins for
// scalar fields; textbooks, grading entries and dated lines accumulate
// all matches in document order.
func (p *Parser) Parse(text string) *syllabus.Record {
	rec := syllabus.NewRecord()

	if m := reCourseCode.FindStringSubmatch(text); m != nil {
		rec.CourseCode = strings.TrimSpace(m[1])
	}
	if m := reCourseName.FindStringSubmatch(text); m != nil {
		rec.CourseName = strings.TrimSpace(m[1])
	}
	if m := reInstructor.FindStringSubmatch(text); m != nil {
		rec.InstructorName = strings.TrimSpace(m[1])
	}
	if m := reEmail.FindString(text); m != "" {
		rec.InstructorEmail = m
	}
	if m := reOfficeHours.FindStringSubmatch(text); m != nil {
		rec.OfficeHours = strings.TrimSpace(m[1])
	}
	for _, m := range reTextbook.FindAllStringSubmatch(text, -1) {
		rec.Textbooks = append(rec.Textbooks, strings.TrimSpace(m[1]))
	}
	for _, m := range reGrading.FindAllStringSubmatch(text, -1) {
		pct, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		rec.GradingScheme[strings.TrimSpace(m[2])] = pct
	}

	p.resolveSemester(rec, text)
	p.resolveDates(rec, text)

	return rec
}

func (p *Parser) resolveSemester(rec *syllabus.Record, text string) {
	m := reSemester.FindStringSubmatch(text)
	if m == nil {
		return
	}
	raw := strings.TrimSpace(m[1])
	rec.Semester = raw

	// A lowercased term name fails the case-sensitive split: the raw
	// capture is kept and the year stays at its default.
	if sp := reSemesterSplit.FindStringSubmatch(raw); sp != nil {
		rec.Semester = sp[1]
		if year, err := strconv.Atoi(sp[2]); err == nil {
			rec.Year = year
		}
	}
}

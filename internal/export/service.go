package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/coursefolio/syllabus-parser/internal/entity"
	"github.com/coursefolio/syllabus-parser/internal/repository"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// Service is a tiny façade over repositories that produces export artifacts
// for stored courses and parsed records.
type Service struct {
	courseRepo     repository.CourseRepository
	instructorRepo repository.InstructorRepository
	logger         *slog.Logger
}

func NewService(courseRepo repository.CourseRepository, instructorRepo repository.InstructorRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{courseRepo: courseRepo, instructorRepo: instructorRepo, logger: logger}
}

// ExportCoursesXLSX returns an XLSX workbook (as bytes) for the stored
// courses. When semester and year are both set, only that term is exported.
func (s *Service) ExportCoursesXLSX(ctx context.Context, semester string, year int) ([]byte, error) {
	start := time.Now()

	var (
		courses []*entity.Course
		err     error
	)
	if semester != "" && year != 0 {
		courses, err = s.courseRepo.ListBySemester(ctx, semester, year)
	} else {
		courses, err = s.courseRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Courses"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Course Code",
		"Course Name",
		"Semester",
		"Year",
		"Instructor",
		"Email",
		"Office Hours",
		"Description",
		"Textbooks",
		"Grading Scheme",
		"Important Dates",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	// Instructors repeat across courses, resolve each one once.
	instructors := make(map[uuid.UUID]*entity.Instructor)

	row := 2
	for _, c := range courses {
		instructorName, instructorEmail, officeHours := "", "", ""
		inst, ok := instructors[c.InstructorID]
		if !ok {
			inst, err = s.instructorRepo.GetByID(ctx, c.InstructorID)
			if err != nil {
				inst = nil
			}
			instructors[c.InstructorID] = inst
		}
		if inst != nil {
			instructorName = inst.FullName()
			if inst.Email != nil {
				instructorEmail = *inst.Email
			}
			if inst.OfficeHours != nil {
				officeHours = *inst.OfficeHours
			}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.Code)
		write(2, c.Name)
		write(3, c.Semester)
		write(4, c.Year)
		write(5, instructorName)
		write(6, instructorEmail)
		write(7, officeHours)

		description := ""
		if c.Description != nil {
			description = *c.Description
		}
		write(8, truncate(description, 140))

		write(9, strings.Join(c.Textbooks, "; "))
		write(10, formatGradingScheme(c.GradingScheme))
		write(11, formatImportantDates(c.ImportantDates))

		sourcePath := ""
		if c.SourcePath != nil {
			sourcePath = *c.SourcePath
		}
		write(12, sourcePath)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // code
	_ = f.SetColWidth(sheet, "B", "B", 32) // name
	_ = f.SetColWidth(sheet, "C", "D", 10) // term
	_ = f.SetColWidth(sheet, "E", "E", 24) // instructor
	_ = f.SetColWidth(sheet, "F", "F", 28) // email
	_ = f.SetColWidth(sheet, "G", "G", 20) // office hours
	_ = f.SetColWidth(sheet, "H", "H", 48) // description
	_ = f.SetColWidth(sheet, "I", "J", 36) // textbooks, grading
	_ = f.SetColWidth(sheet, "K", "K", 40) // dates
	_ = f.SetColWidth(sheet, "L", "L", 60) // path

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(courses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportRecordJSON renders a parsed record as indented JSON, checking it
// against the record schema so malformed exports never reach disk.
func (s *Service) ExportRecordJSON(rec *syllabus.Record) ([]byte, error) {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := syllabus.ValidateJSONAgainstSchema(syllabus.BuildRecordJSONSchema(), b); err != nil {
		return nil, err
	}
	return b, nil
}

// formatGradingScheme renders components in name order so repeated exports
// of the same course are byte-identical.
func formatGradingScheme(scheme map[string]float64) string {
	if len(scheme) == 0 {
		return ""
	}
	names := make([]string, 0, len(scheme))
	for name := range scheme {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %g%%", name, scheme[name]))
	}
	return strings.Join(parts, "; ")
}

func formatImportantDates(dates map[string]time.Time) string {
	if len(dates) == 0 {
		return ""
	}
	names := make([]string, 0, len(dates))
	for name := range dates {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, dates[name].Format("2006-01-02")))
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

package courses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/entity"
	"github.com/coursefolio/syllabus-parser/internal/extract"
	"github.com/coursefolio/syllabus-parser/internal/repository"
	"github.com/coursefolio/syllabus-parser/internal/syllabus"
)

// Service turns parsed syllabus records into persisted courses.
type Service struct {
	courseRepo     repository.CourseRepository
	instructorRepo repository.InstructorRepository
	importLogRepo  repository.ImportLogRepository
	logger         *slog.Logger
}

// NewService creates a new course import service.
func NewService(
	courseRepo repository.CourseRepository,
	instructorRepo repository.InstructorRepository,
	importLogRepo repository.ImportLogRepository,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		courseRepo:     courseRepo,
		instructorRepo: instructorRepo,
		importLogRepo:  importLogRepo,
		logger:         logger,
	}
}

// ImportResult reports what an import did. Warnings carry conditions the
// import tolerated rather than failed on.
type ImportResult struct {
	CourseID     uuid.UUID
	InstructorID uuid.UUID
	Created      bool
	LogEntryID   uuid.UUID
	Warnings     []string
}

// ImportRecord persists one parsed record: the instructor is matched by
// email and updated in place, the course is upserted on its code, semester
// and year, and the outcome lands in the import log. sourcePath may be
// empty for records that did not come from a file.
func (s *Service) ImportRecord(ctx context.Context, rec *syllabus.Record, sourcePath string) (*ImportResult, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	var warnings []string
	fingerprint := ""
	if sourcePath != "" {
		fp, err := extract.Fingerprint(sourcePath)
		if err != nil {
			s.logger.Warn("import.fingerprint.failed", "path", sourcePath, "error", err)
			warnings = append(warnings, fmt.Sprintf("could not fingerprint %s: %v", sourcePath, err))
		} else {
			fingerprint = fp
		}
	}
	if rec.InstructorEmail == "" {
		warnings = append(warnings, "record has no instructor email, instructor cannot be deduplicated")
	}

	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return nil, common.NewAppError("INTERNAL_ERROR", "failed to encode record", err)
	}

	entry := &entity.ImportLogEntry{
		SourcePath:  sourcePath,
		Fingerprint: fingerprint,
		Status:      constants.ImportStatusParsed,
		RecordJSON:  recordJSON,
	}
	if err := s.importLogRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	instructor, err := s.upsertInstructor(ctx, rec)
	if err != nil {
		s.failImport(ctx, entry.ID, err)
		return nil, err
	}

	course := s.buildCourse(rec, instructor.ID, sourcePath, fingerprint)
	created, err := s.courseRepo.Upsert(ctx, course)
	if err != nil {
		s.failImport(ctx, entry.ID, err)
		return nil, err
	}

	if err := s.importLogRepo.Finish(ctx, entry.ID, constants.ImportStatusImported, &course.ID, nil); err != nil {
		return nil, err
	}

	s.logger.Info("course imported successfully",
		"course_id", course.ID,
		"code", course.Code,
		"semester", course.Semester,
		"year", course.Year,
		"created", created,
	)
	return &ImportResult{
		CourseID:     course.ID,
		InstructorID: instructor.ID,
		Created:      created,
		LogEntryID:   entry.ID,
		Warnings:     warnings,
	}, nil
}

// RecordFailure logs a file that could not be parsed or validated.
func (s *Service) RecordFailure(ctx context.Context, sourcePath string, cause error) error {
	fingerprint := ""
	if sourcePath != "" {
		if fp, err := extract.Fingerprint(sourcePath); err == nil {
			fingerprint = fp
		}
	}

	msg := cause.Error()
	now := entity.ImportLogEntry{
		SourcePath:   sourcePath,
		Fingerprint:  fingerprint,
		Status:       constants.ImportStatusFailed,
		ErrorMessage: &msg,
	}
	return s.importLogRepo.Create(ctx, &now)
}

// GetCourse fetches a course by its string-form ID.
func (s *Service) GetCourse(ctx context.Context, id string) (*entity.Course, error) {
	v := common.NewValidator()
	v.Field("course_id", id, common.Required, common.UUID)
	if err := v.Error(); err != nil {
		return nil, common.NewAppError("INVALID_INPUT", "invalid course id", err)
	}
	return s.courseRepo.GetByID(ctx, uuid.MustParse(id))
}

// GetCourseByCode fetches the most recent offering of a course code.
func (s *Service) GetCourseByCode(ctx context.Context, code string) (*entity.Course, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, common.ErrInvalidInput
	}
	return s.courseRepo.GetByCode(ctx, code)
}

// ListCourses returns all stored courses, newest offering first.
func (s *Service) ListCourses(ctx context.Context) ([]*entity.Course, error) {
	return s.courseRepo.List(ctx)
}

// ListInstructors returns all stored instructors ordered by name.
func (s *Service) ListInstructors(ctx context.Context) ([]*entity.Instructor, error) {
	return s.instructorRepo.List(ctx)
}

// upsertInstructor matches an existing instructor by email and refreshes
// their details, or creates a new row. Records without an email always
// create a new instructor since there is no key to match on.
func (s *Service) upsertInstructor(ctx context.Context, rec *syllabus.Record) (*entity.Instructor, error) {
	first, last := splitName(rec.InstructorName)

	var email *string
	if rec.InstructorEmail != "" {
		email = &rec.InstructorEmail
	}
	var officeHours *string
	if rec.OfficeHours != "" {
		officeHours = &rec.OfficeHours
	}

	if email != nil {
		existing, err := s.instructorRepo.GetByEmail(ctx, *email)
		if err == nil {
			existing.FirstName = first
			existing.LastName = last
			if officeHours != nil {
				existing.OfficeHours = officeHours
			}
			if err := s.instructorRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	instructor := &entity.Instructor{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		OfficeHours: officeHours,
	}
	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return nil, err
	}
	s.logger.Info("instructor created", "instructor_id", instructor.ID, "email", rec.InstructorEmail)
	return instructor, nil
}

func (s *Service) buildCourse(rec *syllabus.Record, instructorID uuid.UUID, sourcePath, fingerprint string) *entity.Course {
	semester := rec.Semester
	if canonical, ok := constants.CanonicalizeSemester(rec.Semester); ok {
		semester = string(canonical)
	}

	var description *string
	if rec.CourseDescription != "" {
		description = &rec.CourseDescription
	}
	var path *string
	if sourcePath != "" {
		path = &sourcePath
	}
	var fp *string
	if fingerprint != "" {
		fp = &fingerprint
	}

	return &entity.Course{
		Code:              rec.CourseCode,
		Name:              rec.CourseName,
		Semester:          semester,
		Year:              rec.Year,
		Description:       description,
		InstructorID:      instructorID,
		Textbooks:         rec.Textbooks,
		GradingScheme:     rec.GradingScheme,
		ImportantDates:    rec.ImportantDates,
		SourcePath:        path,
		SourceFingerprint: fp,
	}
}

func (s *Service) failImport(ctx context.Context, entryID uuid.UUID, cause error) {
	msg := cause.Error()
	if err := s.importLogRepo.Finish(ctx, entryID, constants.ImportStatusFailed, nil, &msg); err != nil {
		s.logger.Error("failed to mark import as failed", "entry_id", entryID, "error", err)
	}
}

// splitName separates the leading word from the rest, so a full name keeps
// any honorific with the first name.
func splitName(full string) (string, string) {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

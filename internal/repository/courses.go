package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/entity"
)

type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Course, error)
	// GetByKey looks a course up by its natural key.
	GetByKey(ctx context.Context, code, semester string, year int) (*entity.Course, error)
	// GetByCode returns the most recently offered course with the given code.
	GetByCode(ctx context.Context, code string) (*entity.Course, error)
	// Upsert inserts the course or, when one exists for the same natural key,
	// updates it in place. Reports whether a new row was created.
	Upsert(ctx context.Context, course *entity.Course) (bool, error)
	List(ctx context.Context) ([]*entity.Course, error)
	ListBySemester(ctx context.Context, semester string, year int) ([]*entity.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type courseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewCourseRepository(db *sql.DB, logger *slog.Logger) CourseRepository {
	return &courseRepository{
		db:     db,
		logger: logger,
	}
}

const courseColumns = `id, code, name, semester, year, description, instructor_id,
	textbooks, grading_scheme, important_dates, source_path, source_fingerprint,
	created_at, updated_at`

func (r *courseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return scanCourse(row)
}

func (r *courseRepository) GetByKey(ctx context.Context, code, semester string, year int) (*entity.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE code = ? AND semester = ? AND year = ?`,
		code, semester, year)
	return scanCourse(row)
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*entity.Course, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE code = ? ORDER BY year DESC, updated_at DESC LIMIT 1`,
		code)
	return scanCourse(row)
}

func (r *courseRepository) Upsert(ctx context.Context, course *entity.Course) (bool, error) {
	existing, err := r.GetByKey(ctx, course.Code, course.Semester, course.Year)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return false, err
	}

	textbooks, gradingScheme, importantDates, err := marshalCourseJSON(course)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	course.UpdatedAt = now

	if existing != nil {
		course.ID = existing.ID
		course.CreatedAt = existing.CreatedAt
		_, err = r.db.ExecContext(ctx, `
			UPDATE courses
			SET name = ?, description = ?, instructor_id = ?,
				textbooks = ?, grading_scheme = ?, important_dates = ?,
				source_path = ?, source_fingerprint = ?, updated_at = ?
			WHERE id = ?
		`, course.Name, nullString(course.Description), course.InstructorID,
			textbooks, gradingScheme, importantDates,
			nullString(course.SourcePath), nullString(course.SourceFingerprint),
			course.UpdatedAt, course.ID)
		if err != nil {
			r.logger.Error("failed to update course", "code", course.Code, "error", err)
			return false, fmt.Errorf("updating course: %w", err)
		}
		return false, nil
	}

	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	course.CreatedAt = now
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO courses (id, code, name, semester, year, description, instructor_id,
			textbooks, grading_scheme, important_dates, source_path, source_fingerprint,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, course.ID, course.Code, course.Name, course.Semester, course.Year,
		nullString(course.Description), course.InstructorID,
		textbooks, gradingScheme, importantDates,
		nullString(course.SourcePath), nullString(course.SourceFingerprint),
		course.CreatedAt, course.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create course", "code", course.Code, "error", err)
		return false, fmt.Errorf("creating course: %w", err)
	}
	return true, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*entity.Course, error) {
	return r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY year DESC, semester, code`)
}

func (r *courseRepository) ListBySemester(ctx context.Context, semester string, year int) ([]*entity.Course, error) {
	return r.queryCourses(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE semester = ? AND year = ? ORDER BY code`,
		semester, year)
}

func (r *courseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete course", "course_id", id, "error", err)
		return fmt.Errorf("deleting course: %w", err)
	}
	return nil
}

func (r *courseRepository) queryCourses(ctx context.Context, query string, args ...any) ([]*entity.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list courses", "error", err)
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var courses []*entity.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating courses: %w", err)
	}
	return courses, nil
}

func scanCourse(sc interface{ Scan(dest ...any) error }) (*entity.Course, error) {
	var course entity.Course
	var description, textbooks, gradingScheme, importantDates sql.NullString
	var sourcePath, sourceFingerprint sql.NullString
	if err := sc.Scan(&course.ID, &course.Code, &course.Name, &course.Semester, &course.Year,
		&description, &course.InstructorID,
		&textbooks, &gradingScheme, &importantDates,
		&sourcePath, &sourceFingerprint,
		&course.CreatedAt, &course.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}

	course.Description = stringPtr(description)
	course.SourcePath = stringPtr(sourcePath)
	course.SourceFingerprint = stringPtr(sourceFingerprint)

	if textbooks.Valid {
		if err := json.Unmarshal([]byte(textbooks.String), &course.Textbooks); err != nil {
			return nil, fmt.Errorf("unmarshaling textbooks: %w", err)
		}
	}
	if gradingScheme.Valid {
		if err := json.Unmarshal([]byte(gradingScheme.String), &course.GradingScheme); err != nil {
			return nil, fmt.Errorf("unmarshaling grading scheme: %w", err)
		}
	}
	if importantDates.Valid {
		if err := json.Unmarshal([]byte(importantDates.String), &course.ImportantDates); err != nil {
			return nil, fmt.Errorf("unmarshaling important dates: %w", err)
		}
	}
	return &course, nil
}

// marshalCourseJSON encodes the collection-valued columns, mapping empty
// collections onto SQL NULL.
func marshalCourseJSON(course *entity.Course) (sql.NullString, sql.NullString, sql.NullString, error) {
	var textbooks, gradingScheme, importantDates sql.NullString

	if len(course.Textbooks) > 0 {
		b, err := json.Marshal(course.Textbooks)
		if err != nil {
			return textbooks, gradingScheme, importantDates, fmt.Errorf("marshaling textbooks: %w", err)
		}
		textbooks = sql.NullString{String: string(b), Valid: true}
	}
	if len(course.GradingScheme) > 0 {
		b, err := json.Marshal(course.GradingScheme)
		if err != nil {
			return textbooks, gradingScheme, importantDates, fmt.Errorf("marshaling grading scheme: %w", err)
		}
		gradingScheme = sql.NullString{String: string(b), Valid: true}
	}
	if len(course.ImportantDates) > 0 {
		b, err := json.Marshal(course.ImportantDates)
		if err != nil {
			return textbooks, gradingScheme, importantDates, fmt.Errorf("marshaling important dates: %w", err)
		}
		importantDates = sql.NullString{String: string(b), Valid: true}
	}
	return textbooks, gradingScheme, importantDates, nil
}

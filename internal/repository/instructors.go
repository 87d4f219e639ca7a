package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/entity"
)

type InstructorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error)
	GetByEmail(ctx context.Context, email string) (*entity.Instructor, error)
	Create(ctx context.Context, instructor *entity.Instructor) error
	Update(ctx context.Context, instructor *entity.Instructor) error
	List(ctx context.Context) ([]*entity.Instructor, error)
}

type instructorRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewInstructorRepository(db *sql.DB, logger *slog.Logger) InstructorRepository {
	return &instructorRepository{
		db:     db,
		logger: logger,
	}
}

const instructorColumns = `id, first_name, last_name, email, office_hours, created_at, updated_at`

func (r *instructorRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Instructor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE id = ?`, id)
	return scanInstructor(row)
}

func (r *instructorRepository) GetByEmail(ctx context.Context, email string) (*entity.Instructor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+instructorColumns+` FROM instructors WHERE email = ?`, email)
	return scanInstructor(row)
}

func (r *instructorRepository) Create(ctx context.Context, instructor *entity.Instructor) error {
	if instructor.ID == uuid.Nil {
		instructor.ID = uuid.New()
	}
	now := time.Now().UTC()
	instructor.CreatedAt = now
	instructor.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO instructors (id, first_name, last_name, email, office_hours, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, instructor.ID, instructor.FirstName, instructor.LastName,
		nullString(instructor.Email), nullString(instructor.OfficeHours),
		instructor.CreatedAt, instructor.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create instructor", "email", stringOrEmpty(instructor.Email), "error", err)
		return fmt.Errorf("creating instructor: %w", err)
	}
	return nil
}

func (r *instructorRepository) Update(ctx context.Context, instructor *entity.Instructor) error {
	instructor.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		UPDATE instructors
		SET first_name = ?, last_name = ?, email = ?, office_hours = ?, updated_at = ?
		WHERE id = ?
	`, instructor.FirstName, instructor.LastName,
		nullString(instructor.Email), nullString(instructor.OfficeHours),
		instructor.UpdatedAt, instructor.ID)
	if err != nil {
		r.logger.Error("failed to update instructor", "instructor_id", instructor.ID, "error", err)
		return fmt.Errorf("updating instructor: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating instructor: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *instructorRepository) List(ctx context.Context) ([]*entity.Instructor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+instructorColumns+` FROM instructors ORDER BY last_name, first_name`)
	if err != nil {
		r.logger.Error("failed to list instructors", "error", err)
		return nil, fmt.Errorf("querying instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*entity.Instructor
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, err
		}
		instructors = append(instructors, instructor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating instructors: %w", err)
	}
	return instructors, nil
}

func scanInstructor(sc interface{ Scan(dest ...any) error }) (*entity.Instructor, error) {
	var instructor entity.Instructor
	var email, officeHours sql.NullString
	if err := sc.Scan(&instructor.ID, &instructor.FirstName, &instructor.LastName,
		&email, &officeHours, &instructor.CreatedAt, &instructor.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("scanning instructor: %w", err)
	}
	instructor.Email = stringPtr(email)
	instructor.OfficeHours = stringPtr(officeHours)
	return &instructor, nil
}

// nullString maps a nil or empty optional onto SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

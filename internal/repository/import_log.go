package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/entity"
)

type ImportLogRepository interface {
	Create(ctx context.Context, entry *entity.ImportLogEntry) error
	// Finish closes the entry with a terminal status. The course ID and error
	// message may be nil depending on the outcome.
	Finish(ctx context.Context, id uuid.UUID, status constants.ImportStatus, courseID *uuid.UUID, errorMessage *string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ImportLogEntry, error)
	ListByStatus(ctx context.Context, status constants.ImportStatus) ([]*entity.ImportLogEntry, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.ImportLogEntry, error)
}

type importLogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewImportLogRepository(db *sql.DB, logger *slog.Logger) ImportLogRepository {
	return &importLogRepository{
		db:     db,
		logger: logger,
	}
}

const importLogColumns = `id, source_path, fingerprint, status, course_id, error_message, record_json, started_at, finished_at`

func (r *importLogRepository) Create(ctx context.Context, entry *entity.ImportLogEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now().UTC()
	}

	var recordJSON sql.NullString
	if len(entry.RecordJSON) > 0 {
		recordJSON = sql.NullString{String: string(entry.RecordJSON), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_log (id, source_path, fingerprint, status, course_id, error_message, record_json, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.SourcePath, entry.Fingerprint, string(entry.Status),
		nullUUID(entry.CourseID), nullString(entry.ErrorMessage), recordJSON,
		entry.StartedAt, nullTime(entry.FinishedAt))
	if err != nil {
		r.logger.Error("failed to create import log entry", "source_path", entry.SourcePath, "error", err)
		return fmt.Errorf("creating import log entry: %w", err)
	}
	return nil
}

func (r *importLogRepository) Finish(ctx context.Context, id uuid.UUID, status constants.ImportStatus, courseID *uuid.UUID, errorMessage *string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE import_log
		SET status = ?, course_id = ?, error_message = ?, finished_at = ?
		WHERE id = ?
	`, string(status), nullUUID(courseID), nullString(errorMessage), now, id)
	if err != nil {
		r.logger.Error("failed to finish import log entry", "entry_id", id, "error", err)
		return fmt.Errorf("finishing import log entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing import log entry: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *importLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ImportLogEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+importLogColumns+` FROM import_log WHERE id = ?`, id)
	return scanImportLogEntry(row)
}

func (r *importLogRepository) ListByStatus(ctx context.Context, status constants.ImportStatus) ([]*entity.ImportLogEntry, error) {
	return r.queryEntries(ctx,
		`SELECT `+importLogColumns+` FROM import_log WHERE status = ? ORDER BY started_at DESC`,
		string(status))
}

func (r *importLogRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.queryEntries(ctx,
		`SELECT `+importLogColumns+` FROM import_log ORDER BY started_at DESC LIMIT ?`, limit)
}

func (r *importLogRepository) queryEntries(ctx context.Context, query string, args ...any) ([]*entity.ImportLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list import log entries", "error", err)
		return nil, fmt.Errorf("querying import log: %w", err)
	}
	defer rows.Close()

	var entries []*entity.ImportLogEntry
	for rows.Next() {
		entry, err := scanImportLogEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating import log: %w", err)
	}
	return entries, nil
}

func scanImportLogEntry(sc interface{ Scan(dest ...any) error }) (*entity.ImportLogEntry, error) {
	var entry entity.ImportLogEntry
	var status string
	var courseID, errorMessage, recordJSON sql.NullString
	var finishedAt sql.NullTime
	if err := sc.Scan(&entry.ID, &entry.SourcePath, &entry.Fingerprint, &status,
		&courseID, &errorMessage, &recordJSON, &entry.StartedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("scanning import log entry: %w", err)
	}

	entry.Status = constants.ImportStatus(status)
	entry.ErrorMessage = stringPtr(errorMessage)
	if recordJSON.Valid {
		entry.RecordJSON = []byte(recordJSON.String)
	}
	if courseID.Valid {
		id, err := uuid.Parse(courseID.String)
		if err != nil {
			return nil, fmt.Errorf("parsing course id: %w", err)
		}
		entry.CourseID = &id
	}
	if finishedAt.Valid {
		entry.FinishedAt = &finishedAt.Time
	}
	return &entry, nil
}

func nullUUID(id *uuid.UUID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursefolio/syllabus-parser/constants"
	"github.com/coursefolio/syllabus-parser/internal/common"
	"github.com/coursefolio/syllabus-parser/internal/entity"
)

func TestImportLogRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImportLogRepository(db, testLogger())
	ctx := context.Background()

	entry := &entity.ImportLogEntry{
		SourcePath:  "/drop/cs101.pdf",
		Fingerprint: "abc123",
		Status:      constants.ImportStatusParsed,
		RecordJSON:  json.RawMessage(`{"course_code":"CS 101"}`),
	}
	require.NoError(t, repo.Create(ctx, entry))
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.False(t, entry.StartedAt.IsZero())

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "/drop/cs101.pdf", got.SourcePath)
	assert.Equal(t, "abc123", got.Fingerprint)
	assert.Equal(t, constants.ImportStatusParsed, got.Status)
	assert.JSONEq(t, `{"course_code":"CS 101"}`, string(got.RecordJSON))
	assert.Nil(t, got.CourseID)
	assert.Nil(t, got.FinishedAt)
	assert.Nil(t, got.ErrorMessage)
}

func TestImportLogRepository_FinishImported(t *testing.T) {
	db := setupTestDB(t)
	logRepo := NewImportLogRepository(db, testLogger())
	courseRepo := NewCourseRepository(db, testLogger())
	ctx := context.Background()
	instructor := seedInstructor(t, db)

	course := testCourse(instructor.ID)
	_, err := courseRepo.Upsert(ctx, course)
	require.NoError(t, err)

	entry := &entity.ImportLogEntry{
		SourcePath:  "/drop/cs101.pdf",
		Fingerprint: "abc123",
		Status:      constants.ImportStatusParsed,
	}
	require.NoError(t, logRepo.Create(ctx, entry))

	require.NoError(t, logRepo.Finish(ctx, entry.ID, constants.ImportStatusImported, &course.ID, nil))

	got, err := logRepo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusImported, got.Status)
	require.NotNil(t, got.CourseID)
	assert.Equal(t, course.ID, *got.CourseID)
	require.NotNil(t, got.FinishedAt)
	assert.WithinDuration(t, time.Now(), *got.FinishedAt, 5*time.Second)
	assert.Nil(t, got.ErrorMessage)
}

func TestImportLogRepository_FinishFailed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImportLogRepository(db, testLogger())
	ctx := context.Background()

	entry := &entity.ImportLogEntry{
		SourcePath:  "/drop/broken.pdf",
		Fingerprint: "def456",
		Status:      constants.ImportStatusParsed,
	}
	require.NoError(t, repo.Create(ctx, entry))

	msg := "extraction failed for /drop/broken.pdf: corrupt stream"
	require.NoError(t, repo.Finish(ctx, entry.ID, constants.ImportStatusFailed, nil, &msg))

	got, err := repo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ImportStatusFailed, got.Status)
	assert.Nil(t, got.CourseID)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, msg, *got.ErrorMessage)
}

func TestImportLogRepository_FinishMissingEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImportLogRepository(db, testLogger())

	err := repo.Finish(context.Background(), uuid.New(), constants.ImportStatusImported, nil, nil)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestImportLogRepository_ListByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImportLogRepository(db, testLogger())
	ctx := context.Background()

	for i, status := range []constants.ImportStatus{
		constants.ImportStatusParsed,
		constants.ImportStatusFailed,
		constants.ImportStatusFailed,
	} {
		entry := &entity.ImportLogEntry{
			SourcePath:  "/drop/file.pdf",
			Fingerprint: "fp",
			Status:      status,
			StartedAt:   time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	failed, err := repo.ListByStatus(ctx, constants.ImportStatusFailed)
	require.NoError(t, err)
	assert.Len(t, failed, 2)

	parsed, err := repo.ListByStatus(ctx, constants.ImportStatusParsed)
	require.NoError(t, err)
	assert.Len(t, parsed, 1)

	imported, err := repo.ListByStatus(ctx, constants.ImportStatusImported)
	require.NoError(t, err)
	assert.Empty(t, imported)
}

func TestImportLogRepository_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewImportLogRepository(db, testLogger())
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := &entity.ImportLogEntry{
			SourcePath:  "/drop/file.pdf",
			Fingerprint: "fp",
			Status:      constants.ImportStatusImported,
			StartedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	recent, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first.
	assert.True(t, recent[0].StartedAt.After(recent[1].StartedAt))
	assert.True(t, recent[1].StartedAt.After(recent[2].StartedAt))
}

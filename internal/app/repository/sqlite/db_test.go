package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-offline/internal/app/errors"
)

func newMock(t *testing.T) (*SQLiteDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(db), mock
}

func TestInitSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, InitSchema(db))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").WillReturnError(errors.New("disk full"))
	err = InitSchema(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create table")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRun_InsertError(t *testing.T) {
	sdb, mock := newMock(t)

	mock.ExpectExec("INSERT INTO runs").WillReturnError(errors.New("database is locked"))

	_, err := sdb.RecordRun(context.Background(), sampleRun(1, time.Now()))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInsertFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRuns_QueryError(t *testing.T) {
	sdb, mock := newMock(t)

	mock.ExpectQuery("SELECT .* FROM runs ORDER BY finished_at DESC").
		WithArgs(5).
		WillReturnError(sql.ErrConnDone)

	_, err := sdb.ListRuns(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrQueryFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRuns_ScanError(t *testing.T) {
	sdb, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1)
	mock.ExpectQuery("SELECT .* FROM runs").WillReturnRows(rows)

	_, err := sdb.ListRuns(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrScanFailed))
}

func TestListRuns_Rows(t *testing.T) {
	sdb, mock := newMock(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "run_id", "model_path", "input_path", "transcriber_path", "stage",
		"failed_stage", "status", "transcript", "output_path", "started_at", "finished_at",
	}).AddRow(3, "r3", "m.bin", "clip.mp4", "/bin/true", "cancelled", "transcribing",
		"cancelled during transcription", "", "", now, now)
	mock.ExpectQuery("SELECT .* FROM runs").WillReturnRows(rows)

	runs, err := sdb.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r3", runs[0].RunID)
	assert.EqualValues(t, "cancelled", runs[0].Stage)
	assert.EqualValues(t, "transcribing", runs[0].FailedStage)
}

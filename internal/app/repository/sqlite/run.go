package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/model"
)

// SQLiteDB stores run history in a sqlite database.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the database file and makes sure the schema exists.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	db, err := Open(dbFilePath)
	if err != nil {
		return nil, err
	}
	return &SQLiteDB{db: db}, nil
}

// NewFromDB wraps an existing connection, e.g. a sqlmock.
func NewFromDB(db *sql.DB) *SQLiteDB {
	return &SQLiteDB{db: db}
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) RecordRun(ctx context.Context, run model.RunRecord) (int64, error) {
	insertSQL := `INSERT INTO runs (run_id, model_path, input_path, transcriber_path, stage, failed_stage, status, transcript, output_path, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	res, err := sdb.db.ExecContext(ctx, insertSQL,
		run.RunID, run.ModelPath, run.InputPath, run.TranscriberPath,
		string(run.Stage), string(run.FailedStage), run.Status, run.Transcript, run.OutputPath,
		run.StartedAt.UTC(), run.FinishedAt.UTC())
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrInsertFailed.Error())
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrInsertFailed.Error())
	}
	return id, nil
}

const selectColumns = `id, run_id, model_path, input_path, transcriber_path, stage, failed_stage, status, transcript, output_path, started_at, finished_at`

func (sdb *SQLiteDB) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	sqlStr := `SELECT ` + selectColumns + ` FROM runs ORDER BY finished_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		sqlStr += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := sdb.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrQueryFailed.Error())
	}
	defer rows.Close()

	runs := make([]model.RunRecord, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrQueryFailed.Error())
	}
	return runs, nil
}

func (sdb *SQLiteDB) GetRun(ctx context.Context, runID string) (*model.RunRecord, error) {
	row := sdb.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("run", runID)
		}
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.RunRecord, error) {
	var r model.RunRecord
	var stage, failedStage string
	err := s.Scan(&r.ID, &r.RunID, &r.ModelPath, &r.InputPath, &r.TranscriberPath,
		&stage, &failedStage, &r.Status, &r.Transcript, &r.OutputPath, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, apperrors.Wrap(err, apperrors.ErrScanFailed.Error())
	}
	r.Stage = model.Stage(stage)
	r.FailedStage = model.Stage(failedStage)
	return r, nil
}

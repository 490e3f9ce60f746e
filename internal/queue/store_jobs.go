package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// NewJob inserts a pending job for a discovered video file.
func (s *Store) NewJob(ctx context.Context, sourcePath, displayTitle, runID string) (*Job, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO jobs (
            run_id, source_path, display_title, status, created_at, updated_at,
            progress_stage, progress_percent, progress_message, final_bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(runID),
		nullableString(sourcePath),
		nullableString(displayTitle),
		StatusPending,
		timestamp,
		timestamp,
		nil,
		0.0,
		nil,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// LastCompletedForSource returns the most recent renamed job for a source
// path, or nil when the file has never been converted. The workflow uses it
// to decide whether a rediscovered video can be skipped without transcribing.
func (s *Store) LastCompletedForSource(ctx context.Context, sourcePath string) (*Job, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE source_path = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		sourcePath,
		StatusRenamed,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last completed for source: %w", err)
	}
	return job, nil
}

// Update persists changes to an existing job. UpdatedAt is stamped on every
// call; CompletedAt is stamped the first time the job reaches a terminal
// status.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	if job.Done() && job.CompletedAt == nil {
		completed := job.UpdatedAt
		job.CompletedAt = &completed
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE jobs
         SET run_id = ?, source_path = ?, display_title = ?, status = ?,
             temp_audio_path = ?, transcript_path = ?, transcript_preview = ?,
             detected_name = ?, pattern_id = ?, final_stem = ?, final_path = ?,
             final_bytes = ?, error_message = ?, progress_stage = ?,
             progress_percent = ?, progress_message = ?, updated_at = ?,
             completed_at = ?
         WHERE id = ?`,
		nullableString(job.RunID),
		nullableString(job.SourcePath),
		nullableString(job.DisplayTitle),
		job.Status,
		nullableString(job.TempAudioPath),
		nullableString(job.TranscriptPath),
		nullableString(job.TranscriptPreview),
		nullableString(job.DetectedName),
		nullableString(job.PatternID),
		nullableString(job.FinalStem),
		nullableString(job.FinalPath),
		job.FinalBytes,
		nullableString(job.ErrorMessage),
		nullableString(job.ProgressStage),
		job.ProgressPercent,
		nullableString(job.ProgressMessage),
		job.UpdatedAt.Format(time.RFC3339Nano),
		nullableTime(job.CompletedAt),
		job.ID,
	); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// List returns jobs filtered by status set (or all jobs when no status is
// provided), ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + jobColumns + ` FROM jobs`
	orderClause := ` ORDER BY created_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Remove deletes a job by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

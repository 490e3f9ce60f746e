package queue

import (
	"database/sql"
	"errors"
	"time"
)

const jobColumns = "id, run_id, source_path, display_title, status, temp_audio_path, transcript_path, transcript_preview, detected_name, pattern_id, final_stem, final_path, final_bytes, error_message, progress_stage, progress_percent, progress_message, created_at, updated_at, completed_at"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id              int64
		runID           sql.NullString
		sourcePath      sql.NullString
		displayTitle    sql.NullString
		statusStr       string
		tempAudioPath   sql.NullString
		transcriptPath  sql.NullString
		transcriptPrev  sql.NullString
		detectedName    sql.NullString
		patternID       sql.NullString
		finalStem       sql.NullString
		finalPath       sql.NullString
		finalBytes      sql.NullInt64
		errorMessage    sql.NullString
		progressStage   sql.NullString
		progressPercent sql.NullFloat64
		progressMessage sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
		completedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&sourcePath,
		&displayTitle,
		&statusStr,
		&tempAudioPath,
		&transcriptPath,
		&transcriptPrev,
		&detectedName,
		&patternID,
		&finalStem,
		&finalPath,
		&finalBytes,
		&errorMessage,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&createdRaw,
		&updatedRaw,
		&completedRaw,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:                id,
		RunID:             runID.String,
		SourcePath:        sourcePath.String,
		DisplayTitle:      displayTitle.String,
		Status:            Status(statusStr),
		TempAudioPath:     tempAudioPath.String,
		TranscriptPath:    transcriptPath.String,
		TranscriptPreview: transcriptPrev.String,
		DetectedName:      detectedName.String,
		PatternID:         patternID.String,
		FinalStem:         finalStem.String,
		FinalPath:         finalPath.String,
		FinalBytes:        finalBytes.Int64,
		ErrorMessage:      errorMessage.String,
		ProgressStage:     progressStage.String,
		ProgressPercent:   progressPercent.Float64,
		ProgressMessage:   progressMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			job.CompletedAt = &completed
		}
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	v := value.UTC().Format(time.RFC3339Nano)
	return v
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

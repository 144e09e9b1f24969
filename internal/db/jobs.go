package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Job status values.
const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Job is one processing run over a video or image source.
type Job struct {
	ID              string
	SourceFile      string
	Status          string
	Progress        float64 // percent, 0..100
	ProcessedFrames int
	TotalFrames     int
	DetectionsCount int
	ErrorMessage    string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// CreateJob inserts a pending job for a source file and returns it.
func (db *DB) CreateJob(sourceFile string) (*Job, error) {
	job := &Job{
		ID:         uuid.New().String(),
		SourceFile: sourceFile,
		Status:     JobPending,
	}
	_, err := db.Exec(`
		INSERT INTO jobs (id, source_file, status) VALUES (?, ?, ?)`,
		job.ID, job.SourceFile, job.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// StartJob marks a job as processing.
func (db *DB) StartJob(jobID string) error {
	_, err := db.Exec(`UPDATE jobs SET status = ? WHERE id = ?`, JobProcessing, jobID)
	if err != nil {
		return fmt.Errorf("start job: %w", err)
	}
	return nil
}

// UpdateJobProgress records frame progress for a running job. Progress is
// derived from the raw frame index, so it advances in stride-sized steps
// and may sit just short of 100 until the job completes.
func (db *DB) UpdateJobProgress(jobID string, processedFrames, totalFrames int) error {
	progress := 0.0
	if totalFrames > 0 {
		progress = float64(processedFrames) / float64(totalFrames) * 100
	}
	_, err := db.Exec(`
		UPDATE jobs SET processed_frames = ?, total_frames = ?, progress = ?
		WHERE id = ?`,
		processedFrames, totalFrames, progress, jobID,
	)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

// CompleteJob marks a job completed with its final detection count and
// forces progress to 100.
func (db *DB) CompleteJob(jobID string, detectionsCount int) error {
	_, err := db.Exec(`
		UPDATE jobs
		SET status = ?, progress = 100, detections_count = ?,
		    completed_at_unix = strftime('%s','now')
		WHERE id = ?`,
		JobCompleted, detectionsCount, jobID,
	)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// FailJob marks a job failed with an error message.
func (db *DB) FailJob(jobID, message string) error {
	_, err := db.Exec(`
		UPDATE jobs SET status = ?, error_message = ?,
		    completed_at_unix = strftime('%s','now')
		WHERE id = ?`,
		JobFailed, message, jobID,
	)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// GetJob returns one job by id.
func (db *DB) GetJob(jobID string) (*Job, error) {
	job := &Job{}
	var errMsg *string
	var createdAtUnix int64
	var completedAtUnix *int64
	err := db.QueryRow(`
		SELECT id, source_file, status, progress, processed_frames,
		       total_frames, detections_count, error_message,
		       created_at_unix, completed_at_unix
		FROM jobs WHERE id = ?`,
		jobID,
	).Scan(
		&job.ID, &job.SourceFile, &job.Status, &job.Progress,
		&job.ProcessedFrames, &job.TotalFrames, &job.DetectionsCount,
		&errMsg, &createdAtUnix, &completedAtUnix,
	)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	job.CreatedAt = time.Unix(createdAtUnix, 0)
	if completedAtUnix != nil {
		completed := time.Unix(*completedAtUnix, 0)
		job.CompletedAt = &completed
	}
	return job, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/harborview/backoffice-api/internal/models"
)

// ExportRepository manages persistence for export jobs.
type ExportRepository struct {
	db *sqlx.DB
}

// NewExportRepository constructs an ExportRepository.
func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

const exportColumns = "id, resource, format, status, file_path, error, requested_by, created_at, updated_at, completed_at"

// Create inserts a new export job in queued state.
func (r *ExportRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.ExportJobStatusQueued
	}

	const query = `INSERT INTO export_jobs (id, resource, format, status, file_path, error, requested_by, created_at, updated_at, completed_at)
		VALUES (:id, :resource, :format, :status, :file_path, :error, :requested_by, :created_at, :updated_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// FindByID fetches an export job by ID.
func (r *ExportRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	query := fmt.Sprintf("SELECT %s FROM export_jobs WHERE id = $1", exportColumns)
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing transitions a job to processing state.
func (r *ExportRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE export_jobs SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportJobStatusProcessing, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}
	return nil
}

// MarkDone records the generated file path and completion time.
func (r *ExportRepository) MarkDone(ctx context.Context, id, filePath string) error {
	now := time.Now().UTC()
	const query = `UPDATE export_jobs SET status = $2, file_path = $3, completed_at = $4, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportJobStatusDone, filePath, now); err != nil {
		return fmt.Errorf("mark export done: %w", err)
	}
	return nil
}

// MarkFailed records a terminal failure message.
func (r *ExportRepository) MarkFailed(ctx context.Context, id, message string) error {
	now := time.Now().UTC()
	const query = `UPDATE export_jobs SET status = $2, error = $3, completed_at = $4, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.ExportJobStatusFailed, message, now); err != nil {
		return fmt.Errorf("mark export failed: %w", err)
	}
	return nil
}

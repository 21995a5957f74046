package models

import "time"

// ExportJobStatus represents the lifecycle of a queued export.
type ExportJobStatus string

const (
	ExportJobStatusQueued     ExportJobStatus = "queued"
	ExportJobStatusProcessing ExportJobStatus = "processing"
	ExportJobStatusDone       ExportJobStatus = "done"
	ExportJobStatusFailed     ExportJobStatus = "failed"
)

// Export formats supported by the export worker.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportJob tracks an asynchronous CSV/PDF export request.
type ExportJob struct {
	ID          string          `db:"id" json:"id"`
	Resource    string          `db:"resource" json:"resource"`
	Format      string          `db:"format" json:"format"`
	Status      ExportJobStatus `db:"status" json:"status"`
	FilePath    *string         `db:"file_path" json:"file_path,omitempty"`
	Error       *string         `db:"error" json:"error,omitempty"`
	RequestedBy string          `db:"requested_by" json:"requested_by"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
	CompletedAt *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
}

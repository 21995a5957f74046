package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/export"
	"github.com/harborview/backoffice-api/pkg/jobs"
	"github.com/harborview/backoffice-api/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, message string) error
}

// DatasetProvider produces the tabular data exported for one resource.
type DatasetProvider func(ctx context.Context) (export.Dataset, error)

// ExportServiceConfig tunes the export worker pool.
type ExportServiceConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// ExportService queues and runs asynchronous CSV/PDF exports.
type ExportService struct {
	repo      exportRepository
	store     storage.ObjectStore
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	providers map[string]DatasetProvider
	queue     *jobs.Queue
	logger    *zap.Logger
}

// NewExportService constructs an ExportService and its worker queue.
func NewExportService(repo exportRepository, store storage.ObjectStore, signer *storage.SignedURLSigner, providers map[string]DatasetProvider, cfg ExportServiceConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		repo:      repo,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		providers: providers,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("exports", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains and stops the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request queues a new export for the given resource and format.
func (s *ExportService) Request(ctx context.Context, resource, format, requestedBy string) (*models.ExportJob, error) {
	if _, ok := s.providers[resource]; !ok {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"resource": {fmt.Sprintf("%q cannot be exported", resource)},
		})
	}
	if format != models.ExportFormatCSV && format != models.ExportFormatPDF {
		return nil, appErrors.WithFields("validation failed", map[string][]string{
			"format": {"must be one of: csv pdf"},
		})
	}

	job := &models.ExportJob{
		Resource:    resource,
		Format:      format,
		Status:      models.ExportJobStatusQueued,
		RequestedBy: requestedBy,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: resource, Payload: format}); err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, "queue is full"); markErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export queue is full")
	}
	return job, nil
}

// Get returns the current state of an export job.
func (s *ExportService) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// DownloadURL returns a signed link for a completed export.
func (s *ExportService) DownloadURL(ctx context.Context, id, subject string) (string, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status != models.ExportJobStatusDone || job.FilePath == nil {
		return "", appErrors.Clone(appErrors.ErrConflict, "export is not ready for download")
	}
	token, _, err := s.signer.Generate(subject, *job.FilePath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return token, nil
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	if err := s.repo.MarkProcessing(ctx, job.ID); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	provider := s.providers[job.Type]
	format, _ := job.Payload.(string)

	dataset, err := provider(ctx)
	if err != nil {
		s.fail(ctx, job.ID, err)
		return err
	}

	var rendered []byte
	switch format {
	case models.ExportFormatPDF:
		rendered, err = s.pdf.Render(dataset, job.Type)
	default:
		rendered, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.fail(ctx, job.ID, err)
		return err
	}

	key := fmt.Sprintf("exports/%s.%s", job.ID, format)
	path, err := s.store.Save(ctx, key, bytes.NewReader(rendered), int64(len(rendered)), contentTypeFor(format))
	if err != nil {
		s.fail(ctx, job.ID, err)
		return err
	}

	if err := s.repo.MarkDone(ctx, job.ID, path); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}
	s.logger.Info("export completed",
		zap.String("job_id", job.ID),
		zap.String("resource", job.Type),
		zap.String("format", format))
	return nil
}

func (s *ExportService) fail(ctx context.Context, id string, cause error) {
	if err := s.repo.MarkFailed(ctx, id, cause.Error()); err != nil {
		s.logger.Warn("failed to mark export job failed", zap.String("job_id", id), zap.Error(err))
	}
}

func contentTypeFor(format string) string {
	if format == models.ExportFormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

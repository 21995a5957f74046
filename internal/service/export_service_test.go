package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
	"github.com/harborview/backoffice-api/pkg/export"
	"github.com/harborview/backoffice-api/pkg/storage"
)

type mockExportRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.ExportJob
	seq  int
}

func (m *mockExportRepo) Create(ctx context.Context, job *models.ExportJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = make(map[string]*models.ExportJob)
	}
	m.seq++
	job.ID = fmt.Sprintf("job-%d", m.seq)
	job.CreatedAt = time.Now().UTC()
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *mockExportRepo) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (m *mockExportRepo) MarkProcessing(ctx context.Context, id string) error {
	return m.setStatus(id, models.ExportJobStatusProcessing, nil, nil)
}

func (m *mockExportRepo) MarkDone(ctx context.Context, id, filePath string) error {
	return m.setStatus(id, models.ExportJobStatusDone, &filePath, nil)
}

func (m *mockExportRepo) MarkFailed(ctx context.Context, id, message string) error {
	return m.setStatus(id, models.ExportJobStatusFailed, nil, &message)
}

func (m *mockExportRepo) setStatus(id string, status models.ExportJobStatus, filePath, message *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = status
	if filePath != nil {
		job.FilePath = filePath
	}
	if message != nil {
		job.Error = message
	}
	return nil
}

func (m *mockExportRepo) status(id string) models.ExportJobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		return job.Status
	}
	return ""
}

func waitForStatus(t *testing.T, repo *mockExportRepo, id string, want models.ExportJobStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if repo.status(id) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %s (last: %s)", id, want, repo.status(id))
}

func staffDataset(ctx context.Context) (export.Dataset, error) {
	return export.Dataset{
		Headers: []string{"name", "job_title"},
		Rows: []map[string]string{
			{"name": "Maria Santos", "job_title": "Receptionist"},
		},
	}, nil
}

func newExportService(repo *mockExportRepo, store storage.ObjectStore, providers map[string]DatasetProvider) *ExportService {
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(repo, store, signer, providers, ExportServiceConfig{
		Workers:    1,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	}, zap.NewNop())
}

func TestExportServiceRequestValidation(t *testing.T) {
	repo := &mockExportRepo{}
	svc := newExportService(repo, &mockObjectStore{}, map[string]DatasetProvider{"employees": staffDataset})

	_, err := svc.Request(context.Background(), "payroll", models.ExportFormatCSV, "u1")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "resource")

	_, err = svc.Request(context.Background(), "employees", "xlsx", "u1")
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "format")
}

func TestExportServiceRunsJobAndSignsDownload(t *testing.T) {
	repo := &mockExportRepo{}
	store := &mockObjectStore{}
	svc := newExportService(repo, store, map[string]DatasetProvider{"employees": staffDataset})

	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Request(context.Background(), "employees", models.ExportFormatCSV, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportJobStatusQueued, job.Status)

	waitForStatus(t, repo, job.ID, models.ExportJobStatusDone)

	done, err := svc.Get(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, done.FilePath)

	rendered := store.saved[*done.FilePath]
	require.NotEmpty(t, rendered)
	assert.True(t, strings.HasPrefix(string(rendered), "name,job_title"))
	assert.Contains(t, string(rendered), "Maria Santos")

	token, err := svc.DownloadURL(context.Background(), job.ID, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestExportServiceMarksFailureFromProvider(t *testing.T) {
	repo := &mockExportRepo{}
	providers := map[string]DatasetProvider{
		"employees": func(ctx context.Context) (export.Dataset, error) {
			return export.Dataset{}, fmt.Errorf("database unavailable")
		},
	}
	svc := newExportService(repo, &mockObjectStore{}, providers)

	svc.Start(context.Background())
	defer svc.Stop()

	job, err := svc.Request(context.Background(), "employees", models.ExportFormatCSV, "u1")
	require.NoError(t, err)

	waitForStatus(t, repo, job.ID, models.ExportJobStatusFailed)

	failed, err := svc.Get(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, failed.Error)
	assert.Contains(t, *failed.Error, "database unavailable")
}

func TestExportServiceDownloadBeforeCompletion(t *testing.T) {
	repo := &mockExportRepo{}
	svc := newExportService(repo, &mockObjectStore{}, map[string]DatasetProvider{"employees": staffDataset})

	job := &models.ExportJob{Resource: "employees", Format: models.ExportFormatCSV, Status: models.ExportJobStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	_, err := svc.DownloadURL(context.Background(), job.ID, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

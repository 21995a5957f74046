package service

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/harborview/backoffice-api/internal/models"
	appErrors "github.com/harborview/backoffice-api/pkg/errors"
)

type mockInventoryRepo struct {
	items         map[string]*models.InventoryItem
	statusChanges map[string]models.InventoryStatus
	imagePaths    map[string]*string
}

func (m *mockInventoryRepo) List(ctx context.Context, filter models.InventoryFilter) ([]models.InventoryItem, int, error) {
	out := make([]models.InventoryItem, 0, len(m.items))
	for _, i := range m.items {
		out = append(out, *i)
	}
	return out, len(out), nil
}

func (m *mockInventoryRepo) FindByID(ctx context.Context, id string) (*models.InventoryItem, error) {
	if i, ok := m.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if m.items == nil {
		m.items = make(map[string]*models.InventoryItem)
	}
	if item.ID == "" {
		item.ID = "generated"
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockInventoryRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockInventoryRepo) UpdateStatus(ctx context.Context, id string, status models.InventoryStatus) error {
	if m.statusChanges == nil {
		m.statusChanges = make(map[string]models.InventoryStatus)
	}
	m.statusChanges[id] = status
	if i, ok := m.items[id]; ok {
		i.Status = status
	}
	return nil
}

func (m *mockInventoryRepo) UpdateImagePath(ctx context.Context, id string, imagePath *string) error {
	if m.imagePaths == nil {
		m.imagePaths = make(map[string]*string)
	}
	m.imagePaths[id] = imagePath
	if i, ok := m.items[id]; ok {
		i.ImagePath = imagePath
	}
	return nil
}

func (m *mockInventoryRepo) Delete(ctx context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type mockObjectStore struct {
	saved   map[string][]byte
	deleted []string
}

func (m *mockObjectStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[key] = data
	return key, nil
}

func (m *mockObjectStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if data, ok := m.saved[key]; ok {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	delete(m.saved, key)
	return nil
}

func pngFixture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestInventoryServiceCreateZeroQuantityIsSoldOut(t *testing.T) {
	repo := &mockInventoryRepo{}
	svc := NewInventoryService(repo, &mockObjectStore{}, validator.New(), zap.NewNop())

	item, err := svc.Create(context.Background(), CreateInventoryItemRequest{
		Name:     "Shampoo",
		Category: "amenities",
		Quantity: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InventoryStatusSoldOut, item.Status)

	item, err = svc.Create(context.Background(), CreateInventoryItemRequest{
		Name:     "Conditioner",
		Category: "amenities",
		Quantity: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, models.InventoryStatusAvailable, item.Status)
}

func TestInventoryServiceCreateValidation(t *testing.T) {
	svc := NewInventoryService(&mockInventoryRepo{}, &mockObjectStore{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateInventoryItemRequest{Quantity: -1})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "category")
	assert.Contains(t, appErr.Fields, "quantity")
}

func TestInventoryServiceChangeStatus(t *testing.T) {
	repo := &mockInventoryRepo{items: map[string]*models.InventoryItem{
		"i1": {ID: "i1", Name: "Shampoo", Status: models.InventoryStatusAvailable},
	}}
	svc := NewInventoryService(repo, &mockObjectStore{}, validator.New(), zap.NewNop())

	item, err := svc.ChangeStatus(context.Background(), "i1", models.InventoryStatusSoldOut)
	require.NoError(t, err)
	assert.Equal(t, models.InventoryStatusSoldOut, item.Status)

	_, err = svc.ChangeStatus(context.Background(), "i1", models.InventoryStatus("broken"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestInventoryServiceUploadImageReplacesPrevious(t *testing.T) {
	previous := "inventory/i1/old.jpg"
	repo := &mockInventoryRepo{items: map[string]*models.InventoryItem{
		"i1": {ID: "i1", Name: "Shampoo", ImagePath: &previous},
	}}
	store := &mockObjectStore{saved: map[string][]byte{previous: []byte("old")}}
	svc := NewInventoryService(repo, store, validator.New(), zap.NewNop())

	item, err := svc.UploadImage(context.Background(), "i1", pngFixture(t))
	require.NoError(t, err)
	require.NotNil(t, item.ImagePath)
	assert.True(t, strings.HasPrefix(*item.ImagePath, "inventory/i1/"))
	assert.Equal(t, []string{previous}, store.deleted)
}

func TestInventoryServiceUploadImageRejectsNonImage(t *testing.T) {
	repo := &mockInventoryRepo{items: map[string]*models.InventoryItem{
		"i1": {ID: "i1", Name: "Shampoo"},
	}}
	svc := NewInventoryService(repo, &mockObjectStore{}, validator.New(), zap.NewNop())

	_, err := svc.UploadImage(context.Background(), "i1", strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "image")
}

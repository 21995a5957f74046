package listctrl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/backoffice-api/pkg/apiclient"
)

type person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func personResource() Resource[person] {
	return Resource[person]{
		Name:       "person",
		Path:       "/people",
		ID:         func(p person) string { return p.ID },
		Searchable: func(p person) []string { return []string{p.Name, p.Email} },
		Status:     func(p person) string { return p.Status },
		SortFields: map[string]func(a, b person) int{
			"name": func(a, b person) int { return strings.Compare(a.Name, b.Name) },
		},
		DefaultSort: "name",
		StatusRoute: func(status string) (string, bool) {
			if status == "active" {
				return "activate", false
			}
			return "deactivate", false
		},
	}
}

// recordingNotifier counts notifications so tests can assert the
// one-notification-per-mutation contract.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

// fakeBackend serves the collection contract over an in-memory slice.
type fakeBackend struct {
	mu     sync.Mutex
	people []person
	nextID int

	failDelete bool
	rejectWith map[string][]string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/people", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, b.people)
		case http.MethodPost:
			if b.rejectWith != nil {
				writeError(w, http.StatusUnprocessableEntity, b.rejectWith)
				return
			}
			var p person
			_ = json.NewDecoder(r.Body).Decode(&p)
			b.nextID++
			p.ID = "p" + strconv.Itoa(b.nextID)
			if p.Status == "" {
				p.Status = "active"
			}
			b.people = append(b.people, p)
			writeData(w, http.StatusCreated, p)
		}
	})
	mux.HandleFunc("/people/", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/people/"), "/")
		id := parts[0]

		if len(parts) == 2 {
			status := "inactive"
			if parts[1] == "activate" {
				status = "active"
			}
			for i := range b.people {
				if b.people[i].ID == id {
					b.people[i].Status = status
					writeData(w, http.StatusOK, b.people[i])
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			return
		}

		switch r.Method {
		case http.MethodPut:
			var p person
			_ = json.NewDecoder(r.Body).Decode(&p)
			for i := range b.people {
				if b.people[i].ID == id {
					p.ID = id
					p.Status = b.people[i].Status
					b.people[i] = p
					writeData(w, http.StatusOK, p)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodDelete:
			if b.failDelete {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			for i := range b.people {
				if b.people[i].ID == id {
					b.people = append(b.people[:i], b.people[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
		}
	})
	return mux
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, fields map[string][]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "validation failed",
			"status":  status,
			"fields":  fields,
		},
	})
}

func newTestController(t *testing.T, backend *fakeBackend, notify Notifier) *Controller[person] {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	api := apiclient.New(srv.URL)
	ctrl := New(api, personResource(), notify)
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestVisibleFiltersByStatusAndSearch(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Email: "alice@example.com", Status: "active"},
		{ID: "p2", Name: "Bob", Email: "bob@example.com", Status: "inactive"},
		{ID: "p3", Name: "Alicia", Email: "alicia@example.com", Status: "active"},
	}}
	ctrl := newTestController(t, backend, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	ctrl.SetStatusFilter("active")
	visible := ctrl.Visible()
	require.Len(t, visible, 2)
	for _, p := range visible {
		assert.Equal(t, "active", p.Status)
	}

	ctrl.SetSearchTerm("ALICE")
	visible = ctrl.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Alice", visible[0].Name)

	ctrl.SetStatusFilter(StatusFilterAll)
	ctrl.SetSearchTerm("")
	assert.Len(t, ctrl.Visible(), 3)
}

func TestSortedOrderAndDoubleToggle(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Carol", Status: "active"},
		{ID: "p2", Name: "Alice", Status: "active"},
		{ID: "p3", Name: "Bob", Status: "active"},
	}}
	ctrl := newTestController(t, backend, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	sorted := ctrl.Sorted()
	require.Len(t, sorted, 3)
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].Name, sorted[i].Name)
	}

	original := ctrl.Sorted()
	ctrl.SetSort("name")
	ctrl.SetSort("name")
	assert.Equal(t, original, ctrl.Sorted())
}

func TestRefreshIsIdempotent(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Status: "active"},
		{ID: "p2", Name: "Bob", Status: "inactive"},
	}}
	ctrl := newTestController(t, backend, nil)

	require.NoError(t, ctrl.Refresh(context.Background()))
	first := ctrl.Items()
	require.NoError(t, ctrl.Refresh(context.Background()))
	assert.Equal(t, first, ctrl.Items())
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Status: "active"},
	}}
	notify := &recordingNotifier{}
	srv := httptest.NewServer(backend.handler())
	api := apiclient.New(srv.URL)
	ctrl := New(api, personResource(), notify)
	t.Cleanup(ctrl.Close)

	require.NoError(t, ctrl.Refresh(context.Background()))
	require.Len(t, ctrl.Items(), 1)

	srv.Close()
	err := ctrl.Refresh(context.Background())
	require.Error(t, err)
	assert.Len(t, ctrl.Items(), 1)
	assert.Len(t, notify.errors, 1)
}

func TestCreateRoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	notify := &recordingNotifier{}
	ctrl := newTestController(t, backend, notify)
	require.NoError(t, ctrl.Refresh(context.Background()))

	ctrl.OpenAdd()
	require.True(t, ctrl.AddOpen())

	err := ctrl.Create(context.Background(), map[string]string{"name": "Alice", "email": "alice@example.com"})
	require.NoError(t, err)
	assert.False(t, ctrl.AddOpen())
	require.Len(t, ctrl.Items(), 1)
	assert.Equal(t, "Alice", ctrl.Items()[0].Name)
	assert.Len(t, notify.successes, 1)
}

func TestCreateValidationFailureKeepsModalOpen(t *testing.T) {
	backend := &fakeBackend{rejectWith: map[string][]string{"email": {"invalid"}}}
	notify := &recordingNotifier{}
	ctrl := newTestController(t, backend, notify)

	ctrl.OpenAdd()
	err := ctrl.Create(context.Background(), map[string]string{"name": "Alice", "email": "nope"})
	require.Error(t, err)

	var verr *apiclient.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, ctrl.AddOpen())
	assert.Equal(t, []string{"invalid"}, ctrl.FieldErrors()["email"])
	assert.Len(t, notify.errors, 1)
	assert.Empty(t, notify.successes)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Status: "active"},
		{ID: "p2", Name: "Bob", Status: "active"},
		{ID: "p3", Name: "Carol", Status: "active"},
	}}
	ctrl := newTestController(t, backend, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Delete(context.Background(), "p2", func() bool { return true })
	require.NoError(t, err)

	items := ctrl.Items()
	require.Len(t, items, 2)
	for _, p := range items {
		assert.NotEqual(t, "p2", p.ID)
	}
}

func TestDeleteDeclinedAndFailedLeaveCacheUntouched(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Status: "active"},
		{ID: "p2", Name: "Bob", Status: "active"},
	}}
	ctrl := newTestController(t, backend, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Delete(context.Background(), "p1", func() bool { return false })
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Len(t, ctrl.Items(), 2)

	backend.failDelete = true
	err = ctrl.Delete(context.Background(), "p1", func() bool { return true })
	require.Error(t, err)
	assert.Len(t, ctrl.Items(), 2)
}

func TestStatusChangeUpdatesOnlyTarget(t *testing.T) {
	backend := &fakeBackend{people: []person{
		{ID: "p1", Name: "Alice", Status: "inactive"},
		{ID: "p2", Name: "Bob", Status: "inactive"},
	}}
	ctrl := newTestController(t, backend, nil)
	require.NoError(t, ctrl.Refresh(context.Background()))

	require.NoError(t, ctrl.StatusChange(context.Background(), "p1", "active"))

	byID := map[string]person{}
	for _, p := range ctrl.Items() {
		byID[p.ID] = p
	}
	assert.Equal(t, "active", byID["p1"].Status)
	assert.Equal(t, "inactive", byID["p2"].Status)
}

func TestModalTogglesClearSelection(t *testing.T) {
	backend := &fakeBackend{}
	ctrl := newTestController(t, backend, nil)

	record := person{ID: "p1", Name: "Alice"}
	ctrl.OpenUpdate(record)
	selected, ok := ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, record, selected)

	ctrl.CloseUpdate()
	_, ok = ctrl.Selected()
	assert.False(t, ok)

	ctrl.OpenDetails(record)
	assert.True(t, ctrl.DetailsOpen())
	ctrl.CloseDetails()
	assert.False(t, ctrl.DetailsOpen())
	_, ok = ctrl.Selected()
	assert.False(t, ok)
}

func TestCloseDiscardsLateRefresh(t *testing.T) {
	backend := &fakeBackend{people: []person{{ID: "p1", Name: "Alice", Status: "active"}}}

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		backend.handler().ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	api := apiclient.New(srv.URL)
	ctrl := New(api, personResource(), nil)

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background()) }()

	ctrl.Close()
	err := <-done
	require.Error(t, err)
	assert.Empty(t, ctrl.Items())
}

// Package listctrl implements a generic list-resource controller: one
// instance owns the in-memory cache of a collection endpoint, projects a
// filtered and sorted view over it, and brokers create, update, delete and
// status-change operations, reconciling with the server by refetching after
// every successful mutation.
package listctrl

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/harborview/backoffice-api/pkg/apiclient"
)

// StatusFilterAll disables status filtering.
const StatusFilterAll = "all"

// SortAscending and SortDescending name the two sort directions.
const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// Notifier receives exactly one success or error notification per mutating
// operation. Presentation is the caller's concern; the controller never
// renders anything itself.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Resource describes one managed collection: where it lives and how to read
// the fields the controller filters and sorts on.
type Resource[T any] struct {
	// Name is a human-readable singular label used in notifications.
	Name string
	// Path is the collection path under the API prefix, e.g. "/employees".
	Path string
	// ID extracts the server-assigned identifier.
	ID func(item T) string
	// Searchable returns the fields matched case-insensitively against the
	// search term.
	Searchable func(item T) []string
	// Status extracts the enumerated status field. Nil disables status
	// filtering.
	Status func(item T) string
	// SortFields maps a sort field name to its ascending comparator. The
	// comparator returns a negative value when a orders before b.
	SortFields map[string]func(a, b T) int
	// DefaultSort is the initial sort field. Empty means unsorted.
	DefaultSort string
	// StatusRoute returns the subpath for transitioning to status and whether
	// the request carries a {"status": ...} body. The default uses "status"
	// with a body.
	StatusRoute func(status string) (subpath string, withBody bool)
}

// Controller owns the cached collection for one resource and is its sole
// writer. Child forms submit payloads through it and never touch the cache.
type Controller[T any] struct {
	res    Resource[T]
	api    *apiclient.Client
	notify Notifier

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	items        []T
	searchTerm   string
	statusFilter string
	sortField    string
	sortAsc      bool
	gen          uint64

	addOpen     bool
	updateOpen  bool
	detailsOpen bool
	selected    *T
	fieldErrors map[string][]string
}

// New builds a controller for one resource. The notifier may be nil.
func New[T any](api *apiclient.Client, res Resource[T], notify Notifier) *Controller[T] {
	if notify == nil {
		notify = NopNotifier{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller[T]{
		res:          res,
		api:          api,
		notify:       notify,
		ctx:          ctx,
		cancel:       cancel,
		statusFilter: StatusFilterAll,
		sortField:    res.DefaultSort,
		sortAsc:      true,
	}
}

// Close cancels in-flight requests and discards their late completions. The
// controller must not be used afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.gen++
	c.mu.Unlock()
	c.cancel()
}

// Items returns a copy of the cached collection in fetch order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// SetSearchTerm updates the free-text filter.
func (c *Controller[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
}

// SetStatusFilter updates the status filter. Use StatusFilterAll to disable.
func (c *Controller[T]) SetStatusFilter(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFilter = status
}

// SetSort selects a sort field, toggling direction when the field is already
// selected.
func (c *Controller[T]) SetSort(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortField == field {
		c.sortAsc = !c.sortAsc
		return
	}
	c.sortField = field
	c.sortAsc = true
}

// SortState reports the current sort field and direction.
func (c *Controller[T]) SortState() (field, direction string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortAsc {
		return c.sortField, SortAscending
	}
	return c.sortField, SortDescending
}

// Refresh replaces the cached collection with the server's current state. On
// failure the cache is left untouched and one error notification is raised.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	var fetched []T
	if err := c.api.List(c.requestContext(ctx), c.res.Path, url.Values{}, &fetched); err != nil {
		c.notify.Error("failed to load " + c.res.Name + " list")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil
	}
	c.items = fetched
	return nil
}

// Visible projects the cache through the status filter and search term. Pure
// with respect to the cache: no mutation, no network.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(c.searchTerm))
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if c.res.Status != nil && c.statusFilter != StatusFilterAll && c.res.Status(item) != c.statusFilter {
			continue
		}
		if term != "" && !matchesTerm(c.res.Searchable, item, term) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Sorted applies the current sort to the visible set. The sort is stable, so
// records with equal keys keep their relative fetch order.
func (c *Controller[T]) Sorted() []T {
	visible := c.Visible()

	c.mu.Lock()
	field := c.sortField
	asc := c.sortAsc
	c.mu.Unlock()

	cmp, ok := c.res.SortFields[field]
	if !ok {
		return visible
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if asc {
			return cmp(visible[i], visible[j]) < 0
		}
		return cmp(visible[j], visible[i]) < 0
	})
	return visible
}

func matchesTerm[T any](searchable func(T) []string, item T, term string) bool {
	if searchable == nil {
		return false
	}
	for _, field := range searchable(item) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// OpenAdd shows the add form and clears previous field errors.
func (c *Controller[T]) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addOpen = true
	c.fieldErrors = nil
}

// CloseAdd hides the add form.
func (c *Controller[T]) CloseAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addOpen = false
	c.fieldErrors = nil
}

// OpenUpdate shows the update form for record.
func (c *Controller[T]) OpenUpdate(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateOpen = true
	c.selected = &record
	c.fieldErrors = nil
}

// CloseUpdate hides the update form and clears the selection.
func (c *Controller[T]) CloseUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateOpen = false
	c.selected = nil
	c.fieldErrors = nil
}

// OpenDetails shows the read-only detail view for record.
func (c *Controller[T]) OpenDetails(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailsOpen = true
	c.selected = &record
}

// CloseDetails hides the detail view and clears the selection.
func (c *Controller[T]) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailsOpen = false
	c.selected = nil
}

// AddOpen reports whether the add form is visible.
func (c *Controller[T]) AddOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addOpen
}

// UpdateOpen reports whether the update form is visible.
func (c *Controller[T]) UpdateOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateOpen
}

// DetailsOpen reports whether the detail view is visible.
func (c *Controller[T]) DetailsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detailsOpen
}

// Selected returns the record the update or detail view is bound to.
func (c *Controller[T]) Selected() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		var zero T
		return zero, false
	}
	return *c.selected, true
}

// FieldErrors returns the field -> messages map from the last failed
// submission, nil when the last submission succeeded.
func (c *Controller[T]) FieldErrors() map[string][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrors
}

// Create submits payload to the collection endpoint. On success the cache is
// refreshed and the add form closes; on a validation failure the form stays
// open with field errors populated.
func (c *Controller[T]) Create(ctx context.Context, payload interface{}) error {
	if err := c.api.Create(c.requestContext(ctx), c.res.Path, payload, nil); err != nil {
		return c.mutationFailed(err, "failed to create "+c.res.Name)
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.CloseAdd()
	c.notify.Success(c.res.Name + " created")
	return nil
}

// Update submits payload for id. Success and failure handling mirror Create,
// applied to the update form.
func (c *Controller[T]) Update(ctx context.Context, id string, payload interface{}) error {
	if err := c.api.Update(c.requestContext(ctx), c.res.Path, id, payload, nil); err != nil {
		return c.mutationFailed(err, "failed to update "+c.res.Name)
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.CloseUpdate()
	c.notify.Success(c.res.Name + " updated")
	return nil
}

// StatusChange transitions the record through its dedicated status route and
// refreshes on success.
func (c *Controller[T]) StatusChange(ctx context.Context, id, status string) error {
	subpath, withBody := "status", true
	if c.res.StatusRoute != nil {
		subpath, withBody = c.res.StatusRoute(status)
	}
	target := c.res.Path + "/" + url.PathEscape(id) + "/" + subpath

	var payload interface{}
	if withBody {
		payload = map[string]string{"status": status}
	}
	if err := c.api.Post(c.requestContext(ctx), target, payload, nil); err != nil {
		return c.mutationFailed(err, "failed to change "+c.res.Name+" status")
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.notify.Success(c.res.Name + " status updated")
	return nil
}

// ErrDeleteNotConfirmed is returned when the confirmation callback declines a
// delete.
var ErrDeleteNotConfirmed = errors.New("delete not confirmed")

// Delete removes the record after confirm approves it. On success the record
// leaves the cache via refresh; on failure the cache is untouched.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirm func() bool) error {
	if confirm != nil && !confirm() {
		return ErrDeleteNotConfirmed
	}
	if err := c.api.Delete(c.requestContext(ctx), c.res.Path, id); err != nil {
		c.notify.Error("failed to delete " + c.res.Name)
		return err
	}
	if err := c.Refresh(ctx); err != nil {
		return err
	}
	c.notify.Success(c.res.Name + " deleted")
	return nil
}

func (c *Controller[T]) mutationFailed(err error, message string) error {
	var verr *apiclient.ValidationError
	if errors.As(err, &verr) {
		c.mu.Lock()
		c.fieldErrors = verr.Fields
		c.mu.Unlock()
		c.notify.Error("please correct the highlighted fields")
		return err
	}
	c.notify.Error(message)
	return err
}

// requestContext ties a request to both the caller's context and the
// controller's lifetime, so Close cancels whatever is still in flight.
func (c *Controller[T]) requestContext(ctx context.Context) context.Context {
	if ctx == nil {
		return c.ctx
	}
	merged, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-c.ctx.Done():
			cancel()
		case <-merged.Done():
		}
	}()
	return merged
}

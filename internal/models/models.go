// package models defines the data model for the recipe list client
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include [CachedRecipe] and [LoadRun].
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

type timestamps struct {
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newTimestamps() timestamps {
	now := time.Now()
	return timestamps{createdAt: now, updatedAt: now}
}

func (t *timestamps) CreatedAt() time.Time       { return t.createdAt }
func (t *timestamps) UpdatedAt() time.Time       { return t.updatedAt }
func (t *timestamps) DeletedAt() *time.Time      { return t.deletedAt }
func (t *timestamps) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *timestamps) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *timestamps) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }
func (t *timestamps) IsDeleted() bool            { return t.deletedAt != nil }

// CachedRecipe is a persisted snapshot of a hydrated [Recipe].
type CachedRecipe struct {
	timestamps
	id        string
	sequence  int
	listMode  ListMode
	fetchedAt time.Time
	recipe    Recipe
}

// NewCachedRecipe wraps a hydrated recipe for persistence.
func NewCachedRecipe(sequence int, mode ListMode, recipe Recipe) *CachedRecipe {
	ts := newTimestamps()
	return &CachedRecipe{
		timestamps: ts,
		sequence:   sequence,
		listMode:   mode,
		fetchedAt:  ts.createdAt,
		recipe:     recipe,
	}
}

func (c *CachedRecipe) ID() string               { return c.id }
func (c *CachedRecipe) SetID(id string)          { c.id = id }
func (c *CachedRecipe) Sequence() int            { return c.sequence }
func (c *CachedRecipe) SetSequence(seq int)      { c.sequence = seq }
func (c *CachedRecipe) ListMode() ListMode       { return c.listMode }
func (c *CachedRecipe) FetchedAt() time.Time     { return c.fetchedAt }
func (c *CachedRecipe) SetFetchedAt(t time.Time) { c.fetchedAt = t }
func (c *CachedRecipe) Recipe() Recipe           { return c.recipe }

// Payload serializes the snapshot for the payload column.
func (c *CachedRecipe) Payload() (string, error) {
	data, err := json.Marshal(c.recipe)
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe %s: %w", c.recipe.ID, err)
	}
	return string(data), nil
}

// SetPayload restores the snapshot from the payload column.
func (c *CachedRecipe) SetPayload(payload string) error {
	var r Recipe
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return fmt.Errorf("failed to unmarshal recipe payload: %w", err)
	}
	c.recipe = r
	return nil
}

// Validate requires a backend recipe id and a title.
func (c *CachedRecipe) Validate() error {
	if c.recipe.ID == "" {
		return fmt.Errorf("recipe id is required")
	}
	if c.recipe.Title == "" {
		return fmt.Errorf("recipe title is required")
	}
	return nil
}

// LoadRunStatus is the lifecycle of a [LoadRun].
type LoadRunStatus string

const (
	LoadRunning   LoadRunStatus = "running"
	LoadCompleted LoadRunStatus = "completed"
	LoadFailed    LoadRunStatus = "failed"
	LoadCancelled LoadRunStatus = "cancelled"
)

// LoadRun records one list load or search.
type LoadRun struct {
	timestamps
	id           string
	sequence     int
	mode         ListMode
	query        string
	status       LoadRunStatus
	total        int
	hydrated     int
	failed       int
	errorMessage string
	startedAt    time.Time
	completedAt  *time.Time
}

// NewLoadRun creates a running [LoadRun] for mode. query is empty for non-search loads.
func NewLoadRun(sequence int, mode ListMode, query string) *LoadRun {
	ts := newTimestamps()
	return &LoadRun{
		timestamps: ts,
		sequence:   sequence,
		mode:       mode,
		query:      query,
		status:     LoadRunning,
		startedAt:  ts.createdAt,
	}
}

func (l *LoadRun) ID() string                  { return l.id }
func (l *LoadRun) SetID(id string)             { l.id = id }
func (l *LoadRun) Sequence() int               { return l.sequence }
func (l *LoadRun) SetSequence(seq int)         { l.sequence = seq }
func (l *LoadRun) Mode() ListMode              { return l.mode }
func (l *LoadRun) Query() string               { return l.query }
func (l *LoadRun) Status() LoadRunStatus       { return l.status }
func (l *LoadRun) SetStatus(s LoadRunStatus)   { l.status = s }
func (l *LoadRun) Total() int                  { return l.total }
func (l *LoadRun) SetTotal(n int)              { l.total = n }
func (l *LoadRun) Hydrated() int               { return l.hydrated }
func (l *LoadRun) SetHydrated(n int)           { l.hydrated = n }
func (l *LoadRun) Failed() int                 { return l.failed }
func (l *LoadRun) SetFailed(n int)             { l.failed = n }
func (l *LoadRun) ErrorMessage() string        { return l.errorMessage }
func (l *LoadRun) SetErrorMessage(msg string)  { l.errorMessage = msg }
func (l *LoadRun) StartedAt() time.Time        { return l.startedAt }
func (l *LoadRun) SetStartedAt(t time.Time)    { l.startedAt = t }
func (l *LoadRun) CompletedAt() *time.Time     { return l.completedAt }
func (l *LoadRun) SetCompletedAt(t *time.Time) { l.completedAt = t }

// Finish stamps completion time and final counts.
func (l *LoadRun) Finish(status LoadRunStatus, total, hydrated, failed int, err error) {
	now := time.Now()
	l.status = status
	l.total = total
	l.hydrated = hydrated
	l.failed = failed
	l.completedAt = &now
	if err != nil {
		l.errorMessage = err.Error()
	}
}

// Validate checks status and counter consistency.
func (l *LoadRun) Validate() error {
	switch l.status {
	case LoadRunning, LoadCompleted, LoadFailed, LoadCancelled:
	default:
		return fmt.Errorf("invalid status: %q", l.status)
	}
	if l.mode == SearchList && l.query == "" {
		return fmt.Errorf("search runs require a query")
	}
	if l.hydrated+l.failed > l.total {
		return fmt.Errorf("hydrated (%d) + failed (%d) exceeds total (%d)", l.hydrated, l.failed, l.total)
	}
	return nil
}

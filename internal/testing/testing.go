// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/recipebox/internal/models"
)

// FakeAuth is a test double for [services.Auth]
type FakeAuth string

func (f FakeAuth) ID() string { return string(f) }

// FakeRecipeAPI is an in-memory test double for [services.RecipeAPI].
//
// Every call is recorded as "kind:arg" (e.g. "saved:u1", "author:9", "search:soup:u1").
// Errors are keyed by the same string; Delay is applied before each call and honours ctx.
type FakeRecipeAPI struct {
	Lists         map[string][]models.Record // keyed by "top", "personal", "saved", "search"
	Users         map[string]models.User
	StepsOf       map[string][]models.RecipeStep
	IngredientsOf map[string][]models.RecipeIngredient
	Errors        map[string]error
	Delay         time.Duration

	mu    sync.Mutex
	calls []string
}

// NewFakeRecipeAPI creates an empty [FakeRecipeAPI].
func NewFakeRecipeAPI() *FakeRecipeAPI {
	return &FakeRecipeAPI{
		Lists:         map[string][]models.Record{},
		Users:         map[string]models.User{},
		StepsOf:       map[string][]models.RecipeStep{},
		IngredientsOf: map[string][]models.RecipeIngredient{},
		Errors:        map[string]error{},
	}
}

func (f *FakeRecipeAPI) record(ctx context.Context, call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	err := f.Errors[call]
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return err
}

func (f *FakeRecipeAPI) list(ctx context.Context, kind, call string) ([]models.Record, error) {
	if err := f.record(ctx, call); err != nil {
		return nil, err
	}
	src := f.Lists[kind]
	out := make([]models.Record, len(src))
	copy(out, src)
	return out, nil
}

func (f *FakeRecipeAPI) TopRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return f.list(ctx, "top", "top:"+userID)
}

func (f *FakeRecipeAPI) PersonalRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return f.list(ctx, "personal", "personal:"+userID)
}

func (f *FakeRecipeAPI) SavedRecipes(ctx context.Context, userID string) ([]models.Record, error) {
	return f.list(ctx, "saved", "saved:"+userID)
}

func (f *FakeRecipeAPI) SearchRecipes(ctx context.Context, query, userID string) ([]models.Record, error) {
	return f.list(ctx, "search", "search:"+query+":"+userID)
}

func (f *FakeRecipeAPI) Author(ctx context.Context, authorID string) (models.User, error) {
	if err := f.record(ctx, "author:"+authorID); err != nil {
		return models.User{}, err
	}
	if u, ok := f.Users[authorID]; ok {
		return u, nil
	}
	return models.User{ID: authorID}, nil
}

func (f *FakeRecipeAPI) Steps(ctx context.Context, recipeID string) ([]models.RecipeStep, error) {
	if err := f.record(ctx, "steps:"+recipeID); err != nil {
		return nil, err
	}
	return f.StepsOf[recipeID], nil
}

func (f *FakeRecipeAPI) Ingredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	if err := f.record(ctx, "ingredients:"+recipeID); err != nil {
		return nil, err
	}
	return f.IngredientsOf[recipeID], nil
}

// Calls returns a copy of every recorded call in order.
func (f *FakeRecipeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount counts recorded calls starting with prefix.
func (f *FakeRecipeAPI) CallCount(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

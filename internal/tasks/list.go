package tasks

import (
	"sync"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
)

// ListEventKind identifies a change to a [RecipeList].
type ListEventKind int

const (
	ListReset ListEventKind = iota
	ListTitled
	RecipeAppended
	FailureRecorded
	ListClosed
)

func (k ListEventKind) String() string {
	switch k {
	case ListReset:
		return "reset"
	case ListTitled:
		return "titled"
	case RecipeAppended:
		return "appended"
	case FailureRecorded:
		return "failed"
	case ListClosed:
		return "closed"
	default:
		return ""
	}
}

// ListEvent is delivered to subscribers after each change.
type ListEvent struct {
	Kind    ListEventKind
	Title   string
	Len     int // recipes visible after the change
	Recipe  *models.Recipe
	Failure *models.HydrationFailure
}

// ListSnapshot is a point-in-time copy of a [RecipeList].
type ListSnapshot struct {
	Title    string                    `json:"title"`
	Mode     models.ListMode           `json:"-"`
	Query    string                    `json:"query,omitempty"`
	Recipes  []models.Recipe           `json:"recipes"`
	Failures []models.HydrationFailure `json:"failures,omitempty"`
}

// RecipeList is the observable collection a view renders.
//
// Only fully hydrated recipes are appended. Subscribers receive events on buffered channels;
// a subscriber that falls behind misses events rather than stalling the producer.
type RecipeList struct {
	mu       sync.RWMutex
	mode     models.ListMode
	query    string
	recipes  []models.Recipe
	failures []models.HydrationFailure
	subs     map[int]chan ListEvent
	nextSub  int
	closed   bool
}

// NewRecipeList creates an empty list titled for mode.
func NewRecipeList(mode models.ListMode) *RecipeList {
	return &RecipeList{
		mode:    mode,
		recipes: []models.Recipe{},
		subs:    make(map[int]chan ListEvent),
	}
}

// Reset drops every recipe and failure row, clears any search, and retitles the list for mode.
func (l *RecipeList) Reset(mode models.ListMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.mode = mode
	l.query = ""
	l.recipes = []models.Recipe{}
	l.failures = nil
	l.publish(ListEvent{Kind: ListReset, Title: l.title()})
}

// resetForSearch drops the contents and activates query in one change.
func (l *RecipeList) resetForSearch(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.query = query
	l.recipes = []models.Recipe{}
	l.failures = nil
	l.publish(ListEvent{Kind: ListReset, Title: l.title()})
}

// SetTitle switches the list to mode without dropping its contents.
func (l *RecipeList) SetTitle(mode models.ListMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.mode = mode
	l.publish(ListEvent{Kind: ListTitled, Title: l.title(), Len: len(l.recipes)})
}

// SetSearch marks a search as active. An empty query clears it.
func (l *RecipeList) SetSearch(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.query = query
	l.publish(ListEvent{Kind: ListTitled, Title: l.title(), Len: len(l.recipes)})
}

// Title returns "Search Results:" while a search is active, otherwise the mode title.
func (l *RecipeList) Title() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.title()
}

func (l *RecipeList) title() string {
	if l.query != "" {
		return models.SearchTitle
	}
	return l.mode.Title()
}

// Mode returns [models.SearchList] while a search is active, otherwise the list mode.
func (l *RecipeList) Mode() models.ListMode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.query != "" {
		return models.SearchList
	}
	return l.mode
}

// Query returns the active search text.
func (l *RecipeList) Query() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query
}

// Append adds a hydrated recipe to the end of the list.
func (l *RecipeList) Append(recipe models.Recipe) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return shared.ErrListClosed
	}

	l.recipes = append(l.recipes, recipe)
	l.publish(ListEvent{Kind: RecipeAppended, Title: l.title(), Len: len(l.recipes), Recipe: &recipe})
	return nil
}

// Fail records a failure row for a record that could not be hydrated.
func (l *RecipeList) Fail(failure models.HydrationFailure) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return shared.ErrListClosed
	}

	l.failures = append(l.failures, failure)
	l.publish(ListEvent{Kind: FailureRecorded, Title: l.title(), Len: len(l.recipes), Failure: &failure})
	return nil
}

// Len returns the number of visible recipes.
func (l *RecipeList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.recipes)
}

// Recipes returns a copy of the visible recipes in list order.
func (l *RecipeList) Recipes() []models.Recipe {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Recipe, len(l.recipes))
	copy(out, l.recipes)
	return out
}

// Snapshot copies the list state.
func (l *RecipeList) Snapshot() ListSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := ListSnapshot{
		Title:   l.title(),
		Mode:    l.mode,
		Query:   l.query,
		Recipes: make([]models.Recipe, len(l.recipes)),
	}
	if l.query != "" {
		snap.Mode = models.SearchList
	}
	copy(snap.Recipes, l.recipes)
	if len(l.failures) > 0 {
		snap.Failures = make([]models.HydrationFailure, len(l.failures))
		copy(snap.Failures, l.failures)
	}
	return snap
}

// Subscribe returns a channel of list events and a function that cancels the subscription.
//
// buffer < 1 is treated as 1. The channel is closed on cancel or [RecipeList.Close].
func (l *RecipeList) Subscribe(buffer int) (<-chan ListEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan ListEvent, buffer)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		close(ch)
		return ch, func() {}
	}

	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if sub, ok := l.subs[id]; ok {
				delete(l.subs, id)
				close(sub)
			}
		})
	}
}

// Close tears the list down: items are dropped, subscribers get a final event and their channels are closed.
// Later mutations return [shared.ErrListClosed] or are ignored.
func (l *RecipeList) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.recipes = nil
	l.failures = nil
	l.publish(ListEvent{Kind: ListClosed})
	for id, ch := range l.subs {
		close(ch)
		delete(l.subs, id)
	}
	l.closed = true
}

// publish must be called with l.mu held.
func (l *RecipeList) publish(event ListEvent) {
	for _, ch := range l.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

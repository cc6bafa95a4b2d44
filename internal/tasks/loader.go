package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/services"
	"github.com/desertthunder/recipebox/internal/shared"
)

// RecipeCacher persists recipes as they become visible.
//
// Implemented by repositories.RecipeCacheAdapter. Errors are logged and never fail a load.
type RecipeCacher interface {
	CacheRecipe(mode models.ListMode, recipe models.Recipe) error
}

// RunRecorder persists the outcome of each load or search.
type RunRecorder interface {
	RecordRun(result *LoadResult) error
}

// LoadResult summarizes one list load or search.
type LoadResult struct {
	RunID       string                    `json:"run_id"`
	Mode        models.ListMode           `json:"-"`
	Query       string                    `json:"query,omitempty"`
	Total       int                       `json:"total"`
	Hydrated    int                       `json:"hydrated"`
	Failed      int                       `json:"failed"`
	Failures    []models.HydrationFailure `json:"failures,omitempty"`
	Skipped     bool                      `json:"skipped,omitempty"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt time.Time                 `json:"completed_at"`
	Err         error                     `json:"-"`
}

// Status maps the result onto a [models.LoadRunStatus].
func (r *LoadResult) Status() models.LoadRunStatus {
	switch {
	case r.Err == nil:
		return models.LoadCompleted
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return models.LoadCancelled
	default:
		return models.LoadFailed
	}
}

// LoaderOptions configures a [RecipeLoader].
type LoaderOptions struct {
	Workers  int // records hydrated at once, values below 2 mean strictly sequential
	Cacher   RecipeCacher
	Recorder RunRecorder
	Logger   *log.Logger
}

// RecipeLoader drives a [RecipeList]: it picks the endpoint for a mode or search,
// fetches the raw records, hydrates each one and appends the results.
type RecipeLoader struct {
	api      services.RecipeAPI
	auth     services.Auth
	list     *RecipeList
	workers  int
	cacher   RecipeCacher
	recorder RunRecorder
	logger   *log.Logger
}

// NewRecipeLoader creates a loader that fills list using api, scoped to auth's user.
func NewRecipeLoader(api services.RecipeAPI, auth services.Auth, list *RecipeList, opts LoaderOptions) *RecipeLoader {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	return &RecipeLoader{
		api:      api,
		auth:     auth,
		list:     list,
		workers:  workers,
		cacher:   opts.Cacher,
		recorder: opts.Recorder,
		logger:   logger,
	}
}

// List returns the list the loader fills.
func (l *RecipeLoader) List() *RecipeList { return l.list }

type fetchFunc func(ctx context.Context, userID string) ([]models.Record, error)

// Load resets the list for mode ("saved", "personal", anything else is top) and fills it.
//
// A fetch failure is returned. Hydration failures are recorded on the list and in the result.
func (l *RecipeLoader) Load(ctx context.Context, mode string, progress chan<- ProgressUpdate) (*LoadResult, error) {
	userID, err := l.userID()
	if err != nil {
		return nil, err
	}

	m := models.ParseListMode(mode)
	var fetch fetchFunc
	switch m {
	case models.SavedList:
		fetch = l.api.SavedRecipes
	case models.PersonalList:
		fetch = l.api.PersonalRecipes
	default:
		fetch = l.api.TopRecipes
	}

	l.list.Reset(m)
	return l.run(ctx, m, "", userID, fetch, progress)
}

// Search trims text and, when anything is left, replaces the list with the search results.
//
// Empty text issues no request and leaves the list untouched; the result is marked Skipped.
func (l *RecipeLoader) Search(ctx context.Context, text string, progress chan<- ProgressUpdate) (*LoadResult, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		now := time.Now()
		return &LoadResult{Mode: models.SearchList, Skipped: true, StartedAt: now, CompletedAt: now}, nil
	}

	userID, err := l.userID()
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, userID string) ([]models.Record, error) {
		return l.api.SearchRecipes(ctx, query, userID)
	}

	l.list.resetForSearch(query)
	return l.run(ctx, models.SearchList, query, userID, fetch, progress)
}

func (l *RecipeLoader) userID() (string, error) {
	if l.api == nil {
		return "", fmt.Errorf("%w: recipe API not initialized", shared.ErrServiceUnavailable)
	}
	if l.auth == nil || l.auth.ID() == "" {
		return "", fmt.Errorf("%w: no user id configured", shared.ErrNotAuthenticated)
	}
	return l.auth.ID(), nil
}

func (l *RecipeLoader) run(ctx context.Context, mode models.ListMode, query, userID string, fetch fetchFunc, progress chan<- ProgressUpdate) (*LoadResult, error) {
	result := &LoadResult{
		RunID:     shared.GenerateID(),
		Mode:      mode,
		Query:     query,
		StartedAt: time.Now(),
	}
	logger := shared.WithLogger(l.logger, "run", result.RunID[:8], "mode", mode)

	sendProgress(progress, fetchingRecordsUpdate(l.list.Title()))

	records, err := fetch(ctx, userID)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return l.finish(result, fmt.Errorf("failed to fetch %s recipes: %w", mode, err), logger)
	}

	result.Total = len(records)
	sendProgress(progress, fetchedRecordsUpdate(result.Total))
	logger.Info("fetched records", "count", result.Total)

	queue := reverseRecords(records)
	if l.workers > 1 {
		err = l.hydrateBounded(ctx, mode, queue, result, progress, logger)
	} else {
		err = l.hydrateSequential(ctx, mode, queue, result, progress, logger)
	}

	return l.finish(result, err, logger)
}

func (l *RecipeLoader) finish(result *LoadResult, err error, logger *log.Logger) (*LoadResult, error) {
	result.CompletedAt = time.Now()
	result.Err = err

	if l.recorder != nil {
		if recErr := l.recorder.RecordRun(result); recErr != nil {
			logger.Warn("failed to record load run", "error", recErr)
		}
	}

	logger.Info("load finished",
		"status", result.Status(),
		"hydrated", result.Hydrated,
		"failed", result.Failed,
		"elapsed", result.CompletedAt.Sub(result.StartedAt),
	)
	return result, err
}

// reverseRecords returns the records newest first. The input is not modified.
func reverseRecords(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// hydrateSequential consumes queue from its tail, one record in flight at a time.
func (l *RecipeLoader) hydrateSequential(ctx context.Context, mode models.ListMode, queue []models.Record, result *LoadResult, progress chan<- ProgressUpdate, logger *log.Logger) error {
	total := len(queue)
	for step := 1; len(queue) > 0; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		record := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		out := l.hydrate(ctx, step, total, record, progress)
		if err := l.deliver(ctx, mode, step, total, out, result, progress, logger); err != nil {
			return err
		}
	}
	return nil
}

// hydrateBounded runs up to l.workers hydrations at once and delivers them in the sequential order.
func (l *RecipeLoader) hydrateBounded(ctx context.Context, mode models.ListMode, queue []models.Record, result *LoadResult, progress chan<- ProgressUpdate, logger *log.Logger) error {
	total := len(queue)
	slots := make([]chan hydration, total)
	for i := range slots {
		slots[i] = make(chan hydration, 1)
	}

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(workCtx)
	g.SetLimit(l.workers)

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i := range total {
			record := queue[total-1-i]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					slots[i] <- hydration{err: err, canceled: true}
					return nil
				}
				slots[i] <- l.hydrate(gctx, i+1, total, record, progress)
				return nil
			})
		}
	}()

	var deliverErr error
	for i := range slots {
		out := <-slots[i]
		if deliverErr = l.deliver(ctx, mode, i+1, total, out, result, progress, logger); deliverErr != nil {
			break
		}
	}

	if deliverErr != nil {
		cancel()
	}
	<-launched
	_ = g.Wait()
	return deliverErr
}

type hydration struct {
	recipe   models.Recipe
	failure  *models.HydrationFailure
	err      error
	canceled bool
}

// hydrate resolves author, steps and ingredients for one record, each call waiting on the previous.
func (l *RecipeLoader) hydrate(ctx context.Context, step, total int, record models.Record, progress chan<- ProgressUpdate) hydration {
	id := models.RecordID(record)
	stage := models.StageFetched

	fail := func(err error) hydration {
		if ctx.Err() != nil {
			return hydration{err: ctx.Err(), canceled: true}
		}
		return hydration{failure: &models.HydrationFailure{
			RecordID: id,
			Title:    record.String("title", "name"),
			Stage:    stage,
			Err:      err,
		}}
	}

	sendProgress(progress, stageUpdate(step, total, id, stage))
	author, err := l.api.Author(ctx, models.AuthorID(record))
	if err != nil {
		return fail(err)
	}
	stage = stage.Next()

	sendProgress(progress, stageUpdate(step, total, id, stage))
	steps, err := l.api.Steps(ctx, id)
	if err != nil {
		return fail(err)
	}
	stage = stage.Next()

	sendProgress(progress, stageUpdate(step, total, id, stage))
	ingredients, err := l.api.Ingredients(ctx, id)
	if err != nil {
		return fail(err)
	}

	return hydration{recipe: models.NewRecipe(record, author, steps, ingredients)}
}

// deliver appends a hydrated recipe or records a failure row, in order.
func (l *RecipeLoader) deliver(ctx context.Context, mode models.ListMode, step, total int, out hydration, result *LoadResult, progress chan<- ProgressUpdate, logger *log.Logger) error {
	if out.canceled {
		return out.err
	}

	if out.failure != nil {
		result.Failed++
		result.Failures = append(result.Failures, *out.failure)
		logger.Warn("recipe skipped", "recipe", out.failure.RecordID, "call", out.failure.FailedCall(), "error", out.failure.Err)
		sendProgress(progress, recipeFailedUpdate(step, total, *out.failure))
		return l.list.Fail(*out.failure)
	}

	if err := l.list.Append(out.recipe); err != nil {
		return err
	}
	result.Hydrated++
	sendProgress(progress, recipeVisibleUpdate(step, total, out.recipe))
	logger.Debug("recipe visible", "recipe", out.recipe.ID, "title", out.recipe.Title)

	if l.cacher != nil {
		if err := l.cacher.CacheRecipe(mode, out.recipe); err != nil {
			logger.Warn("failed to cache recipe", "recipe", out.recipe.ID, "error", err)
		}
	}

	return ctx.Err()
}

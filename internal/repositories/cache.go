package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/tasks"
)

// RecipeCacheAdapter implements tasks.RecipeCacher using RecipeRepository.
//
// Recipes are keyed by backend id: a recipe seen again is refreshed in place.
type RecipeCacheAdapter struct {
	repo *RecipeRepository
}

// NewRecipeCacheAdapter creates a new RecipeCacheAdapter with the given repository
func NewRecipeCacheAdapter(repo *RecipeRepository) *RecipeCacheAdapter {
	return &RecipeCacheAdapter{repo: repo}
}

// CacheRecipe stores or refreshes the snapshot of recipe.
func (a *RecipeCacheAdapter) CacheRecipe(mode models.ListMode, recipe models.Recipe) error {
	existing, err := a.repo.GetByRecipeID(recipe.ID)
	if err == nil && existing != nil {
		refreshed := models.NewCachedRecipe(existing.Sequence(), mode, recipe)
		refreshed.SetID(existing.ID())
		refreshed.SetCreatedAt(existing.CreatedAt())
		if err := a.repo.Update(refreshed); err != nil {
			return fmt.Errorf("failed to refresh cached recipe: %w", err)
		}
		return nil
	}

	if err := a.repo.Create(models.NewCachedRecipe(0, mode, recipe)); err != nil {
		return fmt.Errorf("failed to cache recipe: %w", err)
	}
	return nil
}

// LoadRunRecorder implements tasks.RunRecorder using LoadRunRepository.
type LoadRunRecorder struct {
	repo *LoadRunRepository
}

// NewLoadRunRecorder creates a new LoadRunRecorder with the given repository
func NewLoadRunRecorder(repo *LoadRunRepository) *LoadRunRecorder {
	return &LoadRunRecorder{repo: repo}
}

// RecordRun stores the outcome of a finished load under its run id. Skipped searches are not stored.
func (a *LoadRunRecorder) RecordRun(result *tasks.LoadResult) error {
	if result == nil || result.Skipped {
		return nil
	}

	run := models.NewLoadRun(0, result.Mode, result.Query)
	run.SetID(result.RunID)
	run.SetStartedAt(result.StartedAt)
	run.Finish(result.Status(), result.Total, result.Hydrated, result.Failed, result.Err)

	completed := result.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	run.SetCompletedAt(&completed)

	if err := a.repo.Create(run); err != nil {
		return fmt.Errorf("failed to record load run: %w", err)
	}
	return nil
}

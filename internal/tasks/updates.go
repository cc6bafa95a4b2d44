package tasks

import (
	"fmt"

	"github.com/desertthunder/recipebox/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchRecords Phase = iota
	ResolveAuthor
	ResolveSteps
	ResolveIngredients
	RecipeVisible
	RecipeFailed
	ExportRecipe
)

func (p Phase) String() string {
	switch p {
	case FetchRecords:
		return "fetch_records"
	case ResolveAuthor:
		return "resolve_author"
	case ResolveSteps:
		return "resolve_steps"
	case ResolveIngredients:
		return "resolve_ingredients"
	case RecipeVisible:
		return "recipe_visible"
	case RecipeFailed:
		return "recipe_failed"
	case ExportRecipe:
		return "export_recipe"
	default:
		return ""
	}
}

func fetchingRecordsUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecords,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s...", title),
	}
}

func fetchedRecordsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecords,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d recipes", total),
		Data:    total,
	}
}

// stageUpdate reports that a record is about to resolve the call after stage.
func stageUpdate(step, total int, id string, stage models.HydrationStage) ProgressUpdate {
	phase := ResolveAuthor
	call := "author"
	switch stage {
	case models.StageAuthorResolved:
		phase, call = ResolveSteps, "steps"
	case models.StageStepsResolved:
		phase, call = ResolveIngredients, "ingredients"
	}

	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] recipe %s: resolving %s...", step, total, id, call),
	}
}

func recipeVisibleUpdate(step, total int, recipe models.Recipe) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecipeVisible,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s by %s", step, total, recipe.Title, recipe.Author.DisplayName()),
		Data:    recipe,
	}
}

func recipeFailedUpdate(step, total int, failure models.HydrationFailure) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecipeFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %v", step, total, failure),
		Data:    failure,
	}
}

func exportingRecipeUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecipe,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, title),
	}
}

func exportCompletedUpdate(step, total int, title string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecipe,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, title, filesCount),
	}
}

func exportFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecipe,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/tasks"
)

var (
	_ list.Item = recipeItem{}
	_ list.Item = failureItem{}
)

// recipeItem wraps [models.Recipe] to implement [list.Item].
type recipeItem struct {
	recipe models.Recipe
}

func (i recipeItem) FilterValue() string { return i.recipe.Title }
func (i recipeItem) Title() string       { return i.recipe.Title }
func (i recipeItem) Description() string {
	return fmt.Sprintf("by %s • %d steps • %d ingredients",
		i.recipe.Author.DisplayName(), len(i.recipe.Steps), len(i.recipe.Ingredients))
}

// failureItem wraps [models.HydrationFailure] to implement [list.Item].
type failureItem struct {
	failure models.HydrationFailure
}

func (i failureItem) FilterValue() string { return i.failure.Title }
func (i failureItem) Title() string {
	name := i.failure.Title
	if name == "" {
		name = "recipe #" + i.failure.RecordID
	}
	return styles.warn.Render("⚠ " + name)
}
func (i failureItem) Description() string {
	return fmt.Sprintf("%s lookup failed: %v", i.failure.FailedCall(), i.failure.Err)
}

// snapshotItems lists recipes in list order followed by failure rows.
func snapshotItems(snap tasks.ListSnapshot) []list.Item {
	items := make([]list.Item, 0, len(snap.Recipes)+len(snap.Failures))
	for _, r := range snap.Recipes {
		items = append(items, recipeItem{recipe: r})
	}
	for _, f := range snap.Failures {
		items = append(items, failureItem{failure: f})
	}
	return items
}

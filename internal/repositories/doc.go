// Package repositories implements SQLite persistence for cached recipes and load history.
//
// Each repository implements models.Repository[T] with atomic sequence generation for stable ordering.
// Soft deletes set deleted_at and hide the row from every query; [RecipeRepository.Clear] removes rows outright.
//
// Key Implementations:
//   - [RecipeRepository] : Hydrated recipe snapshots, unique per backend recipe id
//   - [LoadRunRepository] : One row per finished list load or search
//   - [RecipeCacheAdapter] : tasks.RecipeCacher backed by [RecipeRepository]
//   - [LoadRunRecorder] : tasks.RunRecorder backed by [LoadRunRepository]
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

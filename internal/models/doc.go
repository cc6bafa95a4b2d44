// Package models defines domain entities and persistence interfaces for recipebox.
//
// The package contains two categories of types:
//
// 1. Backend entities: typed views over the loosely typed [Record] values returned by the recipe API
//   - [Recipe] : A fully hydrated recipe (author, steps, ingredients)
//   - [User] : Recipe author profile
//   - [RecipeStep] : One instruction step, ordered as the server returned it
//   - [RecipeIngredient] : One ingredient line, ordered as the server returned it
//
// 2. Persistent entities: SQLite-backed models with full lifecycle management
//   - [CachedRecipe] : Snapshot of a hydrated recipe, keyed by the backend recipe id
//   - [LoadRun] : One list load or search, with record, hydrated and failed counts
//
// [ListMode] selects which remote collection a load reads (top, personal, saved) and carries the list title shown by views.
// [HydrationStage] and [HydrationFailure] describe how far a record got before it failed.
package models

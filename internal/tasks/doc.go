// Package tasks loads recipe lists from the backend and keeps them in an observable list, with real-time progress reporting.
//
// # Pipeline
//
//  1. [RecipeLoader.Load] / [RecipeLoader.Search] : pick the endpoint
//     - "saved" and "personal" select those lists, any other mode is the top list
//     - search text is trimmed; empty text is skipped without a request
//  2. Fetch : one request per load; the records are reversed (newest first)
//  3. Hydrate : each record resolves author, then steps, then ingredients
//     - the reversed queue is consumed from its tail, so the first server record is hydrated first
//     - final list order equals server order and the newest record is appended last
//  4. Accumulate : complete recipes are appended to the [RecipeList]
//
// # Failures
//
// A failed fetch is returned to the caller. A failed hydration call skips that recipe only:
// a [models.HydrationFailure] row is added to the list and the load continues. There are no retries.
// Cancelling the context stops the whole load.
//
// # Concurrency
//
// Hydration is sequential by default. With [LoaderOptions.Workers] > 1 up to that many records
// are hydrated at once using an [errgroup.Group], and results are still appended in sequential order.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Persistence
//
// The optional [RecipeCacher] stores every visible recipe and [RunRecorder] stores one row per load.
// Both are best effort: errors are logged and never fail a load.
//
// # Export
//
// [Export] writes a list to disk with a pool of workers in any [formatter.Format] and writes a manifest.
package tasks

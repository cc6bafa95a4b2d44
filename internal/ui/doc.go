// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views over a single recipe list:
//  1. [ListView] : Recipes as they become visible, followed by skipped (failed) rows
//  2. [SearchView] : Free-text search input; empty input returns without a request
//  3. [DetailView] : One recipe rendered from markdown with glamour in a scrollable viewport
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// List changes arrive through a tasks.RecipeList subscription and load progress through the loader's progress channel.
// Starting a new load cancels the previous one and waits for it to return before touching the list.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, 1-3, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui

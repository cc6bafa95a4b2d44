package models

import (
	"fmt"
	"strings"
)

// ListMode selects which remote recipe collection a load reads.
type ListMode int

const (
	TopList ListMode = iota
	PersonalList
	SavedList
	SearchList
)

// SearchTitle is the list title while a non-empty search is active.
const SearchTitle = "Search Results:"

// ParseListMode maps a mode flag to a [ListMode].
//
// "saved" and "personal" select those lists; anything else, including "" and "search", is the top list.
// Searches are started with free text, never with a mode flag.
func ParseListMode(s string) ListMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "saved":
		return SavedList
	case "personal":
		return PersonalList
	default:
		return TopList
	}
}

func (m ListMode) String() string {
	switch m {
	case PersonalList:
		return "personal"
	case SavedList:
		return "saved"
	case SearchList:
		return "search"
	default:
		return "top"
	}
}

// Title returns the heading a view shows for the list.
func (m ListMode) Title() string {
	switch m {
	case PersonalList:
		return "My Recipes"
	case SavedList:
		return "Saved Recipes"
	case SearchList:
		return SearchTitle
	default:
		return "Top Recipes"
	}
}

// HydrationStage is how far a record got on its way to becoming a visible [Recipe].
type HydrationStage int

const (
	StageFetched HydrationStage = iota
	StageAuthorResolved
	StageStepsResolved
	StageIngredientsResolved
	StageVisible
)

func (s HydrationStage) String() string {
	switch s {
	case StageFetched:
		return "fetched"
	case StageAuthorResolved:
		return "author_resolved"
	case StageStepsResolved:
		return "steps_resolved"
	case StageIngredientsResolved:
		return "ingredients_resolved"
	case StageVisible:
		return "visible"
	default:
		return ""
	}
}

// Next returns the stage that follows s. StageVisible is terminal.
func (s HydrationStage) Next() HydrationStage {
	if s >= StageVisible {
		return StageVisible
	}
	return s + 1
}

// HydrationFailure records a record that could not be fully hydrated.
//
// Stage is the last stage reached; the failing call is the one that would have advanced it.
type HydrationFailure struct {
	RecordID string         `json:"record_id"`
	Title    string         `json:"title,omitempty"`
	Stage    HydrationStage `json:"-"`
	Err      error          `json:"-"`
}

// FailedCall names the call that failed, derived from Stage.
func (f HydrationFailure) FailedCall() string {
	switch f.Stage {
	case StageFetched:
		return "author"
	case StageAuthorResolved:
		return "steps"
	case StageStepsResolved:
		return "ingredients"
	default:
		return "unknown"
	}
}

func (f HydrationFailure) Error() string {
	return fmt.Sprintf("recipe %s: %s lookup failed: %v", f.RecordID, f.FailedCall(), f.Err)
}

func (f HydrationFailure) Unwrap() error { return f.Err }

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/recipebox/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	job  int
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListEvent MsgKind = iota
	MsgListClosed
	MsgProgressUpdate
	MsgLoadComplete
)

type loadComplete struct {
	result *tasks.LoadResult
	err    error
}

// listEventMsg is the constructor for [MsgListEvent]
func listEventMsg(ev tasks.ListEvent) Msg {
	return Msg{kind: MsgListEvent, data: ev}
}

// listClosedMsg is the constructor for [MsgListClosed]
func listClosedMsg() Msg {
	return Msg{kind: MsgListClosed}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(job int, update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, job: job, data: update}
}

// loadCompleteMsg is the constructor for [MsgLoadComplete]
func loadCompleteMsg(job int, result *tasks.LoadResult, err error) Msg {
	return Msg{kind: MsgLoadComplete, job: job, data: loadComplete{result: result, err: err}}
}

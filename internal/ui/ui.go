package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	SearchView
	DetailView
)

// Options configures a [Model].
type Options struct {
	Mode  string // initial list: "top", "personal" or "saved"
	Style string // glamour style for the detail view; empty picks one from the terminal background
}

type loadFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	loader      *tasks.RecipeLoader
	recipes     *tasks.RecipeList
	mode        string
	style       string
	events      <-chan tasks.ListEvent
	unsubscribe func()
	width       int
	height      int
	recipeList  list.Model
	search      textinput.Model
	spinner     spinner.Model
	detail      viewport.Model

	job          int
	cancel       context.CancelFunc
	running      chan struct{}
	progressChan chan tasks.ProgressUpdate
	done         chan loadComplete
	loading      bool
	progress     tasks.ProgressUpdate
	result       *tasks.LoadResult
	err          error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model that drives loader and renders the list it fills.
func NewModel(ctx context.Context, loader *tasks.RecipeLoader, opts Options) *Model {
	rl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	rl.Title = loader.List().Title()
	rl.SetFilteringEnabled(false)
	rl.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "Search recipes... (Enter to search, Esc to cancel)"
	ti.Prompt = "│ "
	ti.CharLimit = 256
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	events, unsubscribe := loader.List().Subscribe(64)

	return &Model{
		ctx:         ctx,
		view:        ListView,
		loader:      loader,
		recipes:     loader.List(),
		mode:        opts.Mode,
		style:       opts.Style,
		events:      events,
		unsubscribe: unsubscribe,
		recipeList:  rl,
		search:      ti,
		spinner:     sp,
		detail:      viewport.New(80, 20),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Err returns the error of the last load, if any.
func (m *Model) Err() error { return m.err }

// Init subscribes to list changes and loads the initial list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.spinner.Tick, m.loadMode(m.mode))
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recipeList.SetSize(msg.Width-4, msg.Height-8)
		m.search.Width = msg.Width - 8
		m.detail.Width = msg.Width - 4
		m.detail.Height = msg.Height - 4
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateComponents(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgListEvent:
		m.refreshItems()
		return m, m.waitForEvent()

	case MsgListClosed:
		return m, nil

	case MsgProgressUpdate:
		if msg.job != m.job {
			return m, nil
		}
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.job, m.progressChan, m.done)

	case MsgLoadComplete:
		if msg.job != m.job {
			return m, nil
		}
		c := msg.data.(loadComplete)
		m.loading = false
		m.result = c.result
		m.err = c.err
		if errors.Is(c.err, context.Canceled) {
			m.err = nil
		}
		m.refreshItems()
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case SearchView:
		return m.renderSearch()
	case DetailView:
		return m.renderDetail()
	default:
		return m.renderList()
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.top):
		return m, m.withSpinner(m.loadMode("top"))
	case key.Matches(msg, m.keys.personal):
		return m, m.withSpinner(m.loadMode("personal"))
	case key.Matches(msg, m.keys.saved):
		return m, m.withSpinner(m.loadMode("saved"))
	case key.Matches(msg, m.keys.reload):
		if q := m.recipes.Query(); q != "" {
			return m, m.withSpinner(m.searchText(q))
		}
		return m, m.withSpinner(m.loadMode(m.mode))
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.recipeList.SelectedItem().(recipeItem); ok {
			m.openDetail(item.recipe)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recipeList, cmd = m.recipeList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	case "esc":
		m.search.Blur()
		m.view = ListView
		return m, nil
	case "enter":
		text := m.search.Value()
		m.search.Reset()
		m.search.Blur()
		m.view = ListView
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		return m, m.withSpinner(m.searchText(text))
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.shutdown()
		return m, tea.Quit
	case "esc", "backspace":
		m.view = ListView
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ListView:
		m.recipeList, cmd = m.recipeList.Update(msg)
	case SearchView:
		m.search, cmd = m.search.Update(msg)
	case DetailView:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadMode(mode string) tea.Cmd {
	m.mode = mode
	return m.startLoad(func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error) {
		return m.loader.Load(ctx, mode, progress)
	})
}

func (m *Model) searchText(text string) tea.Cmd {
	return m.startLoad(func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error) {
		return m.loader.Search(ctx, text, progress)
	})
}

// startLoad cancels the running load and starts run once it has returned,
// so two loads never write to the list at the same time.
func (m *Model) startLoad(run loadFunc) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}

	m.job++
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	prev := m.running
	running := make(chan struct{})
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan loadComplete, 1)
	m.running = running
	m.progressChan = progress
	m.done = done

	go func() {
		defer close(running)
		if prev != nil {
			<-prev
		}
		result, err := run(ctx, progress)
		close(progress)
		done <- loadComplete{result: result, err: err}
	}()

	m.loading = true
	m.err = nil
	m.progress = tasks.ProgressUpdate{Message: "Loading..."}
	return waitForProgress(m.job, progress, done)
}

func (m *Model) withSpinner(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, m.spinner.Tick)
}

func waitForProgress(job int, progress <-chan tasks.ProgressUpdate, done <-chan loadComplete) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			c := <-done
			return loadCompleteMsg(job, c.result, c.err)
		}
		return progressUpdateMsg(job, update)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return listClosedMsg()
		}
		return listEventMsg(ev)
	}
}

func (m *Model) refreshItems() {
	snap := m.recipes.Snapshot()
	m.recipeList.Title = snap.Title
	m.recipeList.SetItems(snapshotItems(snap))
}

func (m *Model) openDetail(recipe models.Recipe) {
	md := string(formatter.RecipeToMarkdown(recipe, ""))
	out, err := m.renderMarkdown(md)
	if err != nil {
		out = md
	}
	m.detail.SetContent(out)
	m.detail.GotoTop()
	m.view = DetailView
}

func (m *Model) renderMarkdown(md string) (string, error) {
	width := m.detail.Width
	if width <= 0 {
		width = 80
	}

	styleOpt := glamour.WithAutoStyle()
	if m.style != "" {
		styleOpt = glamour.WithStandardStyle(m.style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) status() string {
	switch {
	case m.loading:
		return fmt.Sprintf("%s %s", m.spinner.View(), m.progress.Message)
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.result != nil:
		line := styles.ok.Render(fmt.Sprintf("✓ %d recipes", m.result.Hydrated))
		if q := m.recipes.Query(); q != "" {
			line += styles.help.Render(fmt.Sprintf(" for %q", q))
		}
		if m.result.Failed > 0 {
			line += " " + styles.warn.Render(fmt.Sprintf("(%d skipped)", m.result.Failed))
		}
		return line
	default:
		return ""
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.top, m.keys.personal, m.keys.saved, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s\n\n%s", m.status(), m.recipeList.View(), helpView)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search Recipes")
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		m.keys.back,
	})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.search.View(), helpView)
}

func (m *Model) renderDetail() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.detail.View(), helpView)
}

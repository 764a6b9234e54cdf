package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/editor"
	"github.com/desertthunder/lineup/internal/models"
	"github.com/desertthunder/lineup/internal/services"
	"github.com/desertthunder/lineup/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	LineupView
	SearchView
	ConfirmView
	SavingView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	view        ViewState
	svc         services.Service
	cred        models.Credential
	engine      tasks.Engine
	session     *editor.Session
	displayName string
	logger      *log.Logger
	width       int
	height      int
	cursor      int
	input       textinput.Model
	results     list.Model
	lastQuery   string
	searching   bool
	progress    tasks.ProgressUpdate
	updates     chan tasks.ProgressUpdate
	done        chan Msg
	playlist    *models.Playlist
	err         error
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, svc services.Service, cred models.Credential, engine tasks.Engine, displayName string, logger *log.Logger) *Model {
	input := textinput.New()
	input.Placeholder = "Search for an artist"
	input.CharLimit = 80

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Results"
	results.SetShowHelp(false)
	results.SetShowStatusBar(false)
	results.SetFilteringEnabled(false)

	return &Model{
		ctx:         ctx,
		view:        LoadingView,
		svc:         svc,
		cred:        cred,
		engine:      engine,
		displayName: displayName,
		logger:      logger,
		input:       input,
		results:     results,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init aggregates the lineups for every time window.
func (m *Model) Init() tea.Cmd {
	return m.fetchLineups()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(max(msg.Width-4, 20), max(msg.Height-18, 6))
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView, SavingView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case LineupView:
			return m.handleLineupKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLineupsFetched:
		set := msg.data.(models.LineupSet)
		if m.session == nil {
			m.session = editor.NewSession(m.svc, m.cred, set, m.logger)
		} else {
			m.session.Reload(set)
		}
		m.view = LineupView
		return m, nil

	case MsgSearchResults:
		r := msg.data.(searchResults)
		m.searching = false
		if m.view != SearchView {
			return m, nil
		}
		m.session.ApplyResults(r.artists)
		m.lastQuery = r.query
		return m, m.results.SetItems(artistItems(m.session.Results()))

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgPlaylistCreated:
		r := msg.data.(playlistCreated)
		m.playlist = r.playlist
		m.err = r.err
		m.updates = nil
		m.done = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case LineupView:
		return m.renderLineupView()
	case SearchView:
		return m.renderSearch()
	case ConfirmView:
		return m.renderConfirm()
	case SavingView:
		return m.renderSaving()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleLineupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		m.cursor = (m.cursor + models.LineupSize - 1) % models.LineupSize
	case key.Matches(msg, m.keys.right):
		m.cursor = (m.cursor + 1) % models.LineupSize
	case key.Matches(msg, m.keys.pick):
		m.session.SelectSlot(m.cursor)
		return m.syncView()
	case key.Matches(msg, m.keys.remove):
		m.session.RemoveSelected()
	case key.Matches(msg, m.keys.back):
		if i, ok := m.session.Selected(); ok {
			m.session.SelectSlot(i)
		}
	case key.Matches(msg, m.keys.window):
		next := (int(m.session.Window()) + 1) % len(models.TimeWindows)
		m.session.SetWindow(models.TimeWindow(next))
	case key.Matches(msg, m.keys.save):
		m.view = ConfirmView
	default:
		switch msg.String() {
		case "1", "2", "3":
			m.session.SetWindow(models.TimeWindow(msg.String()[0] - '1'))
		}
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.session.CloseSearch()
		return m.syncView()
	case "up", "ctrl+k":
		m.results.CursorUp()
		return m, nil
	case "down", "ctrl+j":
		m.results.CursorDown()
		return m, nil
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.searching {
			return m, nil
		}
		if query == m.lastQuery && len(m.session.Results()) > 0 {
			m.session.ChooseSearchResult(m.results.Index())
			return m.syncView()
		}
		m.searching = true
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = SavingView
		m.progress = tasks.ProgressUpdate{}
		return m, m.startSave()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.view = LineupView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "esc":
		m.view = LineupView
		m.playlist = nil
		m.err = nil
	}
	return m, nil
}

// syncView follows the session into or out of the search dialog.
func (m *Model) syncView() (tea.Model, tea.Cmd) {
	if m.session.SearchOpen() {
		m.view = SearchView
		m.input.SetValue("")
		m.lastQuery = ""
		m.searching = false
		return m, tea.Batch(m.input.Focus(), m.results.SetItems(nil))
	}
	m.view = LineupView
	m.input.Blur()
	return m, nil
}

func (m *Model) fetchLineups() tea.Cmd {
	return func() tea.Msg {
		return lineupsFetchedMsg(m.engine.Aggregate(m.ctx, m.svc, m.cred, nil))
	}
}

// search runs off the update goroutine. Lookup only reads the session's provider and credential.
func (m *Model) search(query string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		artists, _ := session.Lookup(ctx, query)
		return searchResultsMsg(query, artists)
	}
}

func (m *Model) startSave() tea.Cmd {
	updates := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.updates, m.done = updates, done

	artists := m.session.Artists()
	go func() {
		pl, err := m.engine.Synthesize(m.ctx, m.svc, m.cred, artists, m.displayName, updates)
		done <- playlistCreatedMsg(pl, err)
		close(updates)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, done := m.updates, m.done
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		if update, ok := <-updates; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) headline() string {
	return styles.title.Render(models.PlaylistName(models.LineupOwner(m.displayName)))
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(models.TimeWindows))
	for _, w := range models.TimeWindows {
		style := styles.tab
		if w == m.session.Window() {
			style = styles.tabOn
		}
		tabs = append(tabs, style.Render(w.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderSlots() string {
	selected, hasSelection := m.session.Selected()
	boxes := make([]string, models.LineupSize)
	for i, a := range m.session.Lineup() {
		name := a.Name
		if a.IsPlaceholder() {
			name = styles.empty.Render("+ " + a.Name)
		}

		style := styles.slot
		switch {
		case hasSelection && i == selected:
			style = styles.selected
		case i == m.cursor:
			style = styles.cursor
		}
		boxes[i] = style.Render(fmt.Sprintf("%d\n%s", i+1, name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) renderStatus() string {
	switch m.session.State() {
	case editor.SlotSelected:
		i, _ := m.session.Selected()
		return styles.help.Render(fmt.Sprintf("%s selected: pick another artist to swap, d to remove", m.session.Lineup()[i].Name))
	case editor.AwaitingNewArtist:
		return styles.help.Render("Search for an artist to fill the empty slot")
	default:
		return styles.help.Render("Select an artist to move it, or an empty slot to add one")
	}
}

func (m *Model) renderLoading() string {
	return fmt.Sprintf("%s\n\nFetching your top artists...", m.headline())
}

func (m *Model) renderLineupView() string {
	helpKeys := []key.Binding{m.keys.left, m.keys.right, m.keys.pick, m.keys.remove, m.keys.window, m.keys.save, m.keys.quit}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s",
		m.headline(),
		m.renderTabs(),
		m.renderSlots(),
		m.renderStatus(),
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderSearch() string {
	slot, _ := m.session.Selected()

	var body string
	switch {
	case m.searching:
		body = styles.help.Render("Searching...")
	case m.lastQuery != "" && len(m.session.Results()) == 0:
		body = styles.warn.Render(fmt.Sprintf("No artists found for %q", m.lastQuery))
	case len(m.session.Results()) > 0:
		body = m.results.View()
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.up, m.keys.down, m.keys.back}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s\n\n%s\n\n%s",
		m.headline(),
		m.renderTabs(),
		m.renderSlots(),
		styles.ok.Render(fmt.Sprintf("Add an artist to slot %d", slot+1)),
		m.input.View(),
		body,
		m.help.ShortHelpView(helpKeys),
	)
}

func (m *Model) renderConfirm() string {
	artists := m.session.Artists()
	name := models.PlaylistName(m.displayName)
	title := styles.title.Render(fmt.Sprintf("Create playlist '%s'?", name))

	var b strings.Builder
	fmt.Fprintf(&b, "\nUp to %d tracks from each of %d artists, shuffled:\n", services.TrackLimit, len(artists))
	for _, a := range artists {
		fmt.Fprintf(&b, "  • %s\n", a.Name)
	}
	if len(artists) == 0 {
		b.WriteString(styles.warn.Render("  The lineup is empty, the playlist will have no tracks.") + "\n")
	}

	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderSaving() string {
	title := styles.title.Render("Creating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTracks:
		phase = fmt.Sprintf("Fetching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = fmt.Sprintf("Creating playlist on %s...", m.svc.Name())
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back to lineup")),
		m.keys.quit,
	}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil || m.playlist == nil {
		msg := "Something went wrong creating your playlist. Please try again."
		if m.err != nil {
			msg = fmt.Sprintf("%s\n%v", msg, m.err)
		}
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(msg), helpView)
	}

	title := styles.ok.Render("✓ Playlist created!")
	info := fmt.Sprintf("\nName: %s\nTracks: %d", m.playlist.Name, len(m.playlist.Tracks))
	if m.playlist.URL != "" {
		info += fmt.Sprintf("\nOpen: %s", m.playlist.URL)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}

// Package tui is the terminal front end. It owns one game.Controller at a
// time and feeds it key presses, clock ticks and remote decision results.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/client"
	"github.com/tatianab/impact-games/internal/coach"
	"github.com/tatianab/impact-games/internal/export"
	"github.com/tatianab/impact-games/internal/game"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

// autosaveDelay is how long the proposal editor waits after the last edit
// before saving a draft.
const autosaveDelay = time.Second

// Deps are the services the front end drives.
type Deps struct {
	Catalog *catalog.Catalog
	Store   game.Persistence
	Coach   *coach.Coach
	// Remote, when set, folds Future Decisions rounds through the decision
	// service. Failures fall back to the local fold.
	Remote   *client.Client
	Exporter *export.Exporter
	Logger   *log.Logger
}

type sessionState int

const (
	stateChooseGame sessionState = iota
	stateLoading
	statePlaying
	stateError
)

type keyMap struct {
	Up, Down, Choose   key.Binding
	Submit, Review     key.Binding
	Report, Proposal   key.Binding
	Replay, Back, Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Submit, k.Review, k.Report, k.Proposal, k.Replay, k.Back, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Choose}, k.ShortHelp()[1:]}
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Choose:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
	Review:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "coach")),
	Report:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "export report")),
	Proposal: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export proposal")),
	Replay:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "replay")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "games")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

type model struct {
	state    sessionState
	deps     Deps
	games    []string
	ctrl     *game.Controller
	cursor   int
	editor   textarea.Model
	viewport viewport.Model
	help     help.Model
	feedback *coach.Feedback
	status   string
	loading  string
	err      error
	width    int
	height   int

	screen   game.Screen
	tickGen  int
	draftGen int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

func NewModel(deps Deps) model {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	ta := textarea.New()
	ta.Placeholder = "Describe partners, timeline and how you will protect people..."
	ta.CharLimit = 4000
	ta.SetHeight(8)
	ta.SetWidth(60)

	return model{
		state:    stateChooseGame,
		deps:     deps,
		games:    deps.Catalog.Games(),
		editor:   ta,
		viewport: viewport.New(60, 5),
		help:     help.New(),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

type tickMsg struct{ gen int }

type autosaveMsg struct{ gen int }

type foldedMsg struct {
	indicators models.Effects
	err        error
}

type reviewedMsg struct {
	feedback coach.Feedback
	err      error
}

type errMsg struct {
	err error
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{gen} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.mainWidth()
		m.editor.SetWidth(m.mainWidth())
		m.help.Width = msg.Width

	case tickMsg:
		if msg.gen != m.tickGen || m.ctrl == nil || m.ctrl.Session().Frozen {
			return m, nil
		}
		if m.state != statePlaying {
			return m, tickCmd(msg.gen)
		}
		out, err := m.ctrl.Dispatch(game.Tick{})
		m.afterDispatch(out, err)
		cmd := m.enterScreen()
		return m, tea.Batch(cmd, tickCmd(msg.gen))

	case autosaveMsg:
		if msg.gen != m.draftGen || m.ctrl == nil || m.ctrl.Session().Screen != game.ScreenProposal {
			return m, nil
		}
		if err := m.ctrl.SaveDraft(context.Background(), m.editor.Value()); err != nil {
			m.status = "Draft not saved: " + err.Error()
		}
		return m, nil

	case foldedMsg:
		m.state = statePlaying
		adv := game.Advance{Indicators: msg.indicators}
		if msg.err != nil {
			m.deps.Logger.Printf("remote fold failed, folding locally: %v", msg.err)
			m.status = "Decision service unavailable, results computed locally."
			adv = game.Advance{}
		}
		out, err := m.ctrl.Dispatch(adv)
		m.afterDispatch(out, err)
		cmd := m.enterScreen()
		return m, cmd

	case reviewedMsg:
		m.state = statePlaying
		if msg.err != nil {
			m.status = "Coach: " + msg.err.Error()
			return m, nil
		}
		fb := msg.feedback
		m.feedback = &fb
		return m, nil

	case errMsg:
		m.err = msg.err
		m.state = stateError
		return m, nil
	}

	if m.editing() {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case m.state == stateError || m.state == stateLoading:
		if key.Matches(msg, keys.Back) {
			return m, tea.Quit
		}
		return m, nil
	case m.state == stateChooseGame:
		return m.handleChooser(msg)
	}

	ctx := context.Background()
	switch {
	case key.Matches(msg, keys.Back):
		m.tickGen++
		m.ctrl = nil
		m.cursor = 0
		m.status = ""
		m.state = stateChooseGame
		return m, nil

	case key.Matches(msg, keys.Submit):
		if m.ctrl.Session().Screen != game.ScreenProposal {
			return m, nil
		}
		if err := m.ctrl.SaveDraft(ctx, m.editor.Value()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		if _, err := m.ctrl.Submit(ctx); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "Proposal submitted."
		cmd := m.enterScreen()
		return m, cmd

	case key.Matches(msg, keys.Review):
		if !m.deps.Coach.Enabled() {
			m.status = coach.ErrDisabled.Error()
			return m, nil
		}
		m.state = stateLoading
		m.loading = "Asking the coach"
		req := reviewRequest(m.ctrl, m.editor.Value())
		return m, func() tea.Msg {
			fb, err := m.deps.Coach.Review(ctx, req)
			return reviewedMsg{fb, err}
		}

	case key.Matches(msg, keys.Report, keys.Proposal):
		m.status = m.export(key.Matches(msg, keys.Report))
		return m, nil

	case key.Matches(msg, keys.Replay):
		if err := m.ctrl.Replay(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		cmd := m.enterScreen()
		return m, cmd
	}

	if m.editing() {
		var cmd tea.Cmd
		before := m.editor.Value()
		m.editor, cmd = m.editor.Update(msg)
		if m.editor.Value() == before {
			return m, cmd
		}
		m.draftGen++
		gen := m.draftGen
		return m, tea.Batch(cmd, tea.Tick(autosaveDelay, func(time.Time) tea.Msg { return autosaveMsg{gen} }))
	}

	items := menu(m.ctrl.Game(), m.ctrl.Session())
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Choose):
		if m.cursor >= len(items) {
			return m, nil
		}
		if reason := items[m.cursor].Locked; reason != "" {
			m.status = reason
			return m, nil
		}
		a := items[m.cursor].Action
		if cmd := m.remoteFold(a); cmd != nil {
			return m, cmd
		}
		out, err := m.ctrl.Dispatch(a)
		m.afterDispatch(out, err)
		cmd := m.enterScreen()
		return m, cmd
	}
	return m, nil
}

func (m model) handleChooser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.games)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Choose):
		if len(m.games) == 0 {
			return m, nil
		}
		ctrl, err := m.startGame(m.games[m.cursor])
		if err != nil {
			return m, func() tea.Msg { return errMsg{err} }
		}
		m.ctrl = ctrl
		m.state = statePlaying
		m.status = ""
		m.screen = ""
		if ctrl.Session().Frozen {
			m.status = "This game was already submitted."
		}
		m.tickGen++
		cmd := m.enterScreen()
		return m, tea.Batch(cmd, tickCmd(m.tickGen))
	}
	return m, nil
}

func (m model) startGame(id string) (*game.Controller, error) {
	g, err := game.New(m.deps.Catalog, id)
	if err != nil {
		return nil, err
	}
	ctrl := game.NewController(g, m.deps.Store, m.deps.Logger)
	if err := ctrl.Boot(context.Background()); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// remoteFold sends an answered dashboard round to the decision service.
// It returns nil when the round should be folded locally.
func (m *model) remoteFold(a game.Action) tea.Cmd {
	if _, ok := a.(game.Advance); !ok || m.deps.Remote == nil {
		return nil
	}
	s := m.ctrl.Session()
	e := m.ctrl.Entry()
	if s.Screen != game.ScreenDashboard || e == nil || !m.ctrl.CanAdvance() {
		return nil
	}
	decisions, err := game.RoundDecisions(s, e)
	if err != nil {
		return nil
	}
	state := simulate.State{ScenarioID: e.ID, Round: s.Round, Indicators: s.Indicators}
	remote := m.deps.Remote
	m.state = stateLoading
	m.loading = "Simulating the round"
	return func() tea.Msg {
		next, err := remote.FoldRound(context.Background(), state, decisions)
		return foldedMsg{indicators: next.Indicators, err: err}
	}
}

func (m *model) afterDispatch(out game.Outcome, err error) {
	switch {
	case errors.Is(err, game.ErrFrozen):
		m.status = "This game was already submitted."
	case err != nil:
		m.status = err.Error()
	case out.Kind == game.OutcomeBlocked || out.Kind == game.OutcomeTimesUp || out.Kind == game.OutcomeNothingLeft:
		m.status = out.Message
	default:
		m.status = ""
	}
	m.refreshLog()
}

// enterScreen resets per-screen state after a transition and loads the
// proposal draft when the editor opens.
func (m *model) enterScreen() tea.Cmd {
	m.refreshLog()
	s := m.ctrl.Session()
	if n := len(menu(m.ctrl.Game(), s)); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if s.Screen == m.screen {
		return nil
	}
	m.screen = s.Screen
	m.cursor = 0
	m.feedback = nil

	if s.Screen != game.ScreenProposal || s.Frozen {
		m.editor.Blur()
		return nil
	}
	text, err := m.ctrl.LoadDraft(context.Background())
	if err != nil {
		m.status = "Draft not loaded: " + err.Error()
	}
	m.editor.SetValue(text)
	return m.editor.Focus()
}

func (m *model) refreshLog() {
	if m.ctrl == nil {
		return
	}
	var content string
	for _, l := range m.ctrl.Session().Log {
		content += helpStyle.Render(l) + "\n"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m model) export(report bool) string {
	if m.deps.Exporter == nil {
		return "Exports are not configured."
	}
	if s := m.ctrl.Session(); s.Screen == game.ScreenProposal && !s.Frozen {
		if err := m.ctrl.SaveDraft(context.Background(), m.editor.Value()); err != nil {
			return "Draft not saved: " + err.Error()
		}
	}
	g, s := m.ctrl.Game(), m.ctrl.Session()
	var (
		path string
		err  error
	)
	if report {
		path, err = m.deps.Exporter.Report(g, s)
	} else {
		path, err = m.deps.Exporter.Proposal(g, s)
	}
	if err != nil {
		return "Export failed: " + err.Error()
	}
	return "Saved " + path
}

func (m model) editing() bool {
	return m.state == statePlaying && m.ctrl != nil && m.editor.Focused() &&
		m.ctrl.Session().Screen == game.ScreenProposal
}

func (m model) mainWidth() int {
	return int(float64(m.width) * 0.70)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateChooseGame:
		items := make([]choice, 0, len(m.games))
		for _, id := range m.games {
			items = append(items, choice{Label: gameNames[id], Detail: gameBlurbs[id]})
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Impact Games"),
			"\nChoose a game:\n",
			renderMenu(items, m.cursor, m.mainWidth(), 0),
			helpStyle.Render("enter to play, esc to quit"),
		)

	case stateLoading:
		s = fmt.Sprintf("\n  %s... please wait.\n", m.loading)

	case statePlaying:
		sess := m.ctrl.Session()
		width := m.mainWidth()
		parts := []string{
			titleStyle.Render(ScreenTitle(sess.Screen)),
			"",
			describe(m.ctrl, width, m.feedback),
		}
		if sess.Screen == game.ScreenProposal && !sess.Frozen {
			parts = append(parts, m.editor.View())
		}
		parts = append(parts, renderMenu(menu(m.ctrl.Game(), sess), m.cursor, width, max(5, m.height-20)))
		main := lipgloss.JoinVertical(lipgloss.Left, parts...)

		panel := stateStyle.Width(int(float64(m.width) * 0.25)).Render(renderPanel(m.ctrl))
		body := lipgloss.JoinHorizontal(lipgloss.Top, main, panel)

		status := ""
		if m.status != "" {
			status = noticeStyle.Render(m.status)
		}
		s = lipgloss.JoinVertical(lipgloss.Left,
			body,
			m.viewport.View(),
			status,
			m.help.View(keys),
		)

	case stateError:
		s = fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.", m.err)
	}

	return "\n" + s + "\n"
}

// Run starts the interactive program.
func Run(deps Deps) error {
	p := tea.NewProgram(NewModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

package tui

import (
	"context"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/export"
	"github.com/tatianab/impact-games/internal/game"
	"github.com/tatianab/impact-games/internal/models"
)

func loadGame(t *testing.T, id string) *game.Game {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	g, err := game.New(cat, id)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return g
}

func play(t *testing.T, g *game.Game, s *game.Session, actions ...game.Action) *game.Session {
	t.Helper()
	for _, a := range actions {
		var err error
		s, _, err = game.Reduce(s, g, a)
		if err != nil {
			t.Fatalf("%T%+v: %v", a, a, err)
		}
	}
	return s
}

func labels(items []choice) []string {
	var out []string
	for _, c := range items {
		out = append(out, c.Label)
	}
	return out
}

func TestSelectMenuListsEntries(t *testing.T) {
	g := loadGame(t, models.GameDetective)
	s := game.NewSession("t", g.ID(), game.ScreenCaseSelect)
	items := menu(g, s)
	if len(items) != len(g.Content.Entries) {
		t.Fatalf("Expected one choice per case, got %v", labels(items))
	}
	if a, ok := items[0].Action.(game.StartEntry); !ok || a.EntryID != "vanishing-classrooms" {
		t.Errorf("Unexpected first action %+v", items[0].Action)
	}
}

func TestHubMenu(t *testing.T) {
	g := loadGame(t, models.GameDetective)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenCaseSelect),
		game.StartEntry{EntryID: "vanishing-classrooms"},
		game.Advance{},
	)
	if s.Screen != game.ScreenHub {
		t.Fatalf("Expected hub, got %s", s.Screen)
	}
	items := menu(g, s)
	// Four locations, five tools and Continue.
	if len(items) != 10 {
		t.Fatalf("Expected 10 choices, got %v", labels(items))
	}
	if items[0].Label != "Visit Riverside High School" {
		t.Errorf("Unexpected first choice %q", items[0].Label)
	}
	if _, ok := items[len(items)-1].Action.(game.Advance); !ok {
		t.Errorf("Expected Continue last, got %+v", items[len(items)-1])
	}

	s = play(t, g, s, game.UseTool{Tool: "heat-vision"}, game.Advance{})
	for _, c := range menu(g, s) {
		if a, ok := c.Action.(game.UseTool); ok && a.Tool == "heat-vision" && !c.Selected {
			t.Error("Expected used tools to be marked")
		}
	}
}

func TestDeductionMenuCyclesColumns(t *testing.T) {
	g := loadGame(t, models.GameDetective)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenCaseSelect),
		game.StartEntry{EntryID: "vanishing-classrooms"},
		game.Advance{},
		game.Investigate{Location: "school"},
		game.Advance{},
	)
	if s.Screen != game.ScreenDeduction {
		t.Fatalf("Expected deduction board, got %s", s.Screen)
	}
	for _, want := range []string{game.ColumnSymptoms, game.ColumnCauses, game.ColumnRoot, ""} {
		c := menu(g, s)[0]
		p, ok := c.Action.(game.Place)
		if !ok || p.Column != want {
			t.Fatalf("Expected a move to %q, got %+v", want, c.Action)
		}
		s = play(t, g, s, p)
	}
}

func TestSlotMenusFollowScreen(t *testing.T) {
	g := loadGame(t, models.GameBuildBreakFix)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenChallengeSelect),
		game.StartEntry{EntryID: "flood-alert"},
	)
	for _, c := range menu(g, s) {
		if strings.HasPrefix(c.Label, "[risks]") {
			t.Fatalf("Break slots leaked into the build menu: %q", c.Label)
		}
	}
	e, _ := g.Entry("flood-alert")
	first := menu(g, s)[0]
	if sel, ok := first.Action.(game.Select); !ok || sel.Slot != "approach" || sel.Option != e.Options["approach"][0].ID {
		t.Errorf("Expected build slots in name order, got %+v", first.Action)
	}
}

func TestContinueLockedUntilGateOpens(t *testing.T) {
	g := loadGame(t, models.GameBuildBreakFix)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenChallengeSelect),
		game.StartEntry{EntryID: "flood-alert"},
		game.Select{Slot: "problem", Option: "p1"},
		game.Select{Slot: "users", Option: "u1"},
		game.Select{Slot: "approach", Option: "a1"},
		game.Select{Slot: "data", Option: "d1"},
		game.Select{Slot: "metric", Option: "m1"},
	)
	items := menu(g, s)
	last := items[len(items)-1]
	if _, ok := last.Action.(game.Advance); !ok || last.Locked == "" {
		t.Fatalf("Expected a locked Continue with one data source, got %+v", last)
	}
	if !strings.Contains(renderMenu(items, 0, 60, 0), "Continue (locked)") {
		t.Error("Expected the locked Continue to render as locked")
	}

	s = play(t, g, s, game.Select{Slot: "data", Option: "d2"})
	items = menu(g, s)
	if last := items[len(items)-1]; last.Label != "Continue" || last.Locked != "" {
		t.Errorf("Expected Continue to unlock once every slot is filled, got %+v", last)
	}
}

func playingModel(t *testing.T, id string, deps Deps) model {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	deps.Catalog = cat
	if deps.Store == nil {
		deps.Store = &memStore{submitted: map[string]bool{}, drafts: map[string]string{}}
	}
	m := NewModel(deps)
	ctrl, err := m.startGame(id)
	if err != nil {
		t.Fatalf("startGame: %v", err)
	}
	m.ctrl = ctrl
	m.state = statePlaying
	return m
}

func TestChoosingLockedContinueExplains(t *testing.T) {
	m := playingModel(t, models.GameBuildBreakFix, Deps{})
	m.ctrl.TransitionTo(game.ScreenChallengeSelect)
	if _, err := m.ctrl.Dispatch(game.StartEntry{EntryID: "flood-alert"}); err != nil {
		t.Fatal(err)
	}
	items := menu(m.ctrl.Game(), m.ctrl.Session())
	m.cursor = len(items) - 1

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if got := m.ctrl.Session().Screen; got != game.ScreenBuild {
		t.Errorf("Expected to stay on build, got %s", got)
	}
	if m.status != items[m.cursor].Locked {
		t.Errorf("Expected the gate reason as status, got %q", m.status)
	}
}

func TestExportSavesEditorText(t *testing.T) {
	store := &memStore{submitted: map[string]bool{}, drafts: map[string]string{}}
	m := playingModel(t, models.GameFutureDecisions, Deps{Store: store, Exporter: export.New(t.TempDir())})
	m.ctrl.TransitionTo(game.ScreenProposal)
	m.editor.SetValue("Open cooling centers in every library.")

	status := m.export(false)
	path, ok := strings.CutPrefix(status, "Saved ")
	if !ok {
		t.Fatalf("Expected a saved export, got %q", status)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Open cooling centers in every library.") {
		t.Errorf("Expected the unsaved editor text in the export, got:\n%s", data)
	}
	if m.ctrl.Session().Proposal != "Open cooling centers in every library." {
		t.Errorf("Expected the session to hold the proposal, got %q", m.ctrl.Session().Proposal)
	}
	if len(store.drafts) != 1 {
		t.Errorf("Expected the draft to be autosaved, got %v", store.drafts)
	}
}

func TestDashboardMenuTagsQuestions(t *testing.T) {
	g := loadGame(t, models.GameFutureDecisions)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenScenarioSelect),
		game.StartEntry{EntryID: "climate_floods"},
	)
	items := menu(g, s)
	if !strings.HasPrefix(items[0].Label, "[Q1] Everyone gets alerts") {
		t.Errorf("Unexpected first choice %q", items[0].Label)
	}
	if sel, ok := items[0].Action.(game.Select); !ok || sel.Slot != "who_gets_alerts" {
		t.Errorf("Expected the question id as the slot, got %+v", items[0].Action)
	}
}

func TestFrozenMenuIsEmpty(t *testing.T) {
	g := loadGame(t, models.GameFutureDecisions)
	s := play(t, g, game.NewSession("t", g.ID(), game.ScreenScenarioSelect), game.Freeze{})
	if items := menu(g, s); len(items) != 0 {
		t.Errorf("Expected no choices on a submitted game, got %v", labels(items))
	}
}

type memStore struct {
	submitted map[string]bool
	drafts    map[string]string
}

func (m *memStore) IsSubmitted(_ context.Context, g string) (bool, error) {
	return m.submitted[g], nil
}

func (m *memStore) MarkSubmitted(_ context.Context, g string, _ models.Submission) error {
	m.submitted[g] = true
	return nil
}

func (m *memStore) SaveDraft(_ context.Context, g, id, text string) error {
	m.drafts[g+"/"+id] = text
	return nil
}

func (m *memStore) LoadDraft(_ context.Context, g, id string) (string, error) {
	return m.drafts[g+"/"+id], nil
}

func TestChooserStartsGame(t *testing.T) {
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	store := &memStore{submitted: map[string]bool{models.GameFutureDecisions: true}, drafts: map[string]string{}}
	m := NewModel(Deps{Catalog: cat, Store: store})

	// Games are listed in id order: ai-detective, build-break-fix,
	// future-decisions.
	for range 2 {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if m.state != statePlaying || m.ctrl == nil {
		t.Fatalf("Expected a running game, got state %d", m.state)
	}
	if !m.ctrl.Session().Frozen || m.status == "" {
		t.Errorf("Expected the submitted game to open frozen with a notice, got %q", m.status)
	}
	if !strings.Contains(m.View(), "Submitted") {
		t.Error("Expected the submission screen to render")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	if m.state != stateChooseGame || m.ctrl != nil {
		t.Errorf("Expected esc to return to the game list, got state %d", m.state)
	}
}

func TestNextColumn(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", game.ColumnSymptoms},
		{game.ColumnSymptoms, game.ColumnCauses},
		{game.ColumnCauses, game.ColumnRoot},
		{game.ColumnRoot, ""},
	}
	for _, tt := range tests {
		if got := nextColumn(tt.in); got != tt.want {
			t.Errorf("nextColumn(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

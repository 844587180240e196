package game

import (
	"maps"
	"slices"

	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

// Screen names one full-screen state of a game flow.
type Screen string

// DialogueCursor is the walker position inside one actor's graph. It holds
// no history.
type DialogueCursor struct {
	Actor string `json:"actor"`
	Node  string `json:"node"`
}

// RoundResult is a completed Build-Break-Fix round.
type RoundResult struct {
	EntryID    string              `json:"entryId"`
	Title      string              `json:"title"`
	Selections map[string][]string `json:"selections"`
	Scores     models.Effects      `json:"scores"`
	Total      int64               `json:"total"`
}

// Session is the whole mutable state of one play-through. Reduce never
// modifies a Session in place; it returns an updated clone.
type Session struct {
	ID     string `json:"id"`
	Game   string `json:"game"`
	Screen Screen `json:"screen"`

	EntryID       string `json:"entryId,omitempty"`
	TimeRemaining int    `json:"timeRemaining"`
	TimerExpired  bool   `json:"timerExpired,omitempty"`
	Elapsed       int    `json:"elapsed"`
	Resources     int    `json:"resources"`

	Collected   []string          `json:"collected,omitempty"`
	Interviewed map[string]bool   `json:"interviewed,omitempty"`
	Trust       map[string]int    `json:"trust,omitempty"`
	Dialogue    *DialogueCursor   `json:"dialogue,omitempty"`
	Board       map[string]string `json:"board,omitempty"`
	ToolsUsed   []string          `json:"toolsUsed,omitempty"`
	ToolOutput  string            `json:"toolOutput,omitempty"`

	Selections map[string][]string `json:"selections,omitempty"`

	Rounds     []RoundResult       `json:"rounds,omitempty"`
	Round      int                 `json:"round"`
	Indicators models.Effects      `json:"indicators,omitempty"`
	Decisions  []simulate.Decision `json:"decisions,omitempty"`

	Scores   models.Effects `json:"scores,omitempty"`
	Badge    string         `json:"badge,omitempty"`
	Proposal string         `json:"proposal,omitempty"`
	Log      []string       `json:"log,omitempty"`
	Notice   string         `json:"notice,omitempty"`
	Frozen   bool           `json:"frozen,omitempty"`
}

// NewSession returns an empty session positioned on screen.
func NewSession(id, game string, screen Screen) *Session {
	return &Session{
		ID:          id,
		Game:        game,
		Screen:      screen,
		Interviewed: make(map[string]bool),
		Trust:       make(map[string]int),
		Board:       make(map[string]string),
		Selections:  make(map[string][]string),
	}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Collected = slices.Clone(s.Collected)
	c.ToolsUsed = slices.Clone(s.ToolsUsed)
	c.Log = slices.Clone(s.Log)
	c.Interviewed = maps.Clone(s.Interviewed)
	c.Trust = maps.Clone(s.Trust)
	c.Board = maps.Clone(s.Board)
	c.Indicators = maps.Clone(s.Indicators)
	c.Scores = maps.Clone(s.Scores)
	if s.Dialogue != nil {
		d := *s.Dialogue
		c.Dialogue = &d
	}
	c.Selections = make(map[string][]string, len(s.Selections))
	for k, v := range s.Selections {
		c.Selections[k] = slices.Clone(v)
	}
	c.Rounds = make([]RoundResult, len(s.Rounds))
	for i, r := range s.Rounds {
		r.Scores = maps.Clone(r.Scores)
		sel := make(map[string][]string, len(r.Selections))
		for k, v := range r.Selections {
			sel[k] = slices.Clone(v)
		}
		r.Selections = sel
		c.Rounds[i] = r
	}
	if s.Rounds == nil {
		c.Rounds = nil
	}
	c.Decisions = make([]simulate.Decision, len(s.Decisions))
	for i, d := range s.Decisions {
		d.ToolsUsed = slices.Clone(d.ToolsUsed)
		d.Effects = maps.Clone(d.Effects)
		c.Decisions[i] = d
	}
	if s.Decisions == nil {
		c.Decisions = nil
	}
	return &c
}

// HasCollected reports whether an item is in the collected set.
func (s *Session) HasCollected(id string) bool {
	return slices.Contains(s.Collected, id)
}

// Selected returns the option ids chosen for a slot in choice order.
func (s *Session) Selected(slot string) []string {
	return s.Selections[slot]
}

// IsSelected reports whether an option is chosen in a slot.
func (s *Session) IsSelected(slot, id string) bool {
	return slices.Contains(s.Selections[slot], id)
}

// UsedTool reports whether a tool was used this session.
func (s *Session) UsedTool(id string) bool {
	return slices.Contains(s.ToolsUsed, id)
}

// Column returns the items placed in one deduction column, in collection
// order.
func (s *Session) Column(column string) []string {
	var ids []string
	for _, id := range s.Collected {
		if s.Board[id] == column {
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *Session) note(msg string) {
	s.Log = append(s.Log, msg)
}

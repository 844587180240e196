package game

import (
	"fmt"
	"maps"

	"github.com/tatianab/impact-games/internal/models"
)

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// StartEntry chooses a catalog entry and begins a fresh session on it.
type StartEntry struct{ EntryID string }

// Navigate moves to any known screen without consulting gates.
type Navigate struct{ To Screen }

// Advance leaves the current screen through its gate. Indicators, when
// set, carry a remote decision result that replaces the local fold.
type Advance struct{ Indicators models.Effects }

// Select chooses or toggles an option in a slot.
type Select struct{ Slot, Option string }

// Investigate visits a location on the investigation map.
type Investigate struct{ Location string }

// Reply follows edge Edge of the open conversation with Actor.
type Reply struct {
	Actor string
	Edge  int
}

// UseTool runs an AI tool from the toolbox.
type UseTool struct{ Tool string }

// Place puts a collected item in a deduction column.
type Place struct{ Item, Column string }

// EditProposal replaces the closing proposal text.
type EditProposal struct{ Text string }

// Tick is one second of wall-clock time.
type Tick struct{}

// Replay discards the session and returns to entry selection.
type Replay struct{ ID string }

// Freeze marks the session submitted and moves to the terminal screen.
type Freeze struct{}

func (StartEntry) isAction()   {}
func (Navigate) isAction()     {}
func (Advance) isAction()      {}
func (Select) isAction()       {}
func (Investigate) isAction()  {}
func (Reply) isAction()        {}
func (UseTool) isAction()      {}
func (Place) isAction()        {}
func (EditProposal) isAction() {}
func (Tick) isAction()         {}
func (Replay) isAction()       {}
func (Freeze) isAction()       {}

// OutcomeKind classifies what an action did.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeMoved
	OutcomeSelected
	OutcomeItemFound
	OutcomeDialogueStarted
	OutcomeNothingLeft
	OutcomeDialogueAdvanced
	OutcomeDialogueEnded
	OutcomeToolUsed
	OutcomeTimesUp
	OutcomeBlocked
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMoved:
		return "moved"
	case OutcomeSelected:
		return "selected"
	case OutcomeItemFound:
		return "item-found"
	case OutcomeDialogueStarted:
		return "dialogue-started"
	case OutcomeNothingLeft:
		return "nothing-left"
	case OutcomeDialogueAdvanced:
		return "dialogue-advanced"
	case OutcomeDialogueEnded:
		return "dialogue-ended"
	case OutcomeToolUsed:
		return "tool-used"
	case OutcomeTimesUp:
		return "times-up"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "none"
	}
}

// Outcome is the user-visible result of an action.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	Item    *models.Item
	Actor   string
}

// Reduce applies an action to a session and returns the new session. The
// input is never modified; on error it is returned unchanged. Reduce is
// deterministic in its arguments.
func Reduce(s *Session, g *Game, a Action) (*Session, Outcome, error) {
	if s.Frozen {
		return s, Outcome{}, ErrFrozen
	}
	next := s.Clone()
	out, err := apply(next, g, a)
	if err != nil {
		return s, Outcome{}, err
	}
	return next, out, nil
}

func apply(s *Session, g *Game, a Action) (Outcome, error) {
	f := g.Flow
	e, _ := g.Entry(s.EntryID)

	switch a := a.(type) {
	case StartEntry:
		return start(s, g, a.EntryID)

	case Navigate:
		if !f.Known(a.To) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownScreen, a.To)
		}
		return transition(s, g, a.To), nil

	case Advance:
		return advance(s, g, e, a)

	case Select:
		if e == nil {
			return Outcome{}, ErrNoEntry
		}
		if err := choose(s, f, e, a.Slot, a.Option); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeSelected}, nil

	case Investigate:
		if err := requireScreen(s, e, ScreenHub); err != nil {
			return Outcome{}, err
		}
		return investigate(s, g, e, a.Location)

	case Reply:
		if err := requireScreen(s, e, ScreenInterrogation); err != nil {
			return Outcome{}, err
		}
		return reply(s, g, e, a.Actor, a.Edge)

	case UseTool:
		if err := requireScreen(s, e, ScreenHub, ScreenEvidence); err != nil {
			return Outcome{}, err
		}
		return useTool(s, g, a.Tool)

	case Place:
		if err := requireScreen(s, e, ScreenDeduction); err != nil {
			return Outcome{}, err
		}
		if err := place(s, a.Item, a.Column); err != nil {
			return Outcome{}, err
		}
		return Outcome{Kind: OutcomeSelected}, nil

	case EditProposal:
		if s.Screen != ScreenProposal {
			return Outcome{}, fmt.Errorf("%w: %s", ErrWrongScreen, s.Screen)
		}
		s.Proposal = a.Text
		return Outcome{}, nil

	case Tick:
		return tick(s, g, e)

	case Replay:
		*s = *NewSession(a.ID, g.ID(), f.Select)
		return Outcome{Kind: OutcomeMoved}, nil

	case Freeze:
		s.Frozen = true
		s.Screen = f.Terminal
		return Outcome{Kind: OutcomeMoved}, nil
	}
	return Outcome{}, fmt.Errorf("unsupported action %T", a)
}

func requireScreen(s *Session, e *models.Entry, screens ...Screen) error {
	if e == nil {
		return ErrNoEntry
	}
	for _, sc := range screens {
		if s.Screen == sc {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrWrongScreen, s.Screen)
}

// start creates a fresh session on an entry. Multi-round flows keep the
// rounds already played and the clock time spent on them.
func start(s *Session, g *Game, id string) (Outcome, error) {
	f := g.Flow
	if s.Screen != f.Select {
		return Outcome{}, fmt.Errorf("%w: %s", ErrWrongScreen, s.Screen)
	}
	e, ok := g.Entry(id)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	fresh := NewSession(s.ID, g.ID(), f.Select)
	if f.Rounds > 1 && len(s.Rounds) < f.Rounds {
		fresh.Rounds = s.Rounds
		fresh.Elapsed = s.Elapsed
	}
	fresh.EntryID = e.ID
	fresh.TimeRemaining = e.TimeLimitMinutes * 60
	fresh.Resources = e.InitialEnergy
	if fresh.Resources == 0 {
		fresh.Resources = e.InitialBudget
	}
	for _, actor := range e.Actors {
		fresh.Trust[actor.ID] = clampTrust(actor.Trust)
	}
	fresh.Indicators = maps.Clone(e.InitialIndicators)
	fresh.note(fmt.Sprintf("Started %s.", e.Title))

	*s = *fresh
	return transition(s, g, f.Start), nil
}

func transition(s *Session, g *Game, to Screen) Outcome {
	step := g.Flow.Steps[to]
	s.Screen = to
	s.Notice = ""
	if step.ResetTimer > 0 {
		s.TimeRemaining = step.ResetTimer
		s.TimerExpired = false
	}
	return Outcome{Kind: OutcomeMoved}
}

func advance(s *Session, g *Game, e *models.Entry, a Advance) (Outcome, error) {
	step := g.Flow.Steps[s.Screen]
	if step.Next == "" && step.exit == nil {
		return Outcome{}, fmt.Errorf("%w: %s is the last screen", ErrGateClosed, s.Screen)
	}
	if err := step.Gate.Err(s, e); err != nil {
		return Outcome{}, err
	}
	return leave(s, g, e, step, step.Next, a)
}

func leave(s *Session, g *Game, e *models.Entry, step Step, to Screen, a Advance) (Outcome, error) {
	if step.exit != nil {
		override, err := step.exit(s, g, e, a)
		if err != nil {
			return Outcome{}, err
		}
		if override != "" {
			to = override
		}
	}
	return transition(s, g, to), nil
}

// tick counts a timed screen down. At zero the screen's time's-up
// successor is entered only when the gate is satisfied; otherwise a single
// blocking notice is raised and the player must finish the screen.
func tick(s *Session, g *Game, e *models.Entry) (Outcome, error) {
	step := g.Flow.Steps[s.Screen]
	if !step.Timed {
		return Outcome{}, nil
	}
	if s.TimeRemaining > 0 {
		s.TimeRemaining--
		s.Elapsed++
	}
	if s.TimeRemaining > 0 {
		return Outcome{}, nil
	}

	if reason := step.Gate.Reason(s, e); reason != "" {
		if s.TimerExpired {
			return Outcome{}, nil
		}
		s.TimerExpired = true
		s.Notice = fmt.Sprintf("Time's up! Before moving on: %s.", reason)
		return Outcome{Kind: OutcomeBlocked, Message: s.Notice}, nil
	}

	to := step.TimesUp
	if to == "" {
		to = step.Next
	}
	if _, err := leave(s, g, e, step, to, Advance{}); err != nil {
		return Outcome{}, err
	}
	s.note("Time's up.")
	return Outcome{Kind: OutcomeTimesUp, Message: "Time's up."}, nil
}

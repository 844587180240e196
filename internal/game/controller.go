package game

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/impact-games/internal/models"
)

// Persistence is the one-shot submission flag plus draft autosave.
type Persistence interface {
	IsSubmitted(ctx context.Context, game string) (bool, error)
	MarkSubmitted(ctx context.Context, game string, sub models.Submission) error
	SaveDraft(ctx context.Context, game, entryID, text string) error
	LoadDraft(ctx context.Context, game, entryID string) (string, error)
}

// Controller is the single writer of one game's session. It is not safe
// for concurrent use; the UI event loop owns it.
type Controller struct {
	game    *Game
	store   Persistence
	logger  *log.Logger
	session *Session
	now     func() time.Time
}

// NewController returns a controller for g. A nil logger logs to stderr.
func NewController(g *Game, store Persistence, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(os.Stderr, "[GAME] ", log.LstdFlags)
	}
	return &Controller{
		game:    g,
		store:   store,
		logger:  logger,
		session: NewSession(uuid.NewString(), g.ID(), g.Flow.Initial),
		now:     time.Now,
	}
}

// Boot routes the first screen. The persistence gate is consulted before
// anything else: a submitted game opens frozen on its terminal screen.
func (c *Controller) Boot(ctx context.Context) error {
	submitted, err := c.store.IsSubmitted(ctx, c.game.ID())
	if err != nil {
		return fmt.Errorf("check submission: %w", err)
	}
	s := NewSession(uuid.NewString(), c.game.ID(), c.game.Flow.Initial)
	if submitted {
		s.Screen = c.game.Flow.Terminal
		s.Frozen = true
		c.logger.Printf("boot game=%s submitted=true screen=%s", c.game.ID(), s.Screen)
	}
	c.session = s
	return nil
}

// Game returns the game being played.
func (c *Controller) Game() *Game { return c.game }

// Session returns the current session. Callers must treat it as read-only.
func (c *Controller) Session() *Session { return c.session }

// Entry returns the active catalog entry, or nil.
func (c *Controller) Entry() *models.Entry {
	e, _ := c.game.Entry(c.session.EntryID)
	return e
}

// CanAdvance reports whether the current screen's gate is satisfied.
func (c *Controller) CanAdvance() bool {
	if c.session.Frozen {
		return false
	}
	return c.game.Flow.CanAdvance(c.session, c.Entry())
}

// LiveScores recomputes the scores of the current selections.
func (c *Controller) LiveScores() models.Effects {
	e := c.Entry()
	if e == nil {
		return nil
	}
	return ComputeScores(c.session, e, c.game.Content.Scoring, c.game.Content.Tools)
}

// Dispatch reduces an action into the session.
func (c *Controller) Dispatch(a Action) (Outcome, error) {
	next, out, err := Reduce(c.session, c.game, a)
	if err != nil {
		return out, err
	}
	if next.Screen != c.session.Screen {
		c.logger.Printf("transition game=%s from=%s to=%s", c.game.ID(), c.session.Screen, next.Screen)
	}
	if out.Kind == OutcomeBlocked {
		c.logger.Printf("timer_blocked game=%s screen=%s notice=%q", c.game.ID(), next.Screen, out.Message)
	}
	c.session = next
	return out, nil
}

// TransitionTo moves to a screen. Unknown screens are logged and ignored.
func (c *Controller) TransitionTo(screen Screen) {
	if !c.game.Flow.Known(screen) {
		c.logger.Printf("transition_ignored game=%s screen=%s reason=unknown", c.game.ID(), screen)
		return
	}
	if _, err := c.Dispatch(Navigate{To: screen}); err != nil {
		c.logger.Printf("transition_failed game=%s screen=%s error=%q", c.game.ID(), screen, err)
	}
}

// Replay starts over on the selection screen. The submission flag is kept.
func (c *Controller) Replay() error {
	_, err := c.Dispatch(Replay{ID: uuid.NewString()})
	return err
}

// DraftKey is the entry id drafts are stored under.
func (c *Controller) DraftKey() string {
	s := c.session
	if s.EntryID != "" {
		return s.EntryID
	}
	if n := len(s.Rounds); n > 0 {
		return s.Rounds[n-1].EntryID
	}
	return "session"
}

// LoadDraft restores an autosaved proposal into the session.
func (c *Controller) LoadDraft(ctx context.Context) (string, error) {
	text, err := c.store.LoadDraft(ctx, c.game.ID(), c.DraftKey())
	if err != nil {
		return "", err
	}
	if text != "" {
		if _, err := c.Dispatch(EditProposal{Text: text}); err != nil {
			return "", err
		}
	}
	return text, nil
}

// SaveDraft records the proposal in the session and autosaves it.
func (c *Controller) SaveDraft(ctx context.Context, text string) error {
	if _, err := c.Dispatch(EditProposal{Text: text}); err != nil {
		return err
	}
	return c.store.SaveDraft(ctx, c.game.ID(), c.DraftKey(), text)
}

// Submit closes the game: the proposal gate must pass, the submission is
// written through the persistence gate, and the session is frozen.
func (c *Controller) Submit(ctx context.Context) (models.Submission, error) {
	s := c.session
	if s.Frozen {
		return models.Submission{}, ErrFrozen
	}
	if s.Screen != ScreenProposal {
		return models.Submission{}, fmt.Errorf("%w: %s", ErrWrongScreen, s.Screen)
	}
	if err := c.game.Flow.Steps[ScreenProposal].Gate.Err(s, c.Entry()); err != nil {
		return models.Submission{}, err
	}

	sub := c.submission()
	if err := c.store.MarkSubmitted(ctx, c.game.ID(), sub); err != nil {
		return models.Submission{}, fmt.Errorf("mark submitted: %w", err)
	}
	if _, err := c.Dispatch(Advance{}); err != nil {
		return models.Submission{}, err
	}
	if _, err := c.Dispatch(Freeze{}); err != nil {
		return models.Submission{}, err
	}
	c.logger.Printf("submitted game=%s id=%s entries=%d badge=%q", c.game.ID(), sub.ID, len(sub.CompletedEntries), sub.Badge)
	return sub, nil
}

func (c *Controller) submission() models.Submission {
	s := c.session
	sub := models.Submission{
		ID:        uuid.NewString(),
		Proposal:  s.Proposal,
		Scores:    s.Scores,
		Badge:     s.Badge,
		Timestamp: c.now().UTC(),
	}
	for _, r := range s.Rounds {
		sub.CompletedEntries = append(sub.CompletedEntries, models.CompletedEntry{
			ID:         r.EntryID,
			Title:      r.Title,
			Selections: r.Selections,
			Scores:     r.Scores,
		})
	}
	if len(sub.CompletedEntries) == 0 {
		if e := c.Entry(); e != nil {
			sub.CompletedEntries = []models.CompletedEntry{{ID: e.ID, Title: e.Title, Scores: s.Scores}}
		}
	}
	return sub
}

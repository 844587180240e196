package game

import (
	"fmt"
	"strings"

	"github.com/tatianab/impact-games/internal/models"
)

// Check returns a human readable reason why a screen cannot be left yet,
// or "" when it is satisfied.
type Check func(s *Session, e *models.Entry) string

// Gate is the conjunction of a screen's checks.
type Gate []Check

// Reason returns the first failing check's reason, or "".
func (g Gate) Reason(s *Session, e *models.Entry) string {
	for _, c := range g {
		if reason := c(s, e); reason != "" {
			return reason
		}
	}
	return ""
}

// Err reports the first failing check wrapped in ErrGateClosed.
func (g Gate) Err(s *Session, e *models.Entry) error {
	if reason := g.Reason(s, e); reason != "" {
		return fmt.Errorf("%w: %s", ErrGateClosed, reason)
	}
	return nil
}

// SlotCount requires exactly N selections in Slot.
type SlotCount struct {
	Slot string
	N    int
}

func entryChosen(s *Session, _ *models.Entry) string {
	if s.EntryID == "" {
		return "choose a case first"
	}
	return ""
}

func exactly(counts ...SlotCount) Check {
	return func(s *Session, _ *models.Entry) string {
		for _, c := range counts {
			if len(s.Selections[c.Slot]) != c.N {
				if c.N == 1 {
					return fmt.Sprintf("choose one %s", c.Slot)
				}
				return fmt.Sprintf("choose exactly %d %s", c.N, c.Slot)
			}
		}
		return ""
	}
}

func collectedAtLeast(n int) Check {
	return func(s *Session, _ *models.Entry) string {
		if len(s.Collected) < n {
			return fmt.Sprintf("collect at least %d piece(s) of evidence", n)
		}
		return ""
	}
}

func boardFilled(columns ...string) Check {
	return func(s *Session, _ *models.Entry) string {
		for _, col := range columns {
			if len(s.Column(col)) == 0 {
				return fmt.Sprintf("place evidence in the %s column", col)
			}
		}
		return ""
	}
}

func roundAnswered(s *Session, e *models.Entry) string {
	if e == nil || s.Round >= len(e.Rounds) {
		return "no round in progress"
	}
	for _, q := range e.Rounds[s.Round].Questions {
		if len(s.Selections[q.ID]) != 1 {
			return "answer every decision question"
		}
	}
	return ""
}

func proposalWritten(s *Session, _ *models.Entry) string {
	if strings.TrimSpace(s.Proposal) == "" {
		return "write your proposal first"
	}
	return ""
}

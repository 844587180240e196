package game

import (
	"fmt"

	"github.com/tatianab/impact-games/internal/models"
)

// investigate resolves a visit to a location. It yields exactly one of
// three outcomes: the first uncollected item in declaration order, the
// opening of an uninterviewed actor's dialogue, or nothing left.
func investigate(s *Session, g *Game, e *models.Entry, location string) (Outcome, error) {
	loc, ok := e.Location(location)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	for _, it := range e.ItemsAt(location) {
		if s.HasCollected(it.ID) {
			continue
		}
		s.Collected = append(s.Collected, it.ID)
		msg := fmt.Sprintf("Found %s at %s.", it.Name, loc.Name)
		if it.Decoy {
			s.TimeRemaining = max(0, s.TimeRemaining-DecoyTimePenalty)
			if a, ok := e.ActorAt(location); ok {
				s.Trust[a.ID] = clampTrust(s.Trust[a.ID] - DecoyTrustPenalty)
			}
			msg += " It was a red herring and cost you time."
		}
		s.note(msg)
		found := it
		return Outcome{Kind: OutcomeItemFound, Message: msg, Item: &found}, nil
	}

	if a, ok := e.ActorAt(location); ok && !s.Interviewed[a.ID] {
		s.Dialogue = &DialogueCursor{Actor: a.ID, Node: a.Root}
		transition(s, g, ScreenInterrogation)
		msg := fmt.Sprintf("%s agrees to talk.", a.Name)
		s.note(msg)
		return Outcome{Kind: OutcomeDialogueStarted, Message: msg, Actor: a.ID}, nil
	}

	msg := fmt.Sprintf("Nothing left to find at %s.", loc.Name)
	return Outcome{Kind: OutcomeNothingLeft, Message: msg}, nil
}

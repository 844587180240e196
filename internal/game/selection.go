package game

import (
	"fmt"
	"slices"

	"github.com/tatianab/impact-games/internal/models"
)

// OptionFor resolves an option id within a slot. A slot is either one of
// the entry's option sets or the id of a decision question.
func OptionFor(e *models.Entry, slot, id string) (models.Option, bool) {
	if o, ok := e.Option(slot, id); ok {
		return o, true
	}
	if q, ok := e.Question(slot); ok {
		for _, o := range q.Options {
			if o.ID == id {
				return o, true
			}
		}
	}
	return models.Option{}, false
}

// choose applies a selection. Single-select slots replace their value.
// Multi-select slots toggle, and a choice past the bound is rejected.
func choose(s *Session, f *Flow, e *models.Entry, slot, id string) error {
	if _, ok := OptionFor(e, slot, id); !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownOption, slot, id)
	}
	sl := f.Slot(slot)
	if sl.Screen != "" && sl.Screen != s.Screen {
		return fmt.Errorf("%w: %s is chosen on %s", ErrWrongScreen, slot, sl.Screen)
	}
	if len(e.Rounds) > 0 && !inRound(e, s.Round, slot) {
		return fmt.Errorf("%w: %s is not part of this round", ErrUnknownOption, slot)
	}

	cur := s.Selections[slot]
	if sl.Max <= 1 {
		s.Selections[slot] = []string{id}
		return nil
	}
	if i := slices.Index(cur, id); i >= 0 {
		s.Selections[slot] = slices.Delete(slices.Clone(cur), i, i+1)
		return nil
	}
	if len(cur) >= sl.Max {
		return fmt.Errorf("%w: %s takes at most %d", ErrSlotFull, slot, sl.Max)
	}
	s.Selections[slot] = append(slices.Clone(cur), id)
	return nil
}

func inRound(e *models.Entry, round int, question string) bool {
	if round >= len(e.Rounds) {
		return false
	}
	for _, q := range e.Rounds[round].Questions {
		if q.ID == question {
			return true
		}
	}
	return false
}

// place puts a collected item in a deduction column, moving it out of any
// other column. An empty column removes it from the board.
func place(s *Session, item, column string) error {
	if !s.HasCollected(item) {
		return fmt.Errorf("%w: %s", ErrNotCollected, item)
	}
	if column == "" {
		delete(s.Board, item)
		return nil
	}
	if !slices.Contains(BoardColumns, column) {
		return fmt.Errorf("%w: column %s", ErrUnknownOption, column)
	}
	s.Board[item] = column
	return nil
}

package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tatianab/impact-games/internal/game"
	"github.com/tatianab/impact-games/internal/models"
)

// choice is one line of the action menu.
type choice struct {
	Label    string
	Detail   string
	Selected bool
	// Locked holds why the action is unavailable, "" when it can be taken.
	Locked   string
	Action   game.Action
}

var screenTitles = map[game.Screen]string{
	game.ScreenSplash:          "Welcome",
	game.ScreenCaseSelect:      "Choose a Case",
	game.ScreenBriefing:        "Case Briefing",
	game.ScreenHub:             "Investigation Hub",
	game.ScreenEvidence:        "Evidence Analysis",
	game.ScreenInterrogation:   "Interview",
	game.ScreenDeduction:       "Deduction Board",
	game.ScreenAccusation:      "Final Accusation",
	game.ScreenResults:         "Case Results",
	game.ScreenHowToPlay:       "How to Play",
	game.ScreenChallengeSelect: "Choose a Challenge",
	game.ScreenBuild:           "Build",
	game.ScreenBreak:           "Break",
	game.ScreenFix:             "Fix",
	game.ScreenRoundSummary:    "Round Summary",
	game.ScreenFinalResults:    "Final Results",
	game.ScreenScenarioSelect:  "Choose a Scenario",
	game.ScreenDashboard:       "Dashboard",
	game.ScreenSummary:         "Summary",
	game.ScreenProposal:        "Your Proposal",
	game.ScreenSubmission:      "Submitted",
}

// ScreenTitle is the heading shown for a screen.
func ScreenTitle(s game.Screen) string {
	if t, ok := screenTitles[s]; ok {
		return t
	}
	return string(s)
}

// menu lists what the player can do on the session's current screen.
func menu(g *game.Game, s *game.Session) []choice {
	if s.Frozen {
		return nil
	}
	f := g.Flow
	e, _ := g.Entry(s.EntryID)

	var out []choice
	switch s.Screen {
	case f.Select:
		for _, en := range g.Content.Entries {
			out = append(out, choice{
				Label:  en.Title,
				Detail: en.Summary,
				Action: game.StartEntry{EntryID: en.ID},
			})
		}
		return out

	case game.ScreenHub:
		if e == nil {
			break
		}
		for _, loc := range e.Locations {
			out = append(out, choice{
				Label:  "Visit " + loc.Name,
				Action: game.Investigate{Location: loc.ID},
			})
		}
		out = append(out, toolChoices(g, s)...)

	case game.ScreenEvidence:
		out = append(out, toolChoices(g, s)...)

	case game.ScreenInterrogation:
		_, node, ok := game.CurrentNode(s, e)
		if ok {
			for i, ed := range node.Edges {
				out = append(out, choice{
					Label:  ed.Label,
					Action: game.Reply{Actor: s.Dialogue.Actor, Edge: i},
				})
			}
			// A conversation is left through its end replies.
			return out
		}

	case game.ScreenDeduction:
		if e == nil {
			break
		}
		for _, id := range s.Collected {
			it, _ := e.Item(id)
			col := s.Board[id]
			out = append(out, choice{
				Label:    fmt.Sprintf("%s -> %s", it.Name, columnLabel(nextColumn(col))),
				Detail:   columnLabel(col),
				Selected: col != "",
				Action:   game.Place{Item: id, Column: nextColumn(col)},
			})
		}

	case game.ScreenDashboard:
		if e != nil && s.Round < len(e.Rounds) {
			for i, q := range e.Rounds[s.Round].Questions {
				out = append(out, optionChoices(s, fmt.Sprintf("Q%d", i+1), q.ID, q.Options)...)
			}
		}

	case game.ScreenProposal, f.Terminal:
		return nil

	default:
		if e != nil {
			for _, slot := range slotsOn(f, s.Screen) {
				out = append(out, optionChoices(s, slot, slot, e.Options[slot])...)
			}
		}
	}

	if step := f.Steps[s.Screen]; step.Next != "" {
		c := choice{Label: "Continue", Action: game.Advance{}}
		if reason := step.Gate.Reason(s, e); reason != "" {
			c.Label = "Continue (locked)"
			c.Detail = reason
			c.Locked = reason
		}
		out = append(out, c)
	}
	return out
}

func toolChoices(g *game.Game, s *game.Session) []choice {
	var out []choice
	for _, t := range g.Content.Tools {
		out = append(out, choice{
			Label:    fmt.Sprintf("Use %s (%d energy)", t.Name, t.Cost),
			Detail:   t.Description,
			Selected: s.UsedTool(t.ID),
			Action:   game.UseTool{Tool: t.ID},
		})
	}
	return out
}

func optionChoices(s *game.Session, tag, slot string, opts []models.Option) []choice {
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, choice{
			Label:    fmt.Sprintf("[%s] %s", tag, o.Label),
			Detail:   o.Description,
			Selected: s.IsSelected(slot, o.ID),
			Action:   game.Select{Slot: slot, Option: o.ID},
		})
	}
	return out
}

// slotsOn returns the slots chosen on a screen in name order.
func slotsOn(f *game.Flow, screen game.Screen) []string {
	var slots []string
	for name, sl := range f.Slots {
		if sl.Screen == screen {
			slots = append(slots, name)
		}
	}
	slices.Sort(slots)
	return slots
}

// nextColumn cycles an item through the board columns and back off it.
func nextColumn(col string) string {
	i := slices.Index(game.BoardColumns, col)
	if i+1 >= len(game.BoardColumns) {
		return ""
	}
	return game.BoardColumns[i+1]
}

func columnLabel(col string) string {
	if col == "" {
		return "off the board"
	}
	return strings.ToUpper(col[:1]) + col[1:]
}

package tui

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/tatianab/impact-games/internal/coach"
	"github.com/tatianab/impact-games/internal/game"
	"github.com/tatianab/impact-games/internal/models"
)

var gameNames = map[string]string{
	models.GameDetective:       "AI Detective",
	models.GameBuildBreakFix:   "Build-Break-Fix",
	models.GameFutureDecisions: "Future Decisions",
}

var gameBlurbs = map[string]string{
	models.GameDetective:       "Investigate a community mystery, interview witnesses and accuse the real root cause.",
	models.GameBuildBreakFix:   "Design an AI solution, stress-test it, then fix it. Three timed challenges.",
	models.GameFutureDecisions: "Run a city through a crisis, one round of decisions at a time.",
}

const howToPlay = `Each challenge has three timed phases of two minutes:

  Build  choose the problem, users, approach, data and success metric.
  Break  pick the three risks most likely to sink your design.
  Fix    add ethics safeguards, governance, partners and a feasibility plan.

When the clock runs out you move on, as long as every choice is made.`

// describe renders the main text of the current screen.
func describe(ctrl *game.Controller, width int, fb *coach.Feedback) string {
	s := ctrl.Session()
	g := ctrl.Game()
	e := ctrl.Entry()
	text := gameStyle.Width(width)

	var b strings.Builder
	line := func(format string, args ...any) {
		b.WriteString(text.Render(fmt.Sprintf(format, args...)))
		b.WriteString("\n")
	}

	switch s.Screen {
	case game.ScreenSplash:
		line("%s", gameBlurbs[g.ID()])

	case game.ScreenHowToPlay:
		line("%s", howToPlay)

	case g.Flow.Select:
		if n := len(s.Rounds); n > 0 {
			line("Challenge %d of %d. Pick the next one.", n+1, g.Flow.Rounds)
		} else {
			line("Pick one to begin.")
		}

	case game.ScreenBriefing:
		line("%s", e.Summary)
		if e.Setting != "" {
			line("Setting: %s", e.Setting)
		}
		for _, o := range e.Objectives {
			line("- %s", o)
		}

	case game.ScreenHub:
		line("Visit a location to collect evidence or meet a witness. Tools cost energy.")
		if len(s.Collected) > 0 {
			b.WriteString("\n" + titleStyle.Render("EVIDENCE") + "\n")
			for _, id := range s.Collected {
				it, _ := e.Item(id)
				line("- %s: %s", it.Name, it.Description)
			}
		}

	case game.ScreenEvidence:
		line("%s", s.ToolOutput)

	case game.ScreenInterrogation:
		if a, node, ok := game.CurrentNode(s, e); ok {
			line("%s (trust %d)", a.Name, s.Trust[a.ID])
			line("%q", node.Text)
		}

	case game.ScreenDeduction:
		line("Sort the evidence into symptoms, causes and the root.")
		for _, col := range game.BoardColumns {
			b.WriteString("\n" + titleStyle.Render(strings.ToUpper(col)) + "\n")
			for _, id := range s.Column(col) {
				it, _ := e.Item(id)
				line("- %s", it.Name)
			}
		}

	case game.ScreenBuild, game.ScreenBreak, game.ScreenFix, game.ScreenAccusation:
		if e != nil {
			line("%s: %s", e.Title, e.Summary)
		}

	case game.ScreenDashboard:
		if e != nil && s.Round < len(e.Rounds) {
			r := e.Rounds[s.Round]
			line("Round %d of %d: %s", s.Round+1, len(e.Rounds), r.Title)
			line("%s", r.Situation)
			for _, t := range r.Tools {
				line("Tool %s: %s (+ %s / - %s)", t.Name, t.Description, t.Pros, t.Cons)
			}
			for i, q := range r.Questions {
				line("Q%d: %s", i+1, q.Prompt)
			}
		}

	case game.ScreenResults, game.ScreenRoundSummary, game.ScreenFinalResults, game.ScreenSummary:
		if s.Badge != "" {
			line("Badge: %s", s.Badge)
		}
		line("%s", formatScores(s.Scores))
		if s.Screen == game.ScreenRoundSummary && len(s.Rounds) > 0 {
			line("Round total: %d", s.Rounds[len(s.Rounds)-1].Total)
		}

	case game.ScreenProposal:
		line("Write a short proposal for how you would put this plan into action.")
		if fb != nil {
			b.WriteString("\n" + titleStyle.Render("COACH") + "\n")
			line("%s", fb.Summary)
			for _, st := range fb.Strengths {
				line("+ %s", st)
			}
			for _, gap := range fb.Gaps {
				line("- %s", gap)
			}
		}

	case g.Flow.Terminal:
		line("Your proposal has been submitted. Thank you for playing.")
		if s.Badge != "" {
			line("Badge: %s", s.Badge)
		}
	}

	if s.Notice != "" {
		b.WriteString("\n" + noticeStyle.Width(width).Render(s.Notice) + "\n")
	}
	return b.String()
}

// renderPanel renders the status column: clock, resources, trust and live
// scores.
func renderPanel(ctrl *game.Controller) string {
	s := ctrl.Session()
	g := ctrl.Game()
	e := ctrl.Entry()

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME") + "\n" + gameNames[g.ID()] + "\n")
	if e != nil {
		b.WriteString(e.Title + "\n")
	}
	b.WriteString("\n")

	if g.Flow.Steps[s.Screen].Timed {
		b.WriteString(fmt.Sprintf("Time: %s\n", clock(s.TimeRemaining)))
	}
	if g.Flow.Rounds > 1 {
		b.WriteString(fmt.Sprintf("Challenges: %d/%d\n", len(s.Rounds), g.Flow.Rounds))
	}
	if e != nil && e.InitialEnergy > 0 {
		b.WriteString(fmt.Sprintf("Energy: %d\n", s.Resources))
	}
	if e != nil && e.InitialBudget > 0 {
		b.WriteString(fmt.Sprintf("Budget: %d\n", s.Resources))
	}

	if e != nil && len(e.Actors) > 0 {
		b.WriteString("\n" + titleStyle.Render("TRUST") + "\n")
		for _, a := range e.Actors {
			b.WriteString(fmt.Sprintf("%s: %d\n", a.Name, s.Trust[a.ID]))
		}
	}

	if len(s.Indicators) > 0 {
		b.WriteString("\n" + titleStyle.Render("INDICATORS") + "\n" + formatScores(s.Indicators) + "\n")
	} else if live := ctrl.LiveScores(); len(live) > 0 && s.Scores == nil {
		b.WriteString("\n" + titleStyle.Render("SCORES") + "\n" + formatScores(live) + "\n")
	}
	return b.String()
}

func formatScores(scores models.Effects) string {
	var lines []string
	for _, k := range slices.Sorted(maps.Keys(scores)) {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strconv.FormatFloat(scores[k], 'f', -1, 64)))
	}
	return strings.Join(lines, "\n")
}

func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// renderMenu draws at most limit choices, scrolled to keep the cursor in
// view, followed by the highlighted choice's detail.
func renderMenu(items []choice, cursor, width, limit int) string {
	if len(items) == 0 {
		return ""
	}
	cursor = min(max(cursor, 0), len(items)-1)
	start := 0
	if limit > 0 && cursor >= limit {
		start = cursor - limit + 1
	}
	end := len(items)
	if limit > 0 {
		end = min(end, start+limit)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		c := items[i]
		mark := "  "
		if c.Selected {
			mark = "* "
		}
		switch {
		case i == cursor:
			b.WriteString(userStyle.Width(width).Render("> " + mark + c.Label))
		case c.Locked != "":
			b.WriteString(helpStyle.Render("  " + mark + c.Label))
		default:
			b.WriteString(gameStyle.Render("  " + mark + c.Label))
		}
		b.WriteString("\n")
	}
	if d := items[cursor].Detail; d != "" {
		b.WriteString(helpStyle.Width(width).Render(d) + "\n")
	}
	return b.String()
}

// reviewRequest collects what the coach needs from a finished session.
func reviewRequest(ctrl *game.Controller, proposal string) coach.Request {
	s := ctrl.Session()
	g := ctrl.Game()
	req := coach.Request{
		Game:     gameNames[g.ID()],
		Badge:    s.Badge,
		Scores:   s.Scores,
		Proposal: proposal,
	}
	if e := ctrl.Entry(); e != nil {
		req.Title = e.Title
		req.Context = e.Summary
	}
	var titles []string
	for _, r := range s.Rounds {
		titles = append(titles, r.Title)
		e, ok := g.Entry(r.EntryID)
		if !ok {
			continue
		}
		for _, slot := range slices.Sorted(maps.Keys(r.Selections)) {
			for _, id := range r.Selections[slot] {
				if o, ok := game.OptionFor(e, slot, id); ok {
					req.Choices = append(req.Choices, slot+": "+o.Label)
				}
			}
		}
	}
	if req.Title == "" {
		req.Title = strings.Join(titles, ", ")
	}
	for _, d := range s.Decisions {
		req.Choices = append(req.Choices, d.QuestionText+": "+d.OptionText)
	}
	return req
}

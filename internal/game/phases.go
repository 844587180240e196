package game

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

func leaveInterrogation(s *Session, _ *Game, _ *models.Entry, _ Advance) (Screen, error) {
	s.Dialogue = nil
	return "", nil
}

func snapshot(s *Session, e *models.Entry, scores models.Effects, total int64) RoundResult {
	sel := make(map[string][]string, len(s.Selections))
	for k, v := range s.Selections {
		sel[k] = slices.Clone(v)
	}
	return RoundResult{
		EntryID:    e.ID,
		Title:      e.Title,
		Selections: sel,
		Scores:     scores,
		Total:      total,
	}
}

// closeCase scores the accusation and awards the case badge.
func closeCase(s *Session, g *Game, e *models.Entry, _ Advance) (Screen, error) {
	s.Scores = ComputeScores(s, e, g.Content.Scoring, g.Content.Tools)
	s.Badge = DetectiveBadge(s.Scores, len(s.Selections["partners"]))
	s.Rounds = []RoundResult{snapshot(s, e, s.Scores, CaseTotal(s.Scores))}
	s.note(fmt.Sprintf("Case closed: %s.", s.Badge))
	return "", nil
}

// closeRound scores a finished Build-Break-Fix challenge.
func closeRound(s *Session, g *Game, e *models.Entry, _ Advance) (Screen, error) {
	s.Scores = ComputeScores(s, e, g.Content.Scoring, nil)
	total := RoundTotal(s.Scores)
	s.Rounds = append(s.Rounds, snapshot(s, e, s.Scores, total))
	s.note(fmt.Sprintf("Round %d complete: %s scored %d.", len(s.Rounds), e.Title, total))
	return "", nil
}

// nextChallenge returns to challenge selection until every round is played,
// then awards the final badge.
func nextChallenge(s *Session, g *Game, _ *models.Entry, _ Advance) (Screen, error) {
	if len(s.Rounds) < g.Flow.Rounds {
		s.EntryID = ""
		s.Selections = make(map[string][]string)
		return ScreenChallengeSelect, nil
	}
	s.Scores = RoundMeans(s.Rounds)
	s.Badge = FinalBadge(s.Scores, time.Duration(s.Elapsed)*time.Second)
	s.note(fmt.Sprintf("All challenges complete: %s.", s.Badge))
	return "", nil
}

// RoundDecisions builds the decisions of the current Future Decisions round
// from the session's answers, in question order.
func RoundDecisions(s *Session, e *models.Entry) ([]simulate.Decision, error) {
	if s.Round >= len(e.Rounds) {
		return nil, fmt.Errorf("%w: no round %d", ErrGateClosed, s.Round+1)
	}
	round := e.Rounds[s.Round]
	tools := make([]string, 0, len(round.Tools))
	for _, t := range round.Tools {
		tools = append(tools, t.ID)
	}
	var out []simulate.Decision
	for _, q := range round.Questions {
		sel := s.Selections[q.ID]
		if len(sel) != 1 {
			return nil, fmt.Errorf("%w: answer every decision question", ErrGateClosed)
		}
		o, ok := OptionFor(e, q.ID, sel[0])
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownOption, q.ID, sel[0])
		}
		out = append(out, simulate.Decision{
			RoundID:      round.ID,
			QuestionID:   q.ID,
			OptionID:     o.ID,
			QuestionText: q.Prompt,
			OptionText:   o.Label,
			ToolsUsed:    slices.Clone(tools),
			Effects:      maps.Clone(o.Effects),
			LogMessage:   o.LogMessage,
		})
	}
	return out, nil
}

// foldRound applies the answered round to the indicators. A remote result
// carried by the Advance action replaces the local fold.
func foldRound(s *Session, g *Game, e *models.Entry, a Advance) (Screen, error) {
	decisions, err := RoundDecisions(s, e)
	if err != nil {
		return "", err
	}
	state := simulate.State{ScenarioID: e.ID, Round: s.Round, Indicators: s.Indicators}
	for _, d := range decisions {
		state = simulate.ApplyDecision(state, d, g.Content.Scoring.Ranges)
	}
	if a.Indicators != nil {
		state.Indicators = maps.Clone(a.Indicators)
	}
	s.Indicators = state.Indicators
	s.Decisions = append(s.Decisions, decisions...)
	s.Log = append(s.Log, state.Log...)
	s.Round++

	if s.Round < len(e.Rounds) {
		return ScreenDashboard, nil
	}
	summary := simulate.Summarize(simulate.State{ScenarioID: e.ID, Indicators: s.Indicators, Decisions: s.Decisions})
	s.Scores = models.Effects{
		"peopleHelped":        float64(summary.Scores.PeopleHelped),
		"harmPrevented":       float64(summary.Scores.HarmPrevented),
		"ethicalScore":        summary.Scores.EthicalScore,
		"sustainabilityScore": float64(summary.Scores.SustainabilityScore),
	}
	return "", nil
}

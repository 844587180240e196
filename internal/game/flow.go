package game

import (
	"github.com/tatianab/impact-games/internal/models"
)

// AI Detective screens.
const (
	ScreenSplash        Screen = "splash"
	ScreenCaseSelect    Screen = "case-select"
	ScreenBriefing      Screen = "briefing"
	ScreenHub           Screen = "investigation-hub"
	ScreenEvidence      Screen = "evidence-analysis"
	ScreenInterrogation Screen = "interrogation"
	ScreenDeduction     Screen = "deduction-board"
	ScreenAccusation    Screen = "final-accusation"
	ScreenResults       Screen = "results"
)

// Build-Break-Fix screens.
const (
	ScreenHowToPlay       Screen = "how-to-play"
	ScreenChallengeSelect Screen = "challenge-select"
	ScreenBuild           Screen = "build"
	ScreenBreak           Screen = "break"
	ScreenFix             Screen = "fix"
	ScreenRoundSummary    Screen = "round-summary"
	ScreenFinalResults    Screen = "final-results"
)

// Future Decisions screens.
const (
	ScreenScenarioSelect Screen = "scenario-select"
	ScreenDashboard      Screen = "dashboard"
	ScreenSummary        Screen = "summary"
)

// Shared closing screens.
const (
	ScreenProposal   Screen = "proposal"
	ScreenSubmission Screen = "submission"
)

// Deduction board columns.
const (
	ColumnSymptoms = "symptoms"
	ColumnCauses   = "causes"
	ColumnRoot     = "root"
)

// BoardColumns lists the deduction columns in display order.
var BoardColumns = []string{ColumnSymptoms, ColumnCauses, ColumnRoot}

const (
	// DecoyTimePenalty is taken off the clock when a decoy is collected.
	DecoyTimePenalty = 60
	// DecoyTrustPenalty is taken off the trust of the actor at the decoy's
	// location.
	DecoyTrustPenalty = 5
	// PhaseSeconds is the length of each Build-Break-Fix phase.
	PhaseSeconds = 120
	// BuildBreakFixRounds is the number of challenges in one game.
	BuildBreakFixRounds = 3
)

type exitFunc func(s *Session, g *Game, e *models.Entry, a Advance) (Screen, error)

// Step describes one screen of a flow.
type Step struct {
	// Next is where Advance goes when the gate is satisfied.
	Next Screen
	Gate Gate
	// Timed steps count TimeRemaining down once per tick.
	Timed bool
	// ResetTimer, when non-zero, refills the clock on entering the step.
	ResetTimer int
	// TimesUp is entered automatically when the clock runs out and the gate
	// is satisfied.
	TimesUp Screen

	exit exitFunc
}

// Slot bounds the number of options a selection slot accepts. A slot with
// Max 1 is single-select: a new choice replaces the old one.
type Slot struct {
	Screen Screen
	Max    int
}

// Flow is the declarative screen graph of one game.
type Flow struct {
	Game string
	// Initial is the first screen of a fresh launch.
	Initial Screen
	// Select is the screen where a catalog entry is chosen.
	Select Screen
	// Start is entered once an entry is chosen.
	Start Screen
	// Terminal is the already-submitted screen.
	Terminal Screen
	// Rounds is the number of entries played in one session. Zero means one.
	Rounds int
	Steps  map[Screen]Step
	Slots  map[string]Slot
}

// Known reports whether screen belongs to the flow.
func (f *Flow) Known(screen Screen) bool {
	_, ok := f.Steps[screen]
	return ok
}

// Slot returns the bound of a slot. Undeclared slots are single-select.
func (f *Flow) Slot(name string) Slot {
	if sl, ok := f.Slots[name]; ok {
		return sl
	}
	return Slot{Max: 1}
}

// CanAdvance is the live gate predicate for the session's current screen.
func (f *Flow) CanAdvance(s *Session, e *models.Entry) bool {
	step, ok := f.Steps[s.Screen]
	if !ok || step.Next == "" && step.exit == nil {
		return false
	}
	return step.Gate.Err(s, e) == nil
}

var flows = map[string]*Flow{
	models.GameDetective:       detectiveFlow(),
	models.GameBuildBreakFix:   buildBreakFixFlow(),
	models.GameFutureDecisions: futureDecisionsFlow(),
}

// FlowFor returns the flow of a game.
func FlowFor(game string) (*Flow, bool) {
	f, ok := flows[game]
	return f, ok
}

func closing(steps map[Screen]Step) {
	steps[ScreenProposal] = Step{Next: ScreenSubmission, Gate: Gate{proposalWritten}}
	steps[ScreenSubmission] = Step{}
}

func detectiveFlow() *Flow {
	steps := map[Screen]Step{
		ScreenSplash:     {Next: ScreenCaseSelect},
		ScreenCaseSelect: {Next: ScreenBriefing, Gate: Gate{entryChosen}},
		ScreenBriefing:   {Next: ScreenHub},
		ScreenHub: {
			Next:    ScreenDeduction,
			Gate:    Gate{collectedAtLeast(1)},
			Timed:   true,
			TimesUp: ScreenDeduction,
		},
		ScreenEvidence:      {Next: ScreenHub},
		ScreenInterrogation: {Next: ScreenHub, exit: leaveInterrogation},
		ScreenDeduction:     {Next: ScreenAccusation, Gate: Gate{boardFilled(BoardColumns...)}},
		ScreenAccusation: {
			Next: ScreenResults,
			Gate: Gate{exactly(
				SlotCount{"rootCause", 1},
				SlotCount{"solution", 1},
				SlotCount{"ethics", 2},
				SlotCount{"partners", 2},
			)},
			exit: closeCase,
		},
		ScreenResults: {Next: ScreenProposal},
	}
	closing(steps)
	return &Flow{
		Game:     models.GameDetective,
		Initial:  ScreenSplash,
		Select:   ScreenCaseSelect,
		Start:    ScreenBriefing,
		Terminal: ScreenSubmission,
		Steps:    steps,
		Slots: map[string]Slot{
			"rootCause": {Screen: ScreenAccusation, Max: 1},
			"solution":  {Screen: ScreenAccusation, Max: 1},
			"ethics":    {Screen: ScreenAccusation, Max: 2},
			"partners":  {Screen: ScreenAccusation, Max: 2},
		},
	}
}

func buildBreakFixFlow() *Flow {
	steps := map[Screen]Step{
		ScreenSplash:          {Next: ScreenHowToPlay},
		ScreenHowToPlay:       {Next: ScreenChallengeSelect},
		ScreenChallengeSelect: {Next: ScreenBuild, Gate: Gate{entryChosen}},
		ScreenBuild: {
			Next: ScreenBreak,
			Gate: Gate{exactly(
				SlotCount{"problem", 1},
				SlotCount{"users", 1},
				SlotCount{"approach", 1},
				SlotCount{"data", 2},
				SlotCount{"metric", 1},
			)},
			Timed:      true,
			ResetTimer: PhaseSeconds,
			TimesUp:    ScreenBreak,
		},
		ScreenBreak: {
			Next:       ScreenFix,
			Gate:       Gate{exactly(SlotCount{"risks", 3})},
			Timed:      true,
			ResetTimer: PhaseSeconds,
			TimesUp:    ScreenFix,
		},
		ScreenFix: {
			Next: ScreenRoundSummary,
			Gate: Gate{exactly(
				SlotCount{"ethics", 2},
				SlotCount{"governance", 1},
				SlotCount{"partners", 2},
				SlotCount{"feasibility", 1},
			)},
			Timed:      true,
			ResetTimer: PhaseSeconds,
			TimesUp:    ScreenRoundSummary,
			exit:       closeRound,
		},
		ScreenRoundSummary: {Next: ScreenFinalResults, exit: nextChallenge},
		ScreenFinalResults: {Next: ScreenProposal},
	}
	closing(steps)
	return &Flow{
		Game:     models.GameBuildBreakFix,
		Initial:  ScreenSplash,
		Select:   ScreenChallengeSelect,
		Start:    ScreenBuild,
		Terminal: ScreenSubmission,
		Rounds:   BuildBreakFixRounds,
		Steps:    steps,
		Slots: map[string]Slot{
			"problem":     {Screen: ScreenBuild, Max: 1},
			"users":       {Screen: ScreenBuild, Max: 1},
			"approach":    {Screen: ScreenBuild, Max: 1},
			"data":        {Screen: ScreenBuild, Max: 2},
			"metric":      {Screen: ScreenBuild, Max: 1},
			"risks":       {Screen: ScreenBreak, Max: 3},
			"ethics":      {Screen: ScreenFix, Max: 2},
			"governance":  {Screen: ScreenFix, Max: 1},
			"partners":    {Screen: ScreenFix, Max: 2},
			"feasibility": {Screen: ScreenFix, Max: 1},
		},
	}
}

func futureDecisionsFlow() *Flow {
	steps := map[Screen]Step{
		ScreenScenarioSelect: {Next: ScreenDashboard, Gate: Gate{entryChosen}},
		ScreenDashboard:      {Next: ScreenSummary, Gate: Gate{roundAnswered}, exit: foldRound},
		ScreenSummary:        {Next: ScreenProposal},
	}
	closing(steps)
	return &Flow{
		Game:     models.GameFutureDecisions,
		Initial:  ScreenScenarioSelect,
		Select:   ScreenScenarioSelect,
		Start:    ScreenDashboard,
		Terminal: ScreenSubmission,
		Steps:    steps,
	}
}

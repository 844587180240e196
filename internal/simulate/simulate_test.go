package simulate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tatianab/impact-games/internal/models"
)

func ranges() map[string]models.Range {
	hundred := 100.0
	capped := models.Range{Min: 0, Max: &hundred}
	return map[string]models.Range{
		PublicTrust:    capped,
		Inequality:     capped,
		Safety:         capped,
		EthicalBalance: capped,
		Resilience:     capped,
		Budget:         {Min: 0},
	}
}

func TestApplyClamps(t *testing.T) {
	in := models.Effects{PublicTrust: 98, Budget: 10, Safety: 50}
	got := Apply(in, models.Effects{PublicTrust: 5, Budget: -50, Inequality: -5, Safety: 3}, ranges())

	want := models.Effects{PublicTrust: 100, Budget: 0, Inequality: 0, Safety: 53}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply = %v, want %v", got, want)
	}
	if in[PublicTrust] != 98 {
		t.Errorf("Apply mutated its input: %v", in)
	}

	big := Apply(models.Effects{Budget: 1000}, models.Effects{Budget: 500}, ranges())
	if big[Budget] != 1500 {
		t.Errorf("Expected budget to be uncapped, got %v", big[Budget])
	}
}

func TestApplyDecisionClampsPerDecision(t *testing.T) {
	state := State{Indicators: models.Effects{EthicalBalance: 95}}
	state = ApplyDecision(state, Decision{QuestionID: "q1", Effects: models.Effects{EthicalBalance: 10}, LogMessage: "up"}, ranges())
	state = ApplyDecision(state, Decision{QuestionID: "q2", Effects: models.Effects{EthicalBalance: -10}}, ranges())

	if state.Indicators[EthicalBalance] != 90 {
		t.Errorf("Expected 90 after clamping at each decision, got %v", state.Indicators[EthicalBalance])
	}
	if len(state.Decisions) != 2 {
		t.Fatalf("Expected 2 decisions, got %d", len(state.Decisions))
	}
	if want := []string{"up", DefaultLogMessage}; !reflect.DeepEqual(state.Log, want) {
		t.Errorf("Log = %v, want %v", state.Log, want)
	}
}

func TestComputeScores(t *testing.T) {
	tests := []struct {
		name string
		ind  models.Effects
		want Scores
	}{
		{
			name: "rounds down",
			ind:  models.Effects{Safety: 55, Inequality: 35, Resilience: 50, PublicTrust: 51, EthicalBalance: 65},
			want: Scores{PeopleHelped: 550, HarmPrevented: 325, EthicalScore: 65, SustainabilityScore: 55},
		},
		{
			name: "rounds half up",
			ind:  models.Effects{Safety: 4.45, Inequality: 35, Resilience: 50, PublicTrust: 52, EthicalBalance: 40},
			want: Scores{PeopleHelped: 45, HarmPrevented: 325, EthicalScore: 40, SustainabilityScore: 56},
		},
	}
	for _, tt := range tests {
		if got := ComputeScores(tt.ind); got != tt.want {
			t.Errorf("%s: ComputeScores = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestMostUsedTools(t *testing.T) {
	decisions := []Decision{
		{ToolsUsed: []string{"a", "b"}},
		{ToolsUsed: []string{"b", "c"}},
		{ToolsUsed: []string{"d"}},
		{ToolsUsed: []string{"c"}},
	}
	got := MostUsedTools(decisions, 3)
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(got, want) {
		t.Errorf("MostUsedTools = %v, want %v", got, want)
	}
	if got := MostUsedTools(nil, 3); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestHighlightDilemma(t *testing.T) {
	decisions := []Decision{
		{QuestionText: "small", Effects: models.Effects{EthicalBalance: 5}},
		{QuestionText: "first", OptionText: "gps", Effects: models.Effects{EthicalBalance: -15}},
		{QuestionText: "second", Effects: models.Effects{EthicalBalance: 15}},
	}
	d := HighlightDilemma(decisions)
	if d == nil || d.Question != "first" || d.Choice != "gps" || d.Impact != -15 {
		t.Errorf("Expected first 15-magnitude decision, got %+v", d)
	}
	if HighlightDilemma(decisions[:1]) != nil {
		t.Errorf("Expected no dilemma when every swing is 5 or less")
	}
}

func TestLessonPriority(t *testing.T) {
	base := func(over models.Effects) models.Effects {
		ind := models.Effects{EthicalBalance: 50, Inequality: 40, PublicTrust: 50, Budget: 100, Safety: 50}
		for k, v := range over {
			ind[k] = v
		}
		return ind
	}
	tests := []struct {
		name string
		ind  models.Effects
		want string
	}{
		{"low ethics beats inequality", base(models.Effects{EthicalBalance: 20, Inequality: 80}), "Prioritizing efficiency"},
		{"inequality", base(models.Effects{Inequality: 80, PublicTrust: 10}), "systemic inequality"},
		{"trust", base(models.Effects{PublicTrust: 20}), "Transparency and inclusion"},
		{"budget", base(models.Effects{Budget: 10}), "Short-term cost savings"},
		{"balanced", base(models.Effects{EthicalBalance: 80, Safety: 70}), "challenging but possible"},
		{"default", base(nil), "Every decision involves trade-offs"},
	}
	for _, tt := range tests {
		if got := Lesson(tt.ind); !strings.Contains(got, tt.want) {
			t.Errorf("%s: Lesson = %q, want it to contain %q", tt.name, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	state := State{
		Indicators: models.Effects{Safety: 60, Inequality: 30, Resilience: 50, PublicTrust: 60, EthicalBalance: 75, Budget: 500},
		Decisions: []Decision{
			{QuestionText: "Who gets alerts first?", OptionText: "Low-income first", ToolsUsed: []string{"chatbot"}, Effects: models.Effects{EthicalBalance: 15}},
		},
	}
	s := Summarize(state)
	if s.Scores.PeopleHelped != 600 || s.Scores.SustainabilityScore != 60 {
		t.Errorf("Unexpected scores %+v", s.Scores)
	}
	if s.Dilemma == nil || s.Dilemma.Impact != 15 {
		t.Errorf("Unexpected dilemma %+v", s.Dilemma)
	}
	if len(s.MostUsedTools) != 1 || s.MostUsedTools[0] != "chatbot" {
		t.Errorf("Unexpected tools %v", s.MostUsedTools)
	}
	if !strings.Contains(s.Lesson, "trade-offs") {
		t.Errorf("Expected default lesson when safety is not above 60, got %q", s.Lesson)
	}
}

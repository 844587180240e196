package game

import (
	"reflect"
	"testing"
	"time"

	"github.com/tatianab/impact-games/internal/models"
)

func ptr(v float64) *float64 { return &v }

func TestComputeScoresClampsAfterSummation(t *testing.T) {
	e := &models.Entry{
		ID: "x",
		Options: map[string][]models.Option{
			"boost": {{ID: "up", Effects: models.Effects{"impact": 60}}},
			"drag":  {{ID: "down", Effects: models.Effects{"impact": -60}}},
			"sink":  {{ID: "deep", Effects: models.Effects{"ethics": -90}}},
		},
	}
	sc := models.Scoring{
		Baseline: models.Effects{"impact": 50, "ethics": 40},
		Ranges: map[string]models.Range{
			"impact": {Min: 0, Max: ptr(100)},
			"ethics": {Min: 0, Max: ptr(100)},
		},
	}
	s := NewSession("x", "test", "")
	s.Selections["boost"] = []string{"up"}
	s.Selections["drag"] = []string{"down"}
	s.Selections["sink"] = []string{"deep"}

	got := ComputeScores(s, e, sc, nil)
	if got["impact"] != 50 {
		t.Errorf("Expected +60-60 to cancel before clamping, got %v", got["impact"])
	}
	if got["ethics"] != 0 {
		t.Errorf("Expected ethics floored at 0, got %v", got["ethics"])
	}
}

func TestComputeScoresDeterministic(t *testing.T) {
	g := loadGame(t, models.GameDetective)
	s := startCase(t, g, "vanishing-classrooms")
	s.Selections["ethics"] = []string{"e1", "e2"}
	s.Selections["partners"] = []string{"p1"}
	e := mustEntry(t, g, s)

	first := ComputeScores(s, e, g.Content.Scoring, g.Content.Tools)
	second := ComputeScores(s, e, g.Content.Scoring, g.Content.Tools)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical scores, got %v and %v", first, second)
	}
	if first["ethics"] != 65 {
		t.Errorf("Expected ethics 40+10+15=65, got %v", first["ethics"])
	}
}

func TestDetectiveEthicsScenario(t *testing.T) {
	g := loadGame(t, models.GameDetective)
	s := startCase(t, g, "silent-clinics")
	s.Selections["ethics"] = []string{"e1", "e2"}
	e := mustEntry(t, g, s)

	got := ComputeScores(s, e, g.Content.Scoring, g.Content.Tools)
	if got["ethics"] != 67 {
		t.Errorf("Expected ethics 40+15+12=67, got %v", got["ethics"])
	}

	s.ToolsUsed = []string{"bias-scanner"}
	got = ComputeScores(s, e, g.Content.Scoring, g.Content.Tools)
	if got["ethics"] != 77 {
		t.Errorf("Expected bias scanner bonus to give 77, got %v", got["ethics"])
	}
}

func TestRiskDebtScenario(t *testing.T) {
	g := loadGame(t, models.GameBuildBreakFix)
	s := startCase(t, g, "flood-alert")
	s.Selections["risks"] = []string{"r6", "r7", "r8"}
	e := mustEntry(t, g, s)

	got := ComputeScores(s, e, g.Content.Scoring, nil)
	if got["riskDebt"] != 130 {
		t.Errorf("Expected uncapped riskDebt 130, got %v", got["riskDebt"])
	}
	if got["reputation"] != 35 {
		t.Errorf("Expected reputation 35, got %v", got["reputation"])
	}

	capped := g.Content.Scoring
	capped.Ranges = map[string]models.Range{"riskDebt": {Min: 0, Max: ptr(100)}}
	if got := ComputeScores(s, e, capped, nil); got["riskDebt"] != 100 {
		t.Errorf("Expected capped riskDebt 100, got %v", got["riskDebt"])
	}
}

func TestCaseTotalAndBadge(t *testing.T) {
	tests := []struct {
		scores   models.Effects
		partners int
		total    int64
		badge    string
	}{
		{models.Effects{"impact": 100, "ethics": 67, "feasibility": 53.5}, 2, 74, BadgeDataDaredevil},
		{models.Effects{"impact": 90, "ethics": 90, "feasibility": 80}, 2, 87, BadgePartnershipPro},
		{models.Effects{"impact": 90, "ethics": 90, "feasibility": 80}, 1, 87, BadgeEthicsGuardian},
		{models.Effects{"impact": 100, "ethics": 70, "feasibility": 90}, 1, 87, BadgeImpactArchitect},
		{models.Effects{"impact": 50, "ethics": 40, "feasibility": 30}, 0, 40, BadgeDetective},
	}
	for _, tt := range tests {
		if got := CaseTotal(tt.scores); got != tt.total {
			t.Errorf("CaseTotal(%v) = %d, want %d", tt.scores, got, tt.total)
		}
		if got := DetectiveBadge(tt.scores, tt.partners); got != tt.badge {
			t.Errorf("DetectiveBadge(%v, %d) = %q, want %q", tt.scores, tt.partners, got, tt.badge)
		}
	}
}

func TestRoundTotal(t *testing.T) {
	scores := models.Effects{
		"impact": 55, "innovation": 40, "ethics": 62, "feasibility": 59,
		"partnership": 30, "riskDebt": 65, "reputation": 45,
	}
	if got := RoundTotal(scores); got != 46 {
		t.Errorf("Expected 45.8 to round to 46, got %d", got)
	}
	if got := RoundTotal(models.Effects{"riskDebt": 300}); got != 0 {
		t.Errorf("Expected negative total floored at 0, got %d", got)
	}
}

func TestFinalBadge(t *testing.T) {
	tests := []struct {
		means  models.Effects
		played time.Duration
		want   string
	}{
		{models.Effects{"partnership": 85, "ethics": 90}, time.Hour, BadgePartnershipPro},
		{models.Effects{"ethics": 90, "impact": 90}, time.Hour, BadgeEthicsGuardian},
		{models.Effects{"impact": 80}, time.Hour, BadgeImpactArchitect},
		{models.Effects{"riskDebt": 10}, 10 * time.Minute, BadgeSpeedSolver},
		{models.Effects{"riskDebt": 10}, time.Hour, BadgeRiskTamer},
		{models.Effects{"riskDebt": 60}, time.Hour, BadgeChampion},
	}
	for _, tt := range tests {
		if got := FinalBadge(tt.means, tt.played); got != tt.want {
			t.Errorf("FinalBadge(%v, %v) = %q, want %q", tt.means, tt.played, got, tt.want)
		}
	}
}

func TestRoundMeans(t *testing.T) {
	rounds := []RoundResult{
		{Scores: models.Effects{"impact": 50, "ethics": 61}},
		{Scores: models.Effects{"impact": 60, "ethics": 62}},
	}
	got := RoundMeans(rounds)
	if got["impact"] != 55 || got["ethics"] != 61.5 {
		t.Errorf("Unexpected means %v", got)
	}
	if got := RoundMeans(nil); len(got) != 0 {
		t.Errorf("Expected empty means, got %v", got)
	}
}

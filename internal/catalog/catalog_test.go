package catalog

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/tatianab/impact-games/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}

	want := []string{models.GameDetective, models.GameBuildBreakFix, models.GameFutureDecisions}
	for _, game := range want {
		if len(c.Entries(game)) == 0 {
			t.Errorf("Expected entries for %s", game)
		}
	}

	e, ok := c.Entry(models.GameDetective, "vanishing-classrooms")
	if !ok {
		t.Fatal("Expected vanishing-classrooms case")
	}
	if e.TimeLimitMinutes != 15 || e.InitialEnergy != 25 {
		t.Errorf("Unexpected case limits: %d min, %d energy", e.TimeLimitMinutes, e.InitialEnergy)
	}
	if rc, ok := e.Option("rootCause", "rc2"); !ok || !rc.Correct {
		t.Errorf("Expected rc2 to be the correct root cause")
	}

	principal, ok := e.Actor("principal")
	if !ok {
		t.Fatal("Expected the principal")
	}
	if edges := principal.Nodes["d1"].Edges; len(edges) != 2 || edges[0].Label != "What changed in the past year?" || edges[0].Next != "d2" {
		t.Errorf("Expected question labels to survive parsing, got %+v", edges)
	}

	tool, ok := c.Tool(models.GameDetective, "bias-scanner")
	if !ok || tool.Cost != 4 || tool.Bonus["ethics"] != 10 {
		t.Errorf("Unexpected bias scanner %+v", tool)
	}

	f, _ := c.Game(models.GameBuildBreakFix)
	if f.Scoring.Baseline["riskDebt"] != 100 {
		t.Errorf("Expected riskDebt baseline 100, got %v", f.Scoring.Baseline["riskDebt"])
	}
	if f.Scoring.Ranges["riskDebt"].Max != nil {
		t.Errorf("Expected riskDebt to be uncapped")
	}

	s, ok := c.Entry(models.GameFutureDecisions, "climate_floods")
	if !ok {
		t.Fatal("Expected climate_floods scenario")
	}
	if q, ok := s.Question("aid_priority"); !ok || len(q.Options) != 3 {
		t.Errorf("Expected aid_priority question with 3 options, got %+v", q)
	}
}

func TestEntryLookupMisses(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Failed to load embedded catalog: %v", err)
	}
	if _, ok := c.Entry("chess", "x"); ok {
		t.Error("Expected miss for unknown game")
	}
	if _, ok := c.Entry(models.GameDetective, "nope"); ok {
		t.Error("Expected miss for unknown entry")
	}
	if _, ok := c.Tool(models.GameFutureDecisions, "bias-scanner"); ok {
		t.Error("Expected tools to be scoped per game")
	}
}

func TestLoadRejectsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown location",
			src: `game: g
entries:
  - id: e1
    locations: [{id: a, name: A}]
    items: [{id: i1, name: I, location: b, description: x}]
`,
			want: "unknown location",
		},
		{
			name: "unknown dialogue node",
			src: `game: g
entries:
  - id: e1
    actors:
      - id: x
        root: d1
        nodes:
          d1: {text: hi, edges: [{label: go, next: d9}]}
`,
			want: "unknown node",
		},
		{
			name: "duplicate entry",
			src: `game: g
entries:
  - {id: e1}
  - {id: e1}
`,
			want: "duplicate entry",
		},
	}
	for _, tt := range tests {
		fsys := fstest.MapFS{"content/g.yaml": {Data: []byte(tt.src)}}
		_, err := Load(fsys)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

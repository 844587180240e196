package coach

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	prompt, err := render(Request{
		Game:     "ai-detective",
		Title:    "The Silent Clinics",
		Badge:    "Detective",
		Scores:   map[string]float64{"ethics": 67, "impact": 50},
		Choices:  []string{"ethics: Community consent"},
		Proposal: "Reopen clinics with mobile units.",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		"Challenge: The Silent Clinics",
		"Badge earned: Detective",
		"- ethics: 67",
		"- ethics: Community consent",
		"Reopen clinics with mobile units.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Context:") {
		t.Error("Expected empty context to be omitted")
	}
}

func TestParseFeedback(t *testing.T) {
	text := "```yaml\nsummary: Solid start.\nstrengths:\n  - Clear partners\ngaps:\n  - No privacy plan\n  - No budget\n```"
	fb, err := parseFeedback(text)
	if err != nil {
		t.Fatalf("parseFeedback: %v", err)
	}
	if fb.Summary != "Solid start." || len(fb.Strengths) != 1 || len(fb.Gaps) != 2 {
		t.Errorf("Unexpected feedback %+v", fb)
	}

	if _, err := parseFeedback("just some prose"); err == nil {
		t.Error("Expected an error for a reply without feedback fields")
	}
}

func TestDisabledCoach(t *testing.T) {
	c, err := New(context.Background(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Enabled() {
		t.Fatal("Expected a coach without a key to be disabled")
	}
	if _, err := c.Review(context.Background(), Request{Proposal: "x"}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Expected ErrDisabled, got %v", err)
	}
	c.Close()
}

func TestReviewUsesModel(t *testing.T) {
	var seen string
	c := &Coach{generate: func(_ context.Context, prompt string) (string, error) {
		seen = prompt
		return "summary: Good.\ngaps: [Partners]", nil
	}}
	fb, err := c.Review(context.Background(), Request{Title: "Flood Alert Now", Proposal: "Alerts by SMS."})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if fb.Summary != "Good." || len(fb.Gaps) != 1 {
		t.Errorf("Unexpected feedback %+v", fb)
	}
	if !strings.Contains(seen, "Alerts by SMS.") {
		t.Error("Expected the proposal in the prompt")
	}
	if _, err := c.Review(context.Background(), Request{Proposal: "  "}); err == nil {
		t.Error("Expected empty proposals to be rejected")
	}
}

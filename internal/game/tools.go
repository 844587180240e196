package game

import (
	"fmt"
	"slices"

	"github.com/tatianab/impact-games/internal/models"
)

// toolReadout interprets a tool's data. Tools without canned output fall
// back to a line keyed by their kind.
func toolReadout(t models.Tool) string {
	if t.Output != "" {
		return t.Output
	}
	switch t.Kind {
	case "pattern":
		return "No clear pattern yet. Collect more evidence."
	case "bias":
		return "No missing groups detected in the current evidence."
	case "forecast":
		return "Not enough data points for a projection."
	default:
		return fmt.Sprintf("%s finished without findings.", t.Name)
	}
}

// useTool spends energy on a tool and shows its readout. Unaffordable
// tools are rejected without any state change.
func useTool(s *Session, g *Game, id string) (Outcome, error) {
	t, ok := g.Tool(id)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	if t.Cost > s.Resources {
		return Outcome{}, fmt.Errorf("%w: %s costs %d, %d left", ErrInsufficientResources, t.Name, t.Cost, s.Resources)
	}
	s.Resources -= t.Cost
	s.ToolOutput = toolReadout(t)
	if !slices.Contains(s.ToolsUsed, t.ID) {
		s.ToolsUsed = append(s.ToolsUsed, t.ID)
	}
	transition(s, g, ScreenEvidence)
	s.note(fmt.Sprintf("Ran %s (-%d energy).", t.Name, t.Cost))
	return Outcome{Kind: OutcomeToolUsed, Message: s.ToolOutput}, nil
}

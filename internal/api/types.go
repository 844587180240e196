package api

import (
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

// DecisionRequest is the body of POST /api/simulate/decision.
type DecisionRequest struct {
	CurrentState simulate.State    `json:"currentState"`
	Decision     simulate.Decision `json:"decision"`
}

// DecisionResponse carries the folded state and the effects just applied.
type DecisionResponse struct {
	UpdatedState     simulate.State `json:"updatedState"`
	ImmediateEffects models.Effects `json:"immediateEffects"`
}

// SummaryRequest is the body of POST /api/simulate/summary.
type SummaryRequest struct {
	GameState simulate.State `json:"gameState"`
}

// ScenarioRef names the scenario a summary belongs to.
type ScenarioRef struct {
	Name    string `json:"name"`
	Context string `json:"context"`
}

// SummaryResponse is the strategy card.
type SummaryResponse struct {
	Scenario ScenarioRef `json:"scenario"`
	simulate.Summary
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	Uptime    string `json:"uptime"`
	Scenarios int    `json:"scenarios"`
}

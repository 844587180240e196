package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/impact-games/internal/client"
	"github.com/tatianab/impact-games/internal/config"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
	"google.golang.org/api/option"
)

// Plays every Future Decisions scenario against a running decision service.
// With GEMINI_API_KEY set an LLM player picks the options; otherwise the
// first option of every question is taken.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	svc := client.New(cfg.APIURL, cfg.RequestTimeout, cfg.RequestRetries)
	health, err := svc.Health(ctx)
	if err != nil {
		log.Fatalf("Decision service unreachable at %s: %v", cfg.APIURL, err)
	}
	fmt.Printf("Service %s (%s), %d scenarios\n\n", health.Version, health.Status, health.Scenarios)

	var playerModel *genai.GenerativeModel
	if cfg.CoachEnabled() {
		playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer playerClient.Close()
		playerModel = playerClient.GenerativeModel(cfg.GeminiModel)
	}

	scenarios, err := svc.Scenarios(ctx)
	if err != nil {
		log.Fatalf("Failed to list scenarios: %v", err)
	}
	for _, sc := range scenarios {
		if err := playScenario(ctx, svc, playerModel, sc); err != nil {
			fmt.Printf("Error playing %s: %v\n", sc.ID, err)
		}
	}
}

func playScenario(ctx context.Context, svc *client.Client, player *genai.GenerativeModel, sc models.Entry) error {
	fmt.Printf("=== %s ===\n", sc.Title)
	state := simulate.State{ScenarioID: sc.ID, Indicators: sc.InitialIndicators}

	for i, round := range sc.Rounds {
		fmt.Printf("--- Round %d: %s ---\n", i+1, round.Title)
		tools := make([]string, 0, len(round.Tools))
		for _, t := range round.Tools {
			tools = append(tools, t.ID)
		}

		var decisions []simulate.Decision
		for _, q := range round.Questions {
			o := q.Options[pickOption(ctx, player, sc, round, q, state.Indicators)]
			fmt.Printf("%s -> %s\n", q.Prompt, o.Label)
			decisions = append(decisions, simulate.Decision{
				RoundID:      round.ID,
				QuestionID:   q.ID,
				OptionID:     o.ID,
				QuestionText: q.Prompt,
				OptionText:   o.Label,
				ToolsUsed:    tools,
				Effects:      o.Effects,
				LogMessage:   o.LogMessage,
			})
		}

		next, err := svc.FoldRound(ctx, state, decisions)
		if err != nil {
			return fmt.Errorf("round %s: %w", round.ID, err)
		}
		state = next
		state.Round = i + 1
		fmt.Printf("Indicators: %v\n\n", state.Indicators)
	}

	summary, err := svc.Summary(ctx, state)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	s := summary.Scores
	fmt.Printf("People helped: %d, harm prevented: %d, ethics: %.1f, sustainability: %d\n",
		s.PeopleHelped, s.HarmPrevented, s.EthicalScore, s.SustainabilityScore)
	if summary.Dilemma != nil {
		fmt.Printf("Hardest call: %s -> %s\n", summary.Dilemma.Question, summary.Dilemma.Choice)
	}
	fmt.Printf("Lesson: %s\n\n", summary.Lesson)
	return nil
}

func pickOption(ctx context.Context, model *genai.GenerativeModel, sc models.Entry, round models.Round, q models.Question, indicators models.Effects) int {
	if model == nil {
		return 0
	}

	var opts strings.Builder
	for i, o := range q.Options {
		fmt.Fprintf(&opts, "%d. %s\n", i+1, o.Label)
	}
	prompt := fmt.Sprintf(`You are a city leader playing a decision game.
Scenario: %s
Situation: %s
Indicators: %v

Question: %s
%s
Which option do you choose? Return ONLY the option number.`,
		sc.Summary,
		round.Situation,
		indicators,
		q.Prompt,
		opts.String(),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])))
	if err != nil || n < 1 || n > len(q.Options) {
		return 0
	}
	return n - 1
}

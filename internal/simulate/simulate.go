// Package simulate holds the stateless decision arithmetic of the Future
// Decisions game. Both the HTTP service and the local client fold
// decisions through it, so the two always agree.
package simulate

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tatianab/impact-games/internal/models"
)

// Indicator names.
const (
	PublicTrust      = "publicTrust"
	Inequality       = "inequality"
	Budget           = "budget"
	Safety           = "safety"
	EthicalBalance   = "ethicalBalance"
	Resilience       = "resilience"
	AccessToServices = "accessToServices"
)

// DefaultLogMessage is logged for a decision that carries no message.
const DefaultLogMessage = "Decision made"

// Decision is one answered question together with the effect vector it
// applied.
type Decision struct {
	RoundID      string         `json:"roundId,omitempty"`
	QuestionID   string         `json:"questionId"`
	OptionID     string         `json:"optionId"`
	QuestionText string         `json:"questionText,omitempty"`
	OptionText   string         `json:"optionText,omitempty"`
	ToolsUsed    []string       `json:"toolsUsed,omitempty"`
	Effects      models.Effects `json:"effects"`
	LogMessage   string         `json:"logMessage,omitempty"`
}

// State is everything the service needs to fold a decision. The service
// keeps none of it between calls.
type State struct {
	ScenarioID string         `json:"scenarioId,omitempty"`
	Round      int            `json:"round"`
	Indicators models.Effects `json:"indicators"`
	Decisions  []Decision     `json:"decisions"`
	Log        []string       `json:"log"`
}

// Apply adds an effect vector to indicators and clamps every touched
// indicator into its range. Indicators without a declared range are left
// unclamped. The input map is not modified.
func Apply(indicators, effects models.Effects, ranges map[string]models.Range) models.Effects {
	out := make(models.Effects, len(indicators))
	for k, v := range indicators {
		out[k] = v
	}
	for k, delta := range effects {
		v := out[k] + delta
		if r, ok := ranges[k]; ok {
			v = r.Clamp(v)
		}
		out[k] = v
	}
	return out
}

// ApplyDecision folds one decision into state and returns the new state.
func ApplyDecision(state State, d Decision, ranges map[string]models.Range) State {
	next := State{
		ScenarioID: state.ScenarioID,
		Round:      state.Round,
		Indicators: Apply(state.Indicators, d.Effects, ranges),
		Decisions:  append(append([]Decision(nil), state.Decisions...), d),
		Log:        append([]string(nil), state.Log...),
	}
	msg := d.LogMessage
	if msg == "" {
		msg = DefaultLogMessage
	}
	next.Log = append(next.Log, msg)
	return next
}

// Scores are the headline numbers of the final strategy card.
type Scores struct {
	PeopleHelped        int64   `json:"peopleHelped"`
	HarmPrevented       int64   `json:"harmPrevented"`
	EthicalScore        float64 `json:"ethicalScore"`
	SustainabilityScore int64   `json:"sustainabilityScore"`
}

// Dilemma is the decision with the largest ethical swing.
type Dilemma struct {
	Question string  `json:"question"`
	Choice   string  `json:"choice"`
	Impact   float64 `json:"impact"`
}

// Summary is the end-of-scenario report.
type Summary struct {
	Scores          Scores         `json:"scores"`
	MostUsedTools   []string       `json:"mostUsedTools"`
	Dilemma         *Dilemma       `json:"ethicalDilemma"`
	Lesson          string         `json:"lesson"`
	FinalIndicators models.Effects `json:"finalIndicators"`
}

// Summarize derives the strategy card from a final state.
func Summarize(state State) Summary {
	ind := state.Indicators
	return Summary{
		Scores:          ComputeScores(ind),
		MostUsedTools:   MostUsedTools(state.Decisions, 3),
		Dilemma:         HighlightDilemma(state.Decisions),
		Lesson:          Lesson(ind),
		FinalIndicators: ind,
	}
}

// ComputeScores maps final indicators to the headline scores.
func ComputeScores(ind models.Effects) Scores {
	three := decimal.NewFromInt(3)
	sustain := decimal.NewFromFloat(ind[Resilience]).
		Add(decimal.NewFromFloat(ind[PublicTrust])).
		Add(decimal.NewFromInt(100).Sub(decimal.NewFromFloat(ind[Inequality]))).
		Div(three)
	return Scores{
		PeopleHelped:        round(decimal.NewFromFloat(ind[Safety]).Mul(decimal.NewFromInt(10))),
		HarmPrevented:       round(decimal.NewFromInt(100).Sub(decimal.NewFromFloat(ind[Inequality])).Mul(decimal.NewFromInt(5))),
		EthicalScore:        ind[EthicalBalance],
		SustainabilityScore: round(sustain),
	}
}

func round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// MostUsedTools counts tool mentions across decisions and returns the top
// n. Ties keep the order in which tools were first used.
func MostUsedTools(decisions []Decision, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, d := range decisions {
		for _, tool := range d.ToolsUsed {
			if counts[tool] == 0 {
				order = append(order, tool)
			}
			counts[tool]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		order = []string{}
	}
	return order
}

// HighlightDilemma picks the decision whose ethicalBalance effect has the
// largest magnitude above 5. The first such decision wins ties.
func HighlightDilemma(decisions []Decision) *Dilemma {
	var best *Decision
	for i := range decisions {
		d := &decisions[i]
		mag := math.Abs(d.Effects[EthicalBalance])
		if mag <= 5 {
			continue
		}
		if best == nil || mag > math.Abs(best.Effects[EthicalBalance]) {
			best = d
		}
	}
	if best == nil {
		return nil
	}
	return &Dilemma{
		Question: best.QuestionText,
		Choice:   best.OptionText,
		Impact:   best.Effects[EthicalBalance],
	}
}

var lessons = []struct {
	match func(models.Effects) bool
	text  string
}{
	{
		func(i models.Effects) bool { return i[EthicalBalance] < 30 },
		"Prioritizing efficiency over ethics can leave vulnerable groups behind. Balancing speed with fairness requires careful consideration of who benefits and who is excluded.",
	},
	{
		func(i models.Effects) bool { return i[Inequality] > 70 },
		"Focusing on immediate solutions without addressing systemic inequality creates deeper divides. Long-term stability requires ensuring equal access to resources and opportunities.",
	},
	{
		func(i models.Effects) bool { return i[PublicTrust] < 30 },
		"Transparency and inclusion build trust. When communities feel excluded from decision-making, even effective solutions can fail due to lack of public support.",
	},
	{
		func(i models.Effects) bool { return i[Budget] < 20 },
		"Short-term cost savings can lead to long-term crises. Investing in resilient infrastructure and inclusive systems prevents future emergencies.",
	},
	{
		func(i models.Effects) bool { return i[EthicalBalance] > 70 && i[Safety] > 60 },
		"Balancing ethical considerations with practical needs is challenging but possible. Your approach shows that inclusive, privacy-aware solutions can still be effective.",
	},
}

const defaultLesson = "Every decision involves trade-offs. The key is understanding who benefits, who is affected, and how choices today shape the community's future."

// Lesson returns the text of the first matching threshold rule.
func Lesson(ind models.Effects) string {
	for _, l := range lessons {
		if l.match(ind) {
			return l.text
		}
	}
	return defaultLesson
}

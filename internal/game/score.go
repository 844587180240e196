package game

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tatianab/impact-games/internal/models"
)

// Badges.
const (
	BadgePartnershipPro  = "Partnership Pro"
	BadgeEthicsGuardian  = "Ethics Guardian"
	BadgeImpactArchitect = "Impact Architect"
	BadgeDataDaredevil   = "Data Daredevil"
	BadgeDetective       = "Detective"
	BadgeSpeedSolver     = "Speed Solver"
	BadgeRiskTamer       = "Risk Tamer"
	BadgeChampion        = "Champion"
)

// SpeedSolverLimit is the play time under which a Build-Break-Fix player
// earns the Speed Solver badge.
const SpeedSolverLimit = 15 * time.Minute

// ComputeScores recomputes every score of a session from the scoring
// baseline: option effects, per-selection bonuses, per-decoy penalties and
// the bonuses of used tools are summed, then each score is clamped once.
// It reads only its arguments and never accumulates across calls.
func ComputeScores(s *Session, e *models.Entry, sc models.Scoring, tools []models.Tool) models.Effects {
	raw := make(models.Effects, len(sc.Baseline))
	for k, v := range sc.Baseline {
		raw[k] = v
	}

	slots := make([]string, 0, len(s.Selections))
	for slot := range s.Selections {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	for _, slot := range slots {
		for _, id := range s.Selections[slot] {
			if o, ok := OptionFor(e, slot, id); ok {
				add(raw, o.Effects)
			}
			add(raw, sc.PerSelection[slot])
		}
	}

	for _, id := range s.Collected {
		if it, ok := e.Item(id); ok && it.Decoy {
			add(raw, sc.PerDecoy)
		}
	}
	for _, t := range tools {
		if s.UsedTool(t.ID) {
			add(raw, t.Bonus)
		}
	}

	out := make(models.Effects, len(raw))
	for k, v := range raw {
		if r, ok := sc.Ranges[k]; ok {
			v = r.Clamp(v)
		}
		out[k] = v
	}
	return out
}

func add(dst, effects models.Effects) {
	for k, v := range effects {
		dst[k] += v
	}
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// CaseTotal is the rounded mean of impact, ethics and feasibility.
func CaseTotal(scores models.Effects) int64 {
	sum := dec(scores["impact"]).Add(dec(scores["ethics"])).Add(dec(scores["feasibility"]))
	return sum.Div(decimal.NewFromInt(3)).Round(0).IntPart()
}

// DetectiveBadge awards the closing badge of a case.
func DetectiveBadge(scores models.Effects, partners int) string {
	total := CaseTotal(scores)
	switch {
	case total >= 85 && partners >= 2:
		return BadgePartnershipPro
	case total >= 85 && scores["ethics"] >= 80:
		return BadgeEthicsGuardian
	case total >= 85:
		return BadgeImpactArchitect
	case total >= 70:
		return BadgeDataDaredevil
	default:
		return BadgeDetective
	}
}

var roundWeights = []struct {
	score  string
	weight string
}{
	{"impact", "0.3"},
	{"ethics", "0.25"},
	{"feasibility", "0.2"},
	{"partnership", "0.15"},
	{"innovation", "0.1"},
	{"riskDebt", "-0.1"},
}

// RoundTotal is the weighted Build-Break-Fix round score, rounded half up
// and floored at zero.
func RoundTotal(scores models.Effects) int64 {
	total := decimal.Zero
	for _, w := range roundWeights {
		total = total.Add(dec(scores[w.score]).Mul(decimal.RequireFromString(w.weight)))
	}
	return max(0, total.Round(0).IntPart())
}

// RoundMeans averages each score over completed rounds.
func RoundMeans(rounds []RoundResult) models.Effects {
	means := make(models.Effects)
	if len(rounds) == 0 {
		return means
	}
	sums := make(map[string]decimal.Decimal)
	for _, r := range rounds {
		for k, v := range r.Scores {
			sums[k] = sums[k].Add(dec(v))
		}
	}
	n := decimal.NewFromInt(int64(len(rounds)))
	for k, v := range sums {
		means[k] = v.Div(n).InexactFloat64()
	}
	return means
}

// FinalBadge awards the Build-Break-Fix badge from round means and the
// time spent in timed phases. The first matching rule wins.
func FinalBadge(means models.Effects, played time.Duration) string {
	switch {
	case means["partnership"] >= 80:
		return BadgePartnershipPro
	case means["ethics"] >= 85:
		return BadgeEthicsGuardian
	case means["impact"] >= 80:
		return BadgeImpactArchitect
	case played < SpeedSolverLimit:
		return BadgeSpeedSolver
	case means["riskDebt"] < 20:
		return BadgeRiskTamer
	default:
		return BadgeChampion
	}
}

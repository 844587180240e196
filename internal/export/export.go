// Package export writes the artifacts a player can take away from a game:
// the proposal as plain text and a JSON report of the decision trail.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tatianab/impact-games/internal/game"
	"github.com/tatianab/impact-games/internal/models"
	"github.com/tatianab/impact-games/internal/simulate"
)

// SchemaVersion is the version of the JSON report layout.
const SchemaVersion = 1

// DefaultSaveDir is used when no save directory is configured.
const DefaultSaveDir = ".saves"

// Choice is one selected option in a report.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// EntryReport is one played case, challenge or scenario.
type EntryReport struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Selections map[string][]Choice `json:"selections"`
	Scores     models.Effects      `json:"scores,omitempty"`
	Total      int64               `json:"total,omitempty"`
}

// Report is the JSON round report.
type Report struct {
	SchemaVersion int                 `json:"schemaVersion"`
	Game          string              `json:"game"`
	GeneratedAt   time.Time           `json:"generatedAt"`
	Entries       []EntryReport       `json:"entries"`
	Decisions     []simulate.Decision `json:"decisions,omitempty"`
	Indicators    models.Effects      `json:"indicators,omitempty"`
	Scores        models.Effects      `json:"scores,omitempty"`
	Badge         string              `json:"badge,omitempty"`
	Proposal      string              `json:"proposal,omitempty"`
}

// Exporter writes artifacts under <saveDir>/exports.
type Exporter struct {
	dir string
	now func() time.Time
}

// New returns an exporter rooted at saveDir.
func New(saveDir string) *Exporter {
	if saveDir == "" {
		saveDir = DefaultSaveDir
	}
	return &Exporter{dir: filepath.Join(saveDir, "exports"), now: time.Now}
}

// Dir is the directory artifacts are written to.
func (x *Exporter) Dir() string { return x.dir }

// Proposal writes the proposal text export and returns its path.
func (x *Exporter) Proposal(g *game.Game, s *game.Session) (string, error) {
	at := x.now()
	return x.write(g.ID(), "proposal", "txt", at, []byte(ProposalText(g, s, at)))
}

// Report writes the JSON report and returns its path.
func (x *Exporter) Report(g *game.Game, s *game.Session) (string, error) {
	at := x.now()
	data, err := json.MarshalIndent(BuildReport(g, s, at), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return x.write(g.ID(), "report", "json", at, data)
}

func (x *Exporter) write(gameID, kind, ext string, at time.Time, data []byte) (string, error) {
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s-%s.%s", gameID, kind, at.Format("20060102-150405"), ext)
	path := filepath.Join(x.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// BuildReport assembles the report of a session.
func BuildReport(g *game.Game, s *game.Session, at time.Time) Report {
	r := Report{
		SchemaVersion: SchemaVersion,
		Game:          g.ID(),
		GeneratedAt:   at.UTC(),
		Decisions:     s.Decisions,
		Indicators:    s.Indicators,
		Scores:        s.Scores,
		Badge:         s.Badge,
		Proposal:      s.Proposal,
		Entries:       []EntryReport{},
	}
	for _, round := range s.Rounds {
		e, _ := g.Entry(round.EntryID)
		r.Entries = append(r.Entries, EntryReport{
			ID:         round.EntryID,
			Title:      round.Title,
			Selections: choices(e, round.Selections),
			Scores:     round.Scores,
			Total:      round.Total,
		})
	}
	if len(r.Entries) == 0 {
		if e, ok := g.Entry(s.EntryID); ok {
			r.Entries = append(r.Entries, EntryReport{
				ID:         e.ID,
				Title:      e.Title,
				Selections: choices(e, s.Selections),
			})
		}
	}
	return r
}

func choices(e *models.Entry, selections map[string][]string) map[string][]Choice {
	out := make(map[string][]Choice, len(selections))
	for slot, ids := range selections {
		for _, id := range ids {
			c := Choice{ID: id, Label: id}
			if e != nil {
				if o, ok := game.OptionFor(e, slot, id); ok {
					c.Label = o.Label
				}
			}
			out[slot] = append(out[slot], c)
		}
	}
	return out
}

// ProposalText renders the proposal export.
func ProposalText(g *game.Game, s *game.Session, at time.Time) string {
	var b strings.Builder
	title := s.EntryID
	if e, ok := g.Entry(s.EntryID); ok {
		title = e.Title
	} else if n := len(s.Rounds); n > 0 {
		title = s.Rounds[n-1].Title
	}

	fmt.Fprintf(&b, "IMPACT PROPOSAL\n")
	fmt.Fprintf(&b, "Game:  %s\n", g.ID())
	fmt.Fprintf(&b, "Entry: %s\n", title)
	fmt.Fprintf(&b, "Date:  %s\n", at.Format("2006-01-02 15:04"))
	if s.Badge != "" {
		fmt.Fprintf(&b, "Badge: %s\n", s.Badge)
	}
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(s.Scores) > 0 {
		b.WriteString("Summary\n")
		keys := make([]string, 0, len(s.Scores))
		for k := range s.Scores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %-20s %g\n", k, s.Scores[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("Proposal\n")
	b.WriteString(strings.TrimSpace(s.Proposal))
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString("Exported from Impact Games.\n")
	return b.String()
}

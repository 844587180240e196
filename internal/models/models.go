package models

import (
	"math"
	"time"
)

// Game identifiers. They double as storage namespaces.
const (
	GameDetective       = "ai-detective"
	GameBuildBreakFix   = "build-break-fix"
	GameFutureDecisions = "future-decisions"
)

// DialogueEnd is the sentinel next-node id that closes a conversation.
const DialogueEnd = "end"

// Effects maps a score or indicator name to an additive delta.
type Effects map[string]float64

// Range is the closed interval a score is clamped into. A nil Max means
// the score is only floored.
type Range struct {
	Min float64  `yaml:"min" json:"min"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Clamp returns v limited to the range.
func (r Range) Clamp(v float64) float64 {
	v = math.Max(r.Min, v)
	if r.Max != nil {
		v = math.Min(*r.Max, v)
	}
	return v
}

// Option is one selectable answer inside a selection slot.
type Option struct {
	ID          string  `yaml:"id" json:"id"`
	Label       string  `yaml:"label" json:"text"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Effects     Effects `yaml:"effects,omitempty" json:"effects,omitempty"`
	Correct     bool    `yaml:"correct,omitempty" json:"correct,omitempty"`
	Decoy       bool    `yaml:"decoy,omitempty" json:"decoy,omitempty"`
	LogMessage  string  `yaml:"log,omitempty" json:"logMessage,omitempty"`
}

// Location is a place on the investigation map.
type Location struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// Item is a discoverable piece of evidence. Decoy items carry a penalty.
type Item struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Location    string `yaml:"location" json:"location"`
	Description string `yaml:"description" json:"description"`
	Decoy       bool   `yaml:"decoy,omitempty" json:"decoy,omitempty"`
}

// DialogueEdge is one reply the player can give.
type DialogueEdge struct {
	Label      string `yaml:"label" json:"label"`
	Next       string `yaml:"next" json:"next"`
	TrustDelta int    `yaml:"trust" json:"trustDelta"`
}

// DialogueNode is a line of actor text plus the replies leaving it.
type DialogueNode struct {
	Text  string         `yaml:"text" json:"text"`
	Edges []DialogueEdge `yaml:"edges" json:"edges"`
}

// Actor is an interviewable character. Nodes is a flat graph keyed by
// node id; Root names the opening node.
type Actor struct {
	ID       string                  `yaml:"id" json:"id"`
	Name     string                  `yaml:"name" json:"name"`
	Avatar   string                  `yaml:"avatar,omitempty" json:"avatar,omitempty"`
	Location string                  `yaml:"location" json:"location"`
	Trust    int                     `yaml:"trust" json:"trust"`
	Root     string                  `yaml:"root" json:"root"`
	Nodes    map[string]DialogueNode `yaml:"nodes" json:"nodes"`
}

// Tool is an AI tool available in the detective toolbox. It is plain data:
// the interpreter in the game package decides what using it means.
type Tool struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Cost        int     `yaml:"cost,omitempty" json:"cost,omitempty"`
	Kind        string  `yaml:"kind,omitempty" json:"kind,omitempty"`
	Output      string  `yaml:"output,omitempty" json:"output,omitempty"`
	Bonus       Effects `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Pros        string  `yaml:"pros,omitempty" json:"pros,omitempty"`
	Cons        string  `yaml:"cons,omitempty" json:"cons,omitempty"`
}

// Question is a single decision point inside a simulation round.
type Question struct {
	ID          string   `yaml:"id" json:"id"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Options     []Option `yaml:"options" json:"options"`
}

// Round is one step of a Future Decisions scenario.
type Round struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Situation string     `yaml:"situation" json:"situation"`
	Tools     []Tool     `yaml:"tools,omitempty" json:"tools,omitempty"`
	Questions []Question `yaml:"questions" json:"decisionQuestions"`
}

// Scoring declares how a game turns selections into scores.
type Scoring struct {
	Baseline     Effects            `yaml:"baseline" json:"baseline"`
	Ranges       map[string]Range   `yaml:"ranges" json:"ranges"`
	PerSelection map[string]Effects `yaml:"per_selection,omitempty" json:"perSelection,omitempty"`
	PerDecoy     Effects            `yaml:"per_decoy,omitempty" json:"perDecoy,omitempty"`
}

// Entry is one immutable case, challenge or scenario.
type Entry struct {
	ID                string              `yaml:"id" json:"id"`
	Title             string              `yaml:"title" json:"name"`
	Summary           string              `yaml:"summary" json:"description"`
	Icon              string              `yaml:"icon,omitempty" json:"thumbnail,omitempty"`
	SDG               string              `yaml:"sdg,omitempty" json:"sdg,omitempty"`
	Setting           string              `yaml:"setting,omitempty" json:"setting,omitempty"`
	Objectives        []string            `yaml:"objectives,omitempty" json:"objectives,omitempty"`
	Challenges        []string            `yaml:"challenges,omitempty" json:"challenges,omitempty"`
	Constraints       map[string]string   `yaml:"constraints,omitempty" json:"constraints,omitempty"`
	TimeLimitMinutes  int                 `yaml:"time_limit_minutes,omitempty" json:"timeLimit,omitempty"`
	InitialEnergy     int                 `yaml:"initial_energy,omitempty" json:"initialEnergy,omitempty"`
	InitialBudget     int                 `yaml:"initial_budget,omitempty" json:"initialBudget,omitempty"`
	InitialIndicators Effects             `yaml:"initial_indicators,omitempty" json:"initialIndicators,omitempty"`
	Locations         []Location          `yaml:"locations,omitempty" json:"locations,omitempty"`
	Items             []Item              `yaml:"items,omitempty" json:"clues,omitempty"`
	Actors            []Actor             `yaml:"actors,omitempty" json:"npcs,omitempty"`
	Options           map[string][]Option `yaml:"options,omitempty" json:"options,omitempty"`
	Rounds            []Round             `yaml:"rounds,omitempty" json:"rounds,omitempty"`
}

// Option looks up an option by slot and id.
func (e *Entry) Option(slot, id string) (Option, bool) {
	for _, o := range e.Options[slot] {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Location looks up a location by id.
func (e *Entry) Location(id string) (Location, bool) {
	for _, l := range e.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// Item looks up an item by id.
func (e *Entry) Item(id string) (Item, bool) {
	for _, it := range e.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// ItemsAt returns the items declared for a location in declaration order.
func (e *Entry) ItemsAt(location string) []Item {
	var items []Item
	for _, it := range e.Items {
		if it.Location == location {
			items = append(items, it)
		}
	}
	return items
}

// Actor looks up an actor by id.
func (e *Entry) Actor(id string) (Actor, bool) {
	for _, a := range e.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return Actor{}, false
}

// ActorAt returns the first actor stationed at a location.
func (e *Entry) ActorAt(location string) (Actor, bool) {
	for _, a := range e.Actors {
		if a.Location == location {
			return a, true
		}
	}
	return Actor{}, false
}

// Question looks up a decision question across all rounds.
func (e *Entry) Question(id string) (Question, bool) {
	for _, r := range e.Rounds {
		for _, q := range r.Questions {
			if q.ID == id {
				return q, true
			}
		}
	}
	return Question{}, false
}

// CatalogFile is the on-disk shape of one game's content.
type CatalogFile struct {
	Game    string  `yaml:"game"`
	Tools   []Tool  `yaml:"tools,omitempty"`
	Scoring Scoring `yaml:"scoring"`
	Entries []Entry `yaml:"entries"`
}

// CompletedEntry is one finished case or challenge inside a submission.
type CompletedEntry struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Selections map[string][]string `json:"selections,omitempty"`
	Scores     Effects             `json:"scores"`
}

// Submission is the payload stored when a player submits a proposal.
type Submission struct {
	ID               string           `json:"id"`
	Proposal         string           `json:"proposal"`
	CompletedEntries []CompletedEntry `json:"completedEntries"`
	Scores           Effects          `json:"scores"`
	Badge            string           `json:"badge,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

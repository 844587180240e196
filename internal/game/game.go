// Package game is the screen-flow and scoring engine shared by the three
// games. A Session is advanced only through Reduce; the Controller wraps
// Reduce for a single interactive player.
package game

import (
	"fmt"

	"github.com/tatianab/impact-games/internal/catalog"
	"github.com/tatianab/impact-games/internal/models"
)

// Game bundles a flow with its immutable content.
type Game struct {
	Flow    *Flow
	Content *models.CatalogFile
}

// New binds a game's flow to its catalog content.
func New(cat *catalog.Catalog, id string) (*Game, error) {
	flow, ok := FlowFor(id)
	if !ok {
		return nil, fmt.Errorf("unknown game %q", id)
	}
	content, ok := cat.Game(id)
	if !ok {
		return nil, fmt.Errorf("no content for game %q", id)
	}
	return &Game{Flow: flow, Content: content}, nil
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.Flow.Game
}

// Entry looks up one of the game's catalog entries.
func (g *Game) Entry(id string) (*models.Entry, bool) {
	for i := range g.Content.Entries {
		if g.Content.Entries[i].ID == id {
			return &g.Content.Entries[i], true
		}
	}
	return nil, false
}

// Tool looks up a game-level tool.
func (g *Game) Tool(id string) (models.Tool, bool) {
	for _, t := range g.Content.Tools {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tool{}, false
}

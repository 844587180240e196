package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"github.com/tatianab/impact-games/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed content/*.yaml
var content embed.FS

// Catalog is the immutable set of cases, challenges and scenarios for every
// game. It is loaded once and never mutated.
type Catalog struct {
	games map[string]*models.CatalogFile
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog built from the embedded content files.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(content)
	})
	return defaultCat, defaultErr
}

// Load parses every content/*.yaml file in fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "content/*.yaml")
	if err != nil {
		return nil, err
	}
	c := &Catalog{games: make(map[string]*models.CatalogFile)}
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var file models.CatalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path.Base(name), err)
		}
		if file.Game == "" {
			return nil, fmt.Errorf("%s: missing game id", path.Base(name))
		}
		if err := validate(&file); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(name), err)
		}
		c.games[file.Game] = &file
	}
	return c, nil
}

// validate checks the references inside a content file so that lookups at
// play time never dangle.
func validate(file *models.CatalogFile) error {
	seen := make(map[string]bool)
	for i := range file.Entries {
		e := &file.Entries[i]
		if seen[e.ID] {
			return fmt.Errorf("duplicate entry %q", e.ID)
		}
		seen[e.ID] = true

		for _, it := range e.Items {
			if _, ok := e.Location(it.Location); !ok {
				return fmt.Errorf("entry %q: item %q at unknown location %q", e.ID, it.ID, it.Location)
			}
		}
		for _, a := range e.Actors {
			if _, ok := a.Nodes[a.Root]; !ok {
				return fmt.Errorf("entry %q: actor %q has no root node %q", e.ID, a.ID, a.Root)
			}
			for id, node := range a.Nodes {
				for _, edge := range node.Edges {
					if edge.Next == models.DialogueEnd {
						continue
					}
					if _, ok := a.Nodes[edge.Next]; !ok {
						return fmt.Errorf("entry %q: actor %q node %q points at unknown node %q", e.ID, a.ID, id, edge.Next)
					}
				}
			}
		}
	}
	return nil
}

// Games returns the ids of the loaded games, sorted.
func (c *Catalog) Games() []string {
	ids := make([]string, 0, len(c.games))
	for id := range c.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Game returns the full content file of one game.
func (c *Catalog) Game(game string) (*models.CatalogFile, bool) {
	f, ok := c.games[game]
	return f, ok
}

// Entries lists the entries of a game in declaration order.
func (c *Catalog) Entries(game string) []models.Entry {
	f, ok := c.games[game]
	if !ok {
		return nil
	}
	return f.Entries
}

// Entry looks up one entry of a game.
func (c *Catalog) Entry(game, id string) (*models.Entry, bool) {
	f, ok := c.games[game]
	if !ok {
		return nil, false
	}
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			return &f.Entries[i], true
		}
	}
	return nil, false
}

// Tool looks up a game-level tool by id.
func (c *Catalog) Tool(game, id string) (models.Tool, bool) {
	f, ok := c.games[game]
	if !ok {
		return models.Tool{}, false
	}
	for _, t := range f.Tools {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tool{}, false
}

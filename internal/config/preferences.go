package config

import (
	"fmt"
	"sync"

	"github.com/mmcdole/classboard/internal/dashboard"
)

// Preferences serves the dashboard selection to the orchestrator. It is
// read on every load, so Update takes effect on the next one.
type Preferences struct {
	mu      sync.RWMutex
	sources dashboard.SourceSet
	order   []dashboard.TileType
	theme   string
}

func NewPreferences(cfg DashboardConfig) (*Preferences, error) {
	p := &Preferences{}
	if err := p.Update(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the selection. The account source is always included and
// an empty tile list selects everything.
func (p *Preferences) Update(cfg DashboardConfig) error {
	sources, err := ParseSources(cfg.Tiles)
	if err != nil {
		return err
	}
	order := make([]dashboard.TileType, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		t, err := dashboard.ParseTileType(name)
		if err != nil {
			return fmt.Errorf("dashboard.order: %w", err)
		}
		order = append(order, t)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources = sources
	p.order = order
	p.theme = cfg.GradeColorTheme
	return nil
}

// ParseSources turns configured tile names into a source set.
func ParseSources(names []string) (dashboard.SourceSet, error) {
	if len(names) == 0 {
		return dashboard.AllSources(), nil
	}
	set := dashboard.NewSourceSet(dashboard.SourceAccount)
	for _, name := range names {
		id, err := dashboard.ParseDataSourceID(name)
		if err != nil {
			return 0, fmt.Errorf("dashboard.tiles: %w", err)
		}
		set = set.With(id)
	}
	return set, nil
}

func (p *Preferences) ConfiguredSources() dashboard.SourceSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sources
}

func (p *Preferences) TileOrder() []dashboard.TileType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]dashboard.TileType(nil), p.order...)
}

func (p *Preferences) GradeColorTheme() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

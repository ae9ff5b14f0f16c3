package dashboard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/classboard/internal/resource"
)

// emission is one stream value routed to the board.
type emission struct {
	source DataSourceID
	gen    uint64
	force  bool
	status resource.Status

	tile  Tile        // plain sources
	group groupUpdate // horizontal group sub-fields
	err   error
}

// tileSet holds at most one tile per type.
type tileSet struct {
	tiles [tileTypeCount]Tile
	group *HorizontalGroupTile
}

func (s *tileSet) get(t TileType) Tile {
	if t == TypeHorizontalGroup {
		if s.group == nil {
			return nil
		}
		return *s.group
	}
	return s.tiles[t]
}

func (s *tileSet) put(t Tile) {
	s.tiles[t.Type()] = t
}

func (s *tileSet) mergeGroup(u groupUpdate, want GroupField) {
	g := newHorizontalGroup(want)
	if s.group != nil {
		g = *s.group
	}
	g = g.apply(u)
	s.group = &g
}

// prune drops tiles whose type is not configured and narrows the group to
// the configured sub-fields.
func (s *tileSet) prune(types TypeSet, want GroupField) {
	for t := range s.tiles {
		if !types.Has(TileType(t)) {
			s.tiles[t] = nil
		}
	}
	if s.group == nil {
		return
	}
	if !types.Has(TypeHorizontalGroup) {
		s.group = nil
		return
	}
	g := s.group.restrict(want)
	s.group = &g
}

// list returns the tiles sorted by display position.
func (s *tileSet) list(order []TileType) []Tile {
	out := make([]Tile, 0, tileTypeCount)
	for t := TileType(0); t < tileTypeCount; t++ {
		if tile := s.get(t); tile != nil {
			out = append(out, tile)
		}
	}
	sortTiles(out, order)
	return out
}

// settledness reports whether every type in types has a tile and whether
// all of those tiles are settled.
func (s *tileSet) settledness(types TypeSet) (allPresent, allSettled bool) {
	allPresent, allSettled = true, true
	for _, t := range types.Types() {
		tile := s.get(t)
		if tile == nil {
			allPresent, allSettled = false, false
			continue
		}
		if !tile.settled() {
			allSettled = false
		}
	}
	return allPresent, allSettled
}

// board is the merge state machine. It is not safe for concurrent use; the
// orchestrator goroutine owns it.
type board struct {
	view   View
	logger *slog.Logger

	order   []TileType
	sources SourceSet
	types   TypeSet
	want    GroupField

	loaded tileSet

	// shadow gathers the results of an in-flight forced refresh.
	shadow      tileSet
	shadowTypes TypeSet
	refreshing  bool

	// arrived records the types that settled in the current load; a load
	// keeps the previous tiles on screen until each one answers again.
	arrived       TypeSet
	fieldsArrived GroupField

	errorShown  bool
	lastErr     error
	lastSettled bool
}

func newBoard(view View, logger *slog.Logger) *board {
	if view == nil {
		view = nopView{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &board{view: view, logger: logger}
}

// configure applies a new source selection and order. Tiles whose type is no
// longer configured are removed. Reports whether the set of tile types changed.
func (b *board) configure(sources SourceSet, order []TileType) bool {
	types := sources.TileTypes()
	changed := types != b.types
	b.sources = sources
	b.types = types
	b.want = sources.GroupFields()
	b.order = append([]TileType(nil), order...)

	b.loaded.prune(types, b.want)
	if b.refreshing {
		b.shadow.prune(types, b.want)
		b.shadowTypes = types
	}
	return changed
}

// publish pushes the current list without merging anything, after a
// reconfiguration removed tiles.
func (b *board) publish() {
	b.view.UpdateData(b.loaded.list(b.order))
	b.view.ResetScrollPosition()
}

// beginCycle prepares for a new round of loads.
func (b *board) beginCycle(force bool) {
	if force {
		b.shadow = tileSet{}
		b.shadowTypes = b.types
		b.refreshing = true
		b.view.ShowRefreshIndicator(true)
		return
	}

	if b.refreshing {
		b.endRefresh()
	}
	b.arrived, b.fieldsArrived = 0, 0
	if b.loaded.group != nil {
		g := b.loaded.group.restart()
		b.loaded.group = &g
	}
}

func (b *board) endRefresh() {
	b.refreshing = false
	b.shadow = tileSet{}
	b.shadowTypes = 0
	b.view.ShowRefreshIndicator(false)
}

// merge folds one emission into the board and pushes the result to the view.
func (b *board) merge(em emission) {
	if em.force && em.status == resource.StatusLoading {
		return
	}
	tt := em.source.TileType()
	if !b.types.Has(tt) || !b.sources.Has(em.source) {
		return
	}

	if tt == TypeHorizontalGroup {
		b.loaded.mergeGroup(em.group, b.want)
		if em.group.set != nil || em.group.terminal {
			b.fieldsArrived |= em.group.field
		}
	} else {
		next := em.tile
		if em.force && em.status == resource.StatusError {
			if cur := b.loaded.get(tt); cur != nil && cur.DataLoaded() {
				next = cur.withRefreshError(em.err)
			}
		}
		b.loaded.put(next)
		if next.settled() {
			b.arrived = b.arrived.With(tt)
		}
	}

	if em.force && b.refreshing {
		if tt == TypeHorizontalGroup {
			b.shadow.mergeGroup(em.group, b.want)
		} else {
			b.shadow.put(em.tile)
		}
	}

	tiles := b.loaded.list(b.order)
	_, allSettled := b.loaded.settledness(b.types)
	allSettled = allSettled && b.allArrived()
	b.view.UpdateData(tiles)

	if em.force && b.refreshing {
		if _, done := b.shadow.settledness(b.shadowTypes); done {
			b.logger.Debug("refresh settled")
			b.endRefresh()
		}
	}

	general := false
	if allSettled {
		general = b.aggregate(tiles)
	}
	b.view.ShowProgress(!allSettled && !em.force)
	b.view.ShowContent(allSettled && !general)

	if allSettled {
		if general != b.errorShown {
			b.view.ShowErrorView(general)
			b.errorShown = general
		}
		if !b.lastSettled {
			b.logger.Info("dashboard settled", "tiles", len(tiles), "general_error", general)
		}
	}
	b.lastSettled = allSettled
}

func (b *board) allArrived() bool {
	arrived := b.arrived
	if b.want&^b.fieldsArrived == 0 {
		arrived = arrived.With(TypeHorizontalGroup)
	}
	return b.types&^arrived == 0
}

// aggregate collects every tile error and decides whether the whole
// dashboard failed: the account tile failed, or every other configured tile
// failed.
func (b *board) aggregate(tiles []Tile) bool {
	var errs []error
	accountFailed := false
	others, othersFailed := 0, 0
	for _, t := range tiles {
		for _, err := range t.problems() {
			errs = append(errs, fmt.Errorf("%s: %w", t.Type(), err))
		}
		if t.Type() == TypeAccount {
			accountFailed = failed(t)
			continue
		}
		others++
		if failed(t) {
			othersFailed++
		}
	}
	b.lastErr = errors.Join(errs...)
	return accountFailed || (others > 0 && othersFailed == others)
}

// retry clears the error view ahead of a new load.
func (b *board) retry() {
	b.errorShown = false
	b.view.ShowErrorView(false)
	b.view.ShowProgress(true)
}

func (b *board) errorDetails() string {
	if b.lastErr == nil {
		return ""
	}
	return b.lastErr.Error()
}

// Package dashboard merges many independent data sources into one ordered
// list of tiles and drives the progress, content, refresh and error signals
// of a View.
package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/classboard/internal/resource"
)

const inboxSize = 64

type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// Orchestrator owns the dashboard state. A single goroutine applies every
// command and every stream emission in arrival order, so the board is never
// touched concurrently. All public methods are safe to call from any
// goroutine and never block on a load.
type Orchestrator struct {
	providers Providers
	prefs     Preferences
	logger    *slog.Logger
	now       func() time.Time

	inbox   chan any
	done    chan struct{}
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	tasks   errgroup.Group
	once    sync.Once

	// Owned by the run goroutine.
	board *board
	jobs  [sourceCount]job
	cycle string
}

// job tracks the current load of one source. Emissions carrying an older
// generation belong to a cancelled load and are dropped.
type job struct {
	gen      uint64
	cancel   context.CancelFunc
	terminal bool
}

type (
	attachCmd  struct{ view View }
	loadCmd    struct{ force bool }
	retryCmd   struct{}
	detailsCmd struct{}
	syncCmd    struct{ done chan struct{} }
)

func New(providers Providers, prefs Preferences, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		providers: providers,
		prefs:     prefs,
		logger:    logger,
		now:       now,
		inbox:     make(chan any, inboxSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		board:     newBoard(nil, logger),
	}
	go o.run()
	return o
}

// Attach binds the view, shows progress and starts the first load.
func (o *Orchestrator) Attach(v View) { o.send(attachCmd{view: v}) }

// Load restarts every configured source. Forced loads bypass caches and
// report through the refresh indicator instead of the progress indicator.
func (o *Orchestrator) Load(force bool) { o.send(loadCmd{force: force}) }

func (o *Orchestrator) OnSwipeRefresh() { o.Load(true) }

// OnRetry hides the error view and shows progress. It does not load; the
// caller follows up with Load.
func (o *Orchestrator) OnRetry() { o.send(retryCmd{}) }

// OnShowErrorDetails pushes the text of the last aggregated error to the view.
func (o *Orchestrator) OnShowErrorDetails() { o.send(detailsCmd{}) }

// Close cancels all loads and waits for them to exit.
func (o *Orchestrator) Close() error {
	o.once.Do(func() {
		close(o.done)
		o.cancel()
		<-o.stopped
	})
	return o.tasks.Wait()
}

// sync blocks until every command sent before it has been handled.
func (o *Orchestrator) sync() {
	done := make(chan struct{})
	o.send(syncCmd{done: done})
	select {
	case <-done:
	case <-o.stopped:
	}
}

func (o *Orchestrator) send(msg any) {
	select {
	case o.inbox <- msg:
	case <-o.done:
	}
}

func (o *Orchestrator) run() {
	defer close(o.stopped)
	for {
		select {
		case <-o.done:
			return
		case msg := <-o.inbox:
			o.handle(msg)
		}
	}
}

func (o *Orchestrator) handle(msg any) {
	switch m := msg.(type) {
	case emission:
		o.receive(m)
	case attachCmd:
		view := m.view
		if view == nil {
			view = nopView{}
		}
		o.board.view = view
		view.ShowProgress(true)
		view.ShowContent(false)
		o.load(false)
	case loadCmd:
		o.load(m.force)
	case retryCmd:
		o.board.retry()
	case detailsCmd:
		o.board.view.SetErrorDetails(o.board.errorDetails())
	case syncCmd:
		close(m.done)
	}
}

func (o *Orchestrator) load(force bool) {
	sources := o.prefs.ConfiguredSources()
	if sources.Len() == 0 {
		o.logger.Warn("no data sources configured")
		o.board.view.ShowProgress(false)
		o.board.view.ShowContent(true)
		return
	}

	hadTiles := len(o.board.loaded.list(o.board.order)) > 0
	if o.board.configure(sources, o.prefs.TileOrder()) && hadTiles {
		o.board.publish()
	}
	for id := range o.jobs {
		if j := &o.jobs[id]; j.cancel != nil && !sources.Has(DataSourceID(id)) {
			j.cancel()
			j.cancel = nil
			j.gen++
		}
	}

	o.cycle = uuid.NewString()
	o.logger.Info("loading dashboard", "cycle", o.cycle, "force", force, "sources", sources.Len())

	o.board.beginCycle(force)
	binds := bindAll(o.providers, o.now, o.prefs.GradeColorTheme())
	for _, id := range sources.IDs() {
		o.start(id, force, binds[id])
	}
}

// start cancels any running load of id and launches a new one.
func (o *Orchestrator) start(id DataSourceID, force bool, bind binding) {
	j := &o.jobs[id]
	if j.cancel != nil {
		j.cancel()
	}
	j.gen++
	j.terminal = false

	ctx, cancel := context.WithCancel(o.ctx)
	j.cancel = cancel
	gen := j.gen

	o.tasks.Go(func() error {
		defer cancel()
		bind(ctx, force, func(em emission) {
			em.source, em.gen, em.force = id, gen, force
			select {
			case o.inbox <- em:
			case <-ctx.Done():
			case <-o.done:
			}
		})
		return nil
	})
}

func (o *Orchestrator) receive(em emission) {
	j := &o.jobs[em.source]
	if em.gen != j.gen {
		o.logger.Debug("dropping superseded emission", "source", em.source.String(), "gen", em.gen, "current", j.gen)
		return
	}
	if j.terminal {
		o.logger.Warn("emission after terminal state", "source", em.source.String(), "status", em.status.String())
		return
	}
	if em.status.Terminal() {
		j.terminal = true
	}

	o.logger.Debug("emission", "cycle", o.cycle, "source", em.source.String(), "status", em.status.String(), "force", em.force)
	if em.status == resource.StatusError {
		o.logger.Warn("source failed", "cycle", o.cycle, "source", em.source.String(), "error", em.err)
	}
	o.board.merge(em)
}

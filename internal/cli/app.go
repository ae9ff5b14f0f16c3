package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/mmcdole/classboard/internal/config"
	"github.com/mmcdole/classboard/internal/dashboard"
	"github.com/mmcdole/classboard/internal/domain"
	"github.com/mmcdole/classboard/internal/fixture"
	"github.com/mmcdole/classboard/internal/logging"
	"github.com/mmcdole/classboard/internal/provider"
	"github.com/mmcdole/classboard/internal/store"
)

const demoScope = "demo"

// runtime is everything one dashboard session needs, wired from config.
type runtime struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	logCloser  io.Closer

	cache  domain.Cache
	client *fixture.Client
	prefs  *config.Preferences
	orch   *dashboard.Orchestrator
}

func loadConfig(app *AppContext) (*config.Config, error) {
	cfg, err := config.Load(app.Opts.ConfigPath)
	if err != nil {
		return nil, withExitCode(ExitInvalidConfig, err)
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer) {
	logger, closer, err := logging.Setup(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Fall back to null logger if file logging fails
		return logging.Null(), nil
	}
	return logger, closer
}

func openCache(cfg *config.Config, logger *slog.Logger) (domain.Cache, error) {
	scope := cfg.Fixture.File
	if scope == "" {
		scope = demoScope
	}
	cache, err := store.Open(cfg.Cache.Driver, cfg.Cache.Dir, scope, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache, nil
}

func loadFixture(cfg *config.Config) (*fixture.File, error) {
	if cfg.Fixture.File == "" {
		return fixture.Demo()
	}
	return fixture.LoadFrom(cfg.Fixture.File)
}

func newRuntime(app *AppContext) (*runtime, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return nil, err
	}

	rt := &runtime{configPath: app.Opts.ConfigPath, cfg: cfg}
	rt.logger, rt.logCloser = setupLogger(cfg)
	slog.SetDefault(rt.logger)

	data, err := loadFixture(cfg)
	if err != nil {
		rt.Close()
		return nil, withExitCode(ExitInvalidConfig, err)
	}

	rt.cache, err = openCache(cfg, rt.logger)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.client = fixture.NewClient(data, fixture.Options{
		Latency: cfg.Fixture.Latency,
		Fail:    cfg.Fixture.Fail,
		Logger:  rt.logger,
	})

	rt.prefs, err = config.NewPreferences(cfg.Dashboard)
	if err != nil {
		rt.Close()
		return nil, withExitCode(ExitInvalidConfig, err)
	}

	providers := provider.New(rt.client, rt.cache, provider.Options{Logger: rt.logger}).Providers()
	rt.orch = dashboard.New(providers, rt.prefs, dashboard.Options{Logger: rt.logger})

	rt.logger.Info("dashboard ready",
		"cache", cfg.Cache.Driver,
		"fixture", cfg.Fixture.File,
		"sources", rt.prefs.ConfiguredSources().Len())
	return rt, nil
}

// Reload re-reads the configuration file and applies the tile selection
// and injected failures. The next load picks them up.
func (rt *runtime) Reload() error {
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	if err := rt.prefs.Update(cfg.Dashboard); err != nil {
		return err
	}
	for _, endpoint := range fixture.Endpoints() {
		rt.client.SetFailing(endpoint, slices.Contains(cfg.Fixture.Fail, endpoint))
	}
	rt.cfg = cfg
	rt.logger.Info("configuration reloaded", "sources", rt.prefs.ConfiguredSources().Len())
	return nil
}

func (rt *runtime) Close() error {
	var errs []error
	if rt.orch != nil {
		errs = append(errs, rt.orch.Close())
	}
	if rt.cache != nil {
		errs = append(errs, rt.cache.Close())
	}
	if rt.logCloser != nil {
		errs = append(errs, rt.logCloser.Close())
	}
	return errors.Join(errs...)
}

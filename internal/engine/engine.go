package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dailyjobs/search-service/internal/model"
	"dailyjobs/search-service/internal/trigger"
)

const defaultRunTimeout = 5 * time.Minute

// Engine wires the registry and coordinator into the entry points the rest
// of the system calls when configs change or a manual run is requested.
type Engine struct {
	store      Storage
	registry   *Registry
	coord      *Coordinator
	log        *zap.Logger
	now        func() time.Time
	runTimeout time.Duration
}

// New constructs an Engine.
func New(store Storage, registry *Registry, coord *Coordinator, log *zap.Logger) *Engine {
	return &Engine{
		store:      store,
		registry:   registry,
		coord:      coord,
		log:        log,
		now:        time.Now,
		runTimeout: defaultRunTimeout,
	}
}

// SetRunTimeout overrides the per-run deadline applied to scheduled fires.
func (e *Engine) SetRunTimeout(d time.Duration) {
	if d > 0 {
		e.runTimeout = d
	}
}

// OnConfigSaved compiles and (re)registers cfg's trigger after a create,
// update or activation. Saving an inactive config cancels any live trigger.
// A malformed cadence is reported to the caller and leaves the registry
// untouched.
func (e *Engine) OnConfigSaved(cfg model.SearchConfig) error {
	if !cfg.IsActive {
		e.registry.Unregister(cfg.ID)
		return nil
	}

	sched, err := trigger.Compile(cfg.Cadence, e.now())
	if err != nil {
		return err
	}

	configID := cfg.ID
	e.registry.Register(configID, sched, func() { e.fire(configID) })
	e.log.Info("trigger registered",
		zap.String("config_id", configID), zap.String("cadence", string(cfg.Cadence.Kind)))
	return nil
}

// OnConfigRemoved cancels the config's trigger after deactivation or
// deletion. An in-flight run is allowed to complete.
func (e *Engine) OnConfigRemoved(configID string) {
	e.registry.Unregister(configID)
	e.log.Info("trigger removed", zap.String("config_id", configID))
}

// RunNow executes one cycle immediately, outside the schedule.
func (e *Engine) RunNow(ctx context.Context, configID string) (RunOutcome, error) {
	return e.coord.RunCycle(ctx, configID)
}

// RunTest executes one cycle immediately, clearing the owning user's
// previously persisted postings first.
func (e *Engine) RunTest(ctx context.Context, configID string) (RunOutcome, error) {
	return e.coord.RunTest(ctx, configID)
}

// Startup reconciles registry state from storage and starts firing: every
// currently-active config gets a trigger. Configs whose cadence no longer
// compiles are logged and skipped rather than failing startup.
func (e *Engine) Startup(ctx context.Context) error {
	configs, err := e.store.LoadActiveConfigs(ctx)
	if err != nil {
		return err
	}

	registered := 0
	for _, cfg := range configs {
		if err := e.OnConfigSaved(cfg); err != nil {
			e.log.Warn("skipping config with invalid cadence",
				zap.String("config_id", cfg.ID), zap.Error(err))
			continue
		}
		registered++
	}

	e.registry.Start()
	e.log.Info("engine started", zap.Int("triggers", registered))
	return nil
}

// Stop cancels all future fires; in-flight runs complete.
func (e *Engine) Stop() {
	e.registry.Stop()
	e.log.Info("engine stopped")
}

// fire runs one scheduled cycle. Failures are logged and never propagate
// to the registry or to other configs' runs.
func (e *Engine) fire(configID string) {
	ctx, cancel := context.WithTimeout(context.Background(), e.runTimeout)
	defer cancel()

	if _, err := e.coord.RunCycle(ctx, configID); err != nil {
		e.log.Error("scheduled run failed", zap.String("config_id", configID), zap.Error(err))
	}
}

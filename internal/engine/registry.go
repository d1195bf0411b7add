// Package engine orchestrates scheduled search run cycles: the process-wide
// trigger registry, the per-run coordinator, and the facade the rest of the
// system calls.
package engine

import (
	"sort"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Registry owns the process-wide table of live triggers, one per active
// search config. Callbacks run on the underlying cron runner's goroutines
// and never hold the registry lock, so register/unregister stay fast and
// independent of in-flight runs.
type Registry struct {
	cron *cron.Cron
	log  *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewRegistry constructs a stopped registry; call Start to begin firing.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		cron:    cron.New(),
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

// Start begins firing registered triggers.
func (r *Registry) Start() {
	r.cron.Start()
}

// Stop cancels all future fires. In-flight callbacks are left to finish.
func (r *Registry) Stop() {
	r.cron.Stop()
}

// Register installs sched for configID, atomically replacing any existing
// trigger: there is no window where both old and new triggers are live.
func (r *Registry) Register(configID string, sched cron.Schedule, callback func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[configID]; ok {
		r.cron.Remove(id)
		r.log.Debug("replacing trigger", zap.String("config_id", configID))
	}
	r.entries[configID] = r.cron.Schedule(sched, cron.FuncJob(callback))
}

// Unregister cancels and removes configID's trigger. Unknown ids are a
// no-op; removal affects future fires only.
func (r *Registry) Unregister(configID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.entries[configID]
	if !ok {
		return
	}
	r.cron.Remove(id)
	delete(r.entries, configID)
}

// ActiveIDs lists the configs that currently hold a live trigger, sorted.
func (r *Registry) ActiveIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

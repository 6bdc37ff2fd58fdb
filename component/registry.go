package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/speakmate/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry runs components in registration order and stops them in reverse.
type Registry struct {
	mu      sync.RWMutex
	items   []Component
	started map[string]bool
	log     *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		started: make(map[string]bool),
		log:     logger.WithComponent("registry"),
	}
}

// Register adds c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Name() == c.Name() {
			return fmt.Errorf("component %s already registered", c.Name())
		}
	}
	r.items = append(r.items, c)
	return nil
}

// StartAll starts every component, stopping at the first failure. Components
// started before the failure stay marked started so StopAll can unwind them.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.items {
		name := c.Name()
		if err := c.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.ErrorFields("start", err))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started[name] = true
		r.log.Debug("Component started", logger.Fields(logger.FieldComponent, name))
	}
	return nil
}

// StopAll stops started components in reverse order and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.items) - 1; i >= 0; i-- {
		c := r.items[i]
		name := c.Name()
		if !r.started[name] {
			continue
		}
		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		r.started[name] = false
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			continue
		}
		r.log.Debug("Component stopped", logger.Fields(logger.FieldComponent, name))
	}
	return errors.Join(errs...)
}

// HealthAll returns each component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Health, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c.Health(ctx))
	}
	return out
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// All returns the registered components in order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Component(nil), r.items...)
}

// Overall folds individual reports into one status: any unhealthy component
// makes the whole unhealthy, otherwise any degraded one degrades it.
func Overall(reports []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range reports {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

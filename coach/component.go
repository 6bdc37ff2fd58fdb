package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/speakmate/component"
	"github.com/kbukum/speakmate/logger"
	"github.com/kbukum/speakmate/storage/local"
)

const staleUploadAge = time.Hour

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component reports the pipeline's health and clears uploads left in the
// scratch directory by an earlier process.
type Component struct {
	svc     *Service
	scratch *local.Scratch
	log     *logger.Logger
}

// NewComponent wraps svc.
func NewComponent(svc *Service, scratch *local.Scratch, log *logger.Logger) *Component {
	return &Component{svc: svc, scratch: scratch, log: log.WithComponent("coach")}
}

func (c *Component) Name() string { return "coach" }

func (c *Component) Start(context.Context) error {
	n, err := c.scratch.Purge(staleUploadAge)
	if err != nil {
		return fmt.Errorf("coach: purge scratch: %w", err)
	}
	if n > 0 {
		c.log.Info("Removed stale uploads", logger.Fields("count", n, "dir", c.scratch.Dir()))
	}
	return nil
}

func (c *Component) Stop(context.Context) error { return nil }

// Health is unhealthy when no provider is available and degraded when only
// some are.
func (c *Component) Health(ctx context.Context) component.Health {
	var down []string
	providers := c.svc.Providers()
	for _, p := range providers {
		if !p.IsAvailable(ctx) {
			down = append(down, p.Name())
		}
	}
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case len(down) == len(providers):
		h.Status = component.StatusUnhealthy
	case len(down) > 0:
		h.Status = component.StatusDegraded
	}
	if len(down) > 0 {
		h.Message = "unavailable: " + strings.Join(down, ", ")
	}
	return h
}

func (c *Component) Describe() component.Description {
	providers := c.svc.Providers()
	return component.Description{
		Name: "Speech Coach",
		Type: "pipeline",
		Details: fmt.Sprintf("stt=%s llm=%s max_in_flight=%d upload=%s",
			providers[0].Name(), providers[1].Name(), c.svc.bulkhead.Capacity(), c.svc.cfg.MaxUploadSize),
	}
}

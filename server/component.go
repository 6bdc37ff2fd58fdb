package server

import (
	"context"

	"github.com/kbukum/speakmate/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component adapts Server to the component lifecycle.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

func (c *Component) Name() string { return "http-server" }

func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

func (c *Component) Health(context.Context) component.Health {
	c.server.mu.Lock()
	bound := c.server.listener != nil
	c.server.mu.Unlock()
	if !bound {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not listening"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: c.server.Addr(),
	}
}

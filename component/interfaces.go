package component

import "context"

// HealthStatus is the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of a binary.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a component's line in the startup summary.
type Description struct {
	// Name defaults to the component's Name() when empty.
	Name    string
	Type    string
	Details string
}

// Describable is implemented by components that report themselves in the
// startup summary.
type Describable interface {
	Describe() Description
}

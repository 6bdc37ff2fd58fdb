package bootstrap

import (
	"time"

	"github.com/kbukum/speakmate/component"
	"github.com/kbukum/speakmate/logger"
)

// logSummary writes one line per describable component followed by a ready
// line carrying the startup duration.
func logSummary(log *logger.Logger, name, version string, took time.Duration, comps []component.Component) {
	for _, c := range comps {
		d, ok := c.(component.Describable)
		if !ok {
			continue
		}
		desc := d.Describe()
		if desc.Name == "" {
			desc.Name = c.Name()
		}
		log.Info("Component ready", logger.Fields(
			logger.FieldComponent, desc.Name,
			"type", desc.Type,
			"details", desc.Details,
		))
	}
	log.Info("Application started", logger.Fields(
		"name", name,
		"version", version,
		"components", len(comps),
		"startup_ms", took.Milliseconds(),
	))
}

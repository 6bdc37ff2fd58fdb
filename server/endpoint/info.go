package endpoint

import (
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speakmate/version"
)

var startTime = time.Now()

// Route is one registered route.
type Route struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Info reports the service name, build, uptime, runtime figures and the
// route table. routes may be nil.
func Info(serviceName string, routes func() gin.RoutesInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"build":      version.Get(),
			"uptime":     time.Since(startTime).Round(time.Second).String(),
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"goroutines": runtime.NumGoroutine(),
			"memory_mb":  m.Alloc / 1024 / 1024,
			"routes":     routeTable(routes),
		})
	}
}

func routeTable(routes func() gin.RoutesInfo) []Route {
	if routes == nil {
		return nil
	}
	info := routes()
	out := make([]Route, 0, len(info))
	for _, r := range info {
		out = append(out, Route{Method: r.Method, Path: r.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

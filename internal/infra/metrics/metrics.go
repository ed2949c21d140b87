package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "ovs_bridge_agent"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultTimeout = "timeout"
)

var (
	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "tool_calls_total",
			Help:      "Count of control tool invocations by tool and result.",
		},
		[]string{"tool", "result"},
	)
	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "tool_call_duration_seconds",
			Help:      "Wall time of control tool invocations.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool"},
	)
)

var registerMetrics sync.Once

// Register adds the agent collectors to reg. Only the first call has effect.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(toolCalls)
		reg.MustRegister(toolDuration)
	})
}

// RecordToolCall counts one invocation of tool and observes its duration.
func RecordToolCall(tool, result string, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool, result).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

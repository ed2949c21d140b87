package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordToolCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	before := testutil.ToFloat64(toolCalls.WithLabelValues("ovs-ofctl", ResultTimeout))
	RecordToolCall("ovs-ofctl", ResultTimeout, 2*time.Second)
	RecordToolCall("ovs-ofctl", ResultTimeout, 2*time.Second)
	assert.Equal(t, before+2, testutil.ToFloat64(toolCalls.WithLabelValues("ovs-ofctl", ResultTimeout)))

	n, err := testutil.GatherAndCount(reg, "ovs_bridge_agent_tool_call_duration_seconds")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

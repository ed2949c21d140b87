package ovs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDBMap(t *testing.T) {
	tests := map[string]struct {
		in   string
		want map[string]string
	}{
		"quoted values": {
			in:   `{a="1", b="2"}`,
			want: map[string]string{"a": "1", "b": "2"},
		},
		"malformed entry skipped": {
			in:   `{a="1", malformed}`,
			want: map[string]string{"a": "1"},
		},
		"unquoted values": {
			in:   `{collisions=0, rx_bytes=1024, tx_packets=7}`,
			want: map[string]string{"collisions": "0", "rx_bytes": "1024", "tx_packets": "7"},
		},
		"external ids": {
			in: `{attached-mac="fa:16:3e:11:22:33", iface-id="5c6e1f0a-7b0e-4c52-9d1f-1f0e2a3b4c5d", iface-status=active}`,
			want: map[string]string{
				"attached-mac": "fa:16:3e:11:22:33",
				"iface-id":     "5c6e1f0a-7b0e-4c52-9d1f-1f0e2a3b4c5d",
				"iface-status": "active",
			},
		},
		"empty map": {
			in:   `{}`,
			want: map[string]string{},
		},
		"empty string": {
			in:   ``,
			want: map[string]string{},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDBMap(tc.in))
		})
	}
}

func TestDBGetValStripsLineEnd(t *testing.T) {
	fe := &fakeExec{outputs: map[string]string{
		"ovs-vsctl --timeout=2 get Interface tap0 ofport": "5\r\n",
	}}
	b := NewBridge("br-int", nil, fe)

	got, err := b.DBGetVal(context.Background(), "Interface", "tap0", "ofport")
	require.NoError(t, err)
	assert.Equal(t, "5", got)
}

func TestDBGetMap(t *testing.T) {
	fe := &fakeExec{outputs: map[string]string{
		"ovs-vsctl --timeout=2 get Interface tap0 external_ids": "{attached-mac=\"fa:16:3e:00:00:01\", iface-id=\"vif-1\"}\n",
	}}
	b := NewBridge("br-int", nil, fe)

	got, err := b.DBGetMap(context.Background(), "Interface", "tap0", "external_ids")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"attached-mac": "fa:16:3e:00:00:01", "iface-id": "vif-1"}, got)
}

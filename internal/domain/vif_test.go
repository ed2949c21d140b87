package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyVif(t *testing.T) {
	ctx := context.Background()
	calls := 0
	resolve := func(_ context.Context, id string) (string, error) {
		calls++
		return "resolved-" + id, nil
	}

	tests := map[string]struct {
		ids       map[string]string
		want      *VifPort
		wantCalls int
	}{
		"iface-id and mac": {
			ids:  map[string]string{"iface-id": "X", "attached-mac": "M"},
			want: &VifPort{PortName: "tap0", OFPort: "5", VifID: "X", VifMAC: "M", Bridge: "br-int"},
		},
		"iface-id wins over xs-vif-uuid": {
			ids:  map[string]string{"iface-id": "X", "xs-vif-uuid": "U", "attached-mac": "M"},
			want: &VifPort{PortName: "tap0", OFPort: "5", VifID: "X", VifMAC: "M", Bridge: "br-int"},
		},
		"xs-vif-uuid and mac": {
			ids:       map[string]string{"xs-vif-uuid": "U", "attached-mac": "M"},
			want:      &VifPort{PortName: "tap0", OFPort: "5", VifID: "resolved-U", VifMAC: "M", Bridge: "br-int"},
			wantCalls: 1,
		},
		"iface-id without mac": {
			ids: map[string]string{"iface-id": "X"},
		},
		"xs-vif-uuid without mac": {
			ids: map[string]string{"xs-vif-uuid": "U"},
		},
		"nothing": {
			ids: map[string]string{},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			calls = 0
			got, err := ClassifyVif(ctx, "br-int", "tap0", "5", tc.ids, resolve)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantCalls, calls)
		})
	}
}

func TestClassifyVifResolverError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ClassifyVif(context.Background(), "br-int", "vif1.0", "2",
		map[string]string{"xs-vif-uuid": "U", "attached-mac": "M"},
		func(context.Context, string) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestClassifyVifWithoutResolver(t *testing.T) {
	got, err := ClassifyVif(context.Background(), "br-int", "vif1.0", "2",
		map[string]string{"xs-vif-uuid": "U", "attached-mac": "M"}, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestVifPortString(t *testing.T) {
	p := VifPort{PortName: "tap0", OFPort: "5", VifID: "X", VifMAC: "fa:16:3e:00:00:01", Bridge: "br-int"}
	assert.Equal(t, "iface-id=X, vif_mac=fa:16:3e:00:00:01, port_name=tap0, ofport=5, bridge_name = br-int", p.String())
}

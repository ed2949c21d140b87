package ovsdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestVifPortsFromRows(t *testing.T) {
	ports := []Port{
		{UUID: "p-vif2", Name: "vif2.0", Interfaces: []string{"i-vif2"}},
		{UUID: "p-br", Name: "br-int", Interfaces: []string{"i-br"}},
		{UUID: "p-tap1", Name: "tap1", Interfaces: []string{"i-tap1"}},
		{UUID: "p-patch", Name: "patch-tun", Interfaces: []string{"i-patch"}},
	}
	ifaces := map[string]Interface{
		"i-vif2": {UUID: "i-vif2", Name: "vif2.0", OFPort: intPtr(4), ExternalIDs: map[string]string{
			"attached-mac": "fe:ff:ff:00:00:02", "xs-vif-uuid": "u-2",
		}},
		"i-br": {UUID: "i-br", Name: "br-int", OFPort: intPtr(65534), ExternalIDs: map[string]string{
			"attached-mac": "aa:bb:cc:dd:ee:ff", "iface-id": "local",
		}},
		"i-tap1": {UUID: "i-tap1", Name: "tap1", OFPort: intPtr(3), ExternalIDs: map[string]string{
			"attached-mac": "fa:16:3e:00:00:01", "iface-id": "X",
		}},
		"i-patch": {UUID: "i-patch", Name: "patch-tun", OFPort: intPtr(1)},
	}
	var resolved []string
	resolve := func(_ context.Context, id string) (string, error) {
		resolved = append(resolved, id)
		return "Y", nil
	}

	vifs, err := vifPortsFromRows(context.Background(), "br-int", ports, ifaces, resolve)
	require.NoError(t, err)
	assert.Equal(t, []domain.VifPort{
		{PortName: "tap1", OFPort: "3", VifID: "X", VifMAC: "fa:16:3e:00:00:01", Bridge: "br-int"},
		{PortName: "vif2.0", OFPort: "4", VifID: "Y", VifMAC: "fe:ff:ff:00:00:02", Bridge: "br-int"},
	}, vifs)
	assert.Equal(t, []string{"u-2"}, resolved)
}

func TestOFPortString(t *testing.T) {
	assert.Equal(t, "[]", ofPortString(nil))
	assert.Equal(t, "12", ofPortString(intPtr(12)))
}

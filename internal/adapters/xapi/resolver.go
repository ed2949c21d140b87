// Package xapi looks up VIF identities on XenServer hosts, where the
// iface-id of a VIF is kept in XAPI and not always synced into OVS.
package xapi

import (
	"context"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/executor"
)

const ifaceIDKey = "nicira-iface-id"

type Resolver struct {
	Exec       executor.Executor
	RootHelper []string
	Timeout    time.Duration
	Xe         string
}

func NewResolver(exec executor.Executor, rootHelper []string) *Resolver {
	return &Resolver{
		Exec:       exec,
		RootHelper: rootHelper,
		Timeout:    10 * time.Second,
		Xe:         domain.XeCommand,
	}
}

// ResolveIfaceID returns the iface-id XAPI holds for the VIF xsVifUUID.
// The value comes from the switch database and is handed to xe as is.
func (r *Resolver) ResolveIfaceID(ctx context.Context, xsVifUUID string) (string, error) {
	ctx, cancel := executor.WithTimeout(ctx, r.Timeout)
	defer cancel()
	argv := append(append([]string{}, r.RootHelper...),
		r.Xe, "vif-param-get", "param-name=other-config",
		"param-key="+ifaceIDKey, "uuid="+xsVifUUID)
	out, err := r.Exec.Run(ctx, argv)
	if err != nil {
		return "", err
	}
	ifaceID := strings.TrimSpace(out)
	klog.V(4).Infof("Resolved VIF %s to iface-id %s through XAPI", xsVifUUID, ifaceID)
	return ifaceID, nil
}

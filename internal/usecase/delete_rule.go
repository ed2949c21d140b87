package usecase

import (
	"context"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
)

// DeleteFlows removes the flows matching spec. An empty spec removes every
// flow on the bridge.
func DeleteFlows(ctx context.Context, br ports.BridgePort, spec domain.FlowSpec) (map[string]bool, error) {
	spec.Delete = true
	var err error
	if spec == (domain.FlowSpec{Delete: true}) {
		err = br.RemoveAllFlows(ctx)
	} else {
		err = br.DeleteFlows(ctx, spec)
	}
	if err != nil {
		return nil, err
	}
	return map[string]bool{"ok": true}, nil
}

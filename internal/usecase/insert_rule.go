package usecase

import (
	"context"

	ovsAdapter "github.com/enginrect/ovs-bridge-agent/internal/adapters/ovs"
	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
)

// AddFlow installs spec on the bridge and reports the flow that was sent.
func AddFlow(ctx context.Context, br ports.BridgePort, spec domain.FlowSpec) (map[string]string, error) {
	flow, err := ovsAdapter.AddFlowString(spec)
	if err != nil {
		return nil, err
	}
	if err := br.AddFlow(ctx, spec); err != nil {
		return nil, err
	}
	return map[string]string{"bridge": br.Name(), "flow": flow}, nil
}

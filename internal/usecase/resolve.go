package usecase

import (
	"context"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
)

// DescribeBridge collects the ports, VIF ports and flow count of a bridge.
func DescribeBridge(ctx context.Context, br ports.BridgePort) (domain.BridgeReport, error) {
	names, err := br.GetPortNameList(ctx)
	if err != nil {
		return domain.BridgeReport{}, err
	}

	vifs, err := br.GetVifPorts(ctx)
	if err != nil {
		return domain.BridgeReport{}, err
	}

	flows, err := br.CountFlows(ctx)
	if err != nil {
		return domain.BridgeReport{}, err
	}

	return domain.BridgeReport{
		Bridge:    br.Name(),
		Ports:     names,
		VifPorts:  vifs,
		FlowCount: flows,
	}, nil
}

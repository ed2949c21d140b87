package domain

import "context"

// ResolveFunc looks up the iface-id of a XenServer VIF by its uuid.
type ResolveFunc func(ctx context.Context, xsVifUUID string) (string, error)

// ClassifyVif builds the VifPort for a bridge port from its external_ids.
// It returns (nil, nil) when the port does not carry a VIF.
//
// Hosts that do not sync iface-id into external_ids only carry xs-vif-uuid;
// resolve is called for those ports and for no others.
func ClassifyVif(ctx context.Context, bridge, portName, ofport string, externalIDs map[string]string, resolve ResolveFunc) (*VifPort, error) {
	mac, hasMAC := externalIDs[ExternalIDAttachedMAC]
	if !hasMAC {
		return nil, nil
	}
	if id, ok := externalIDs[ExternalIDIfaceID]; ok {
		return &VifPort{PortName: portName, OFPort: ofport, VifID: id, VifMAC: mac, Bridge: bridge}, nil
	}
	xsUUID, ok := externalIDs[ExternalIDXsVifUUID]
	if !ok || resolve == nil {
		return nil, nil
	}
	id, err := resolve(ctx, xsUUID)
	if err != nil {
		return nil, err
	}
	return &VifPort{PortName: portName, OFPort: ofport, VifID: id, VifMAC: mac, Bridge: bridge}, nil
}

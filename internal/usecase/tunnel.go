package usecase

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/ports"
)

// SetupTunnel (re)creates a GRE port on the bridge. Any port with the same
// name is removed first so the call can be repeated.
func SetupTunnel(ctx context.Context, br ports.BridgePort, portName, remoteIP string) (map[string]string, error) {
	if err := br.DeletePort(ctx, portName); err != nil {
		return nil, err
	}
	ofport, err := br.AddTunnelPort(ctx, portName, remoteIP)
	if err != nil {
		return nil, err
	}
	return map[string]string{"bridge": br.Name(), "port_name": portName, "remote_ip": remoteIP, "ofport": ofport}, nil
}

// PatchBridges connects two bridges with a pair of patch ports, localPort on
// local and remotePort on remote.
func PatchBridges(ctx context.Context, local, remote ports.BridgePort, localPort, remotePort string) (map[string]string, error) {
	if err := local.DeletePort(ctx, localPort); err != nil {
		return nil, err
	}
	if err := remote.DeletePort(ctx, remotePort); err != nil {
		return nil, err
	}
	localOF, err := local.AddPatchPort(ctx, localPort, remotePort)
	if err != nil {
		return nil, err
	}
	remoteOF, err := remote.AddPatchPort(ctx, remotePort, localPort)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("Patched bridge %s (%s) to bridge %s (%s)", local.Name(), localPort, remote.Name(), remotePort)
	return map[string]string{
		"local_port":    localPort,
		"local_ofport":  localOF,
		"remote_port":   remotePort,
		"remote_ofport": remoteOF,
	}, nil
}

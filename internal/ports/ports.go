package ports

import (
	"context"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

// BridgePort is a hexagonal port for driving one OVS bridge (via ovs-vsctl and ovs-ofctl).
type BridgePort interface {
	Name() string
	ResetBridge(ctx context.Context) error
	DeletePort(ctx context.Context, portName string) error
	SetDBAttribute(ctx context.Context, table, record, column, value string) error
	ClearDBAttribute(ctx context.Context, table, record, column string) error
	CountFlows(ctx context.Context) (int, error)
	RemoveAllFlows(ctx context.Context) error
	AddFlow(ctx context.Context, spec domain.FlowSpec) error
	DeleteFlows(ctx context.Context, spec domain.FlowSpec) error
	AddTunnelPort(ctx context.Context, portName, remoteIP string) (string, error)
	AddPatchPort(ctx context.Context, localName, remoteName string) (string, error)
	GetPortOFPort(ctx context.Context, portName string) (string, error)
	GetPortNameList(ctx context.Context) ([]string, error)
	GetPortStats(ctx context.Context, portName string) (map[string]string, error)
	GetVifPorts(ctx context.Context) ([]domain.VifPort, error)
}

// SwitchDBPort is a hexagonal port for reading the switch database directly.
type SwitchDBPort interface {
	BridgeExists(ctx context.Context, name string) (bool, error)
}

// BridgeFactory returns the bridge port for a bridge name.
type BridgeFactory func(name string) BridgePort

package domain

import "fmt"

// BridgeIdentity names a bridge and the command prefix used to reach its
// tools with enough privilege (e.g. "sudo", or "docker exec -i <container>").
type BridgeIdentity struct {
	Name       string
	RootHelper []string
}

// VifPort is a snapshot of one virtual interface attached to a bridge.
type VifPort struct {
	PortName string `json:"port_name"`
	OFPort   string `json:"ofport"`
	VifID    string `json:"vif_id"`
	VifMAC   string `json:"vif_mac"`
	Bridge   string `json:"bridge"`
}

func (p VifPort) String() string {
	return fmt.Sprintf("iface-id=%s, vif_mac=%s, port_name=%s, ofport=%s, bridge_name = %s",
		p.VifID, p.VifMAC, p.PortName, p.OFPort, p.Bridge)
}

// FlowSpec describes a flow to add or the flows to delete.
// Empty string fields are treated as absent.
type FlowSpec struct {
	Priority    *int `json:"priority,omitempty"`
	HardTimeout int  `json:"hard_timeout,omitempty"`
	IdleTimeout int  `json:"idle_timeout,omitempty"`

	InPort string `json:"in_port,omitempty"`
	DLType string `json:"dl_type,omitempty"`
	DLVlan string `json:"dl_vlan,omitempty"`
	DLSrc  string `json:"dl_src,omitempty"`
	DLDst  string `json:"dl_dst,omitempty"`
	NWSrc  string `json:"nw_src,omitempty"`
	NWDst  string `json:"nw_dst,omitempty"`
	TunID  string `json:"tun_id,omitempty"`
	Proto  string `json:"proto,omitempty"`

	Actions string `json:"actions,omitempty"`
	Delete  bool   `json:"-"`
}

// IntPtr is a convenience for filling FlowSpec.Priority.
func IntPtr(v int) *int { return &v }

// BridgeReport is the state of a bridge as reported back to callers.
type BridgeReport struct {
	Bridge    string    `json:"bridge"`
	Ports     []string  `json:"ports"`
	VifPorts  []VifPort `json:"vif_ports"`
	FlowCount int       `json:"flow_count"`
}

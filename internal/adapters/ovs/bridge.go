package ovs

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/adapters/xapi"
	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/executor"
)

const defaultCallTimeout = 10 * time.Second

// Bridge drives one Open vSwitch bridge through ovs-vsctl and ovs-ofctl.
// It keeps no state besides its identity, every read goes to the switch.
type Bridge struct {
	Exec        executor.Executor
	Vsctl       string
	Ofctl       string
	CallTimeout time.Duration
	// Resolve is used for ports that carry xs-vif-uuid but no iface-id.
	// NewBridge points it at xe through the same executor and root helper.
	Resolve domain.ResolveFunc

	id domain.BridgeIdentity
}

type Option func(*Bridge)

func WithToolPaths(vsctl, ofctl string) Option {
	return func(b *Bridge) {
		if vsctl != "" {
			b.Vsctl = vsctl
		}
		if ofctl != "" {
			b.Ofctl = ofctl
		}
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.CallTimeout = d
		}
	}
}

func WithResolver(r domain.ResolveFunc) Option {
	return func(b *Bridge) { b.Resolve = r }
}

func NewBridge(name string, rootHelper []string, exec executor.Executor, opts ...Option) *Bridge {
	b := &Bridge{
		Exec:        exec,
		Vsctl:       domain.VsctlCommand,
		Ofctl:       domain.OfctlCommand,
		CallTimeout: defaultCallTimeout,
		id: domain.BridgeIdentity{
			Name:       name,
			RootHelper: append([]string(nil), rootHelper...),
		},
	}
	b.Resolve = xapi.NewResolver(exec, b.id.RootHelper).ResolveIfaceID
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Bridge) Name() string { return b.id.Name }

func (b *Bridge) Identity() domain.BridgeIdentity {
	return domain.BridgeIdentity{Name: b.id.Name, RootHelper: append([]string(nil), b.id.RootHelper...)}
}

func (b *Bridge) run(ctx context.Context, argv []string) (string, error) {
	ctx, cancel := executor.WithTimeout(ctx, b.CallTimeout)
	defer cancel()
	full := append(append([]string{}, b.id.RootHelper...), argv...)
	klog.V(4).Infof("Bridge %s: running %s", b.id.Name, strings.Join(full, " "))
	return b.Exec.Run(ctx, full)
}

// RunVsctl runs ovs-vsctl with the standard timeout flag.
func (b *Bridge) RunVsctl(ctx context.Context, args ...string) (string, error) {
	return b.run(ctx, append([]string{b.Vsctl, domain.VsctlTimeoutFlag}, args...))
}

// RunOfctl runs an ovs-ofctl command against this bridge.
func (b *Bridge) RunOfctl(ctx context.Context, cmd string, args ...string) (string, error) {
	return b.run(ctx, append([]string{b.Ofctl, cmd, b.id.Name}, args...))
}

// ResetBridge deletes the bridge if it exists and creates it empty.
func (b *Bridge) ResetBridge(ctx context.Context) error {
	if _, err := b.RunVsctl(ctx, "--", "--if-exists", "del-br", b.id.Name); err != nil {
		return err
	}
	if _, err := b.RunVsctl(ctx, "add-br", b.id.Name); err != nil {
		return err
	}
	klog.V(2).Infof("Reset bridge %s", b.id.Name)
	return nil
}

// DeletePort removes portName from the bridge if it exists.
func (b *Bridge) DeletePort(ctx context.Context, portName string) error {
	_, err := b.RunVsctl(ctx, "--", "--if-exists", "del-port", b.id.Name, portName)
	return err
}

func (b *Bridge) SetDBAttribute(ctx context.Context, table, record, column, value string) error {
	_, err := b.RunVsctl(ctx, "set", table, record, column+"="+value)
	return err
}

func (b *Bridge) ClearDBAttribute(ctx context.Context, table, record, column string) error {
	_, err := b.RunVsctl(ctx, "clear", table, record, column)
	return err
}

// CountFlows returns the number of flows in a dump-flows listing. The first
// line is the reply header and the output ends with a newline, which leaves
// one empty element after splitting.
func (b *Bridge) CountFlows(ctx context.Context) (int, error) {
	out, err := b.RunOfctl(ctx, "dump-flows")
	if err != nil {
		return 0, err
	}
	return len(strings.Split(out, "\n")[1:]) - 1, nil
}

func (b *Bridge) RemoveAllFlows(ctx context.Context) error {
	_, err := b.RunOfctl(ctx, "del-flows")
	return err
}

// AddFlow installs one flow. Actions are mandatory.
func (b *Bridge) AddFlow(ctx context.Context, spec domain.FlowSpec) error {
	flow, err := AddFlowString(spec)
	if err != nil {
		return err
	}
	if _, err := b.RunOfctl(ctx, "add-flow", flow); err != nil {
		return err
	}
	klog.V(2).Infof("Bridge %s: added flow %s", b.id.Name, flow)
	return nil
}

// DeleteFlows removes the flows matching spec. Priority cannot be matched on
// deletion.
func (b *Bridge) DeleteFlows(ctx context.Context, spec domain.FlowSpec) error {
	flow, err := DeleteFlowString(spec)
	if err != nil {
		return err
	}
	if _, err := b.RunOfctl(ctx, "del-flows", flow); err != nil {
		return err
	}
	klog.V(2).Infof("Bridge %s: deleted flows matching %q", b.id.Name, flow)
	return nil
}

// AddTunnelPort adds a GRE port towards remoteIP whose keys follow the
// flow's tun_id, and returns its OpenFlow port number.
func (b *Bridge) AddTunnelPort(ctx context.Context, portName, remoteIP string) (string, error) {
	if _, err := b.RunVsctl(ctx, "add-port", b.id.Name, portName); err != nil {
		return "", err
	}
	attrs := [][2]string{
		{domain.ColumnType, domain.InterfaceTypeGRE},
		{domain.OptionRemoteIP, remoteIP},
		{domain.OptionInKey, domain.KeyFlow},
		{domain.OptionOutKey, domain.KeyFlow},
	}
	for _, a := range attrs {
		if err := b.SetDBAttribute(ctx, domain.InterfaceTable, portName, a[0], a[1]); err != nil {
			return "", err
		}
	}
	ofport, err := b.GetPortOFPort(ctx, portName)
	if err != nil {
		return "", err
	}
	klog.V(2).Infof("Bridge %s: added tunnel port %s to %s (ofport %s)", b.id.Name, portName, remoteIP, ofport)
	return ofport, nil
}

// AddPatchPort adds a patch port peered with remoteName and returns its
// OpenFlow port number.
func (b *Bridge) AddPatchPort(ctx context.Context, localName, remoteName string) (string, error) {
	if _, err := b.RunVsctl(ctx, "add-port", b.id.Name, localName); err != nil {
		return "", err
	}
	if err := b.SetDBAttribute(ctx, domain.InterfaceTable, localName, domain.ColumnType, domain.InterfaceTypePatch); err != nil {
		return "", err
	}
	if err := b.SetDBAttribute(ctx, domain.InterfaceTable, localName, domain.OptionPeer, remoteName); err != nil {
		return "", err
	}
	ofport, err := b.GetPortOFPort(ctx, localName)
	if err != nil {
		return "", err
	}
	klog.V(2).Infof("Bridge %s: added patch port %s peered with %s (ofport %s)", b.id.Name, localName, remoteName, ofport)
	return ofport, nil
}

func (b *Bridge) GetPortOFPort(ctx context.Context, portName string) (string, error) {
	return b.DBGetVal(ctx, domain.InterfaceTable, portName, domain.ColumnOFPort)
}

// GetPortNameList returns the bridge ports in the order ovs-vsctl lists them.
func (b *Bridge) GetPortNameList(ctx context.Context) ([]string, error) {
	out, err := b.RunVsctl(ctx, "list-ports", b.id.Name)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(out, "\n")
	return lo.DropRight(lines, 1), nil
}

func (b *Bridge) GetPortStats(ctx context.Context, portName string) (map[string]string, error) {
	return b.DBGetMap(ctx, domain.InterfaceTable, portName, domain.ColumnStatistics)
}

// GetVifPorts returns a VifPort for every bridge port that carries a VIF.
func (b *Bridge) GetVifPorts(ctx context.Context) ([]domain.VifPort, error) {
	names, err := b.GetPortNameList(ctx)
	if err != nil {
		return nil, err
	}
	vifs := []domain.VifPort{}
	for _, name := range names {
		externalIDs, err := b.DBGetMap(ctx, domain.InterfaceTable, name, domain.ColumnExternalIDs)
		if err != nil {
			return nil, err
		}
		ofport, err := b.DBGetVal(ctx, domain.InterfaceTable, name, domain.ColumnOFPort)
		if err != nil {
			return nil, err
		}
		vif, err := domain.ClassifyVif(ctx, b.id.Name, name, ofport, externalIDs, b.Resolve)
		if err != nil {
			return nil, err
		}
		if vif == nil && b.Resolve == nil && externalIDs[domain.ExternalIDXsVifUUID] != "" && externalIDs[domain.ExternalIDAttachedMAC] != "" {
			klog.V(2).Infof("Bridge %s: skipping port %s, no resolver for xs-vif-uuid %s", b.id.Name, name, externalIDs[domain.ExternalIDXsVifUUID])
			continue
		}
		if vif == nil {
			klog.V(5).Infof("Bridge %s: port %s carries no VIF", b.id.Name, name)
			continue
		}
		vifs = append(vifs, *vif)
	}
	return vifs, nil
}

package ports

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

// FakeBridge is an in-memory BridgePort. Calls are recorded in Calls as
// "Method arg1 arg2", empty arguments left out; Err makes the named method fail.
type FakeBridge struct {
	BridgeName string
	Ports      []string
	Vifs       []domain.VifPort
	Stats      map[string]map[string]string
	OFPorts    map[string]string
	Flows      []domain.FlowSpec
	Err        map[string]error

	Calls []string
}

var _ BridgePort = (*FakeBridge)(nil)

func (f *FakeBridge) record(method string, args ...string) error {
	f.Calls = append(f.Calls, strings.Join(append([]string{method}, lo.Compact(args)...), " "))
	return f.Err[method]
}

func (f *FakeBridge) Name() string { return f.BridgeName }

func (f *FakeBridge) ResetBridge(context.Context) error {
	if err := f.record("ResetBridge"); err != nil {
		return err
	}
	f.Ports, f.Vifs, f.Flows = nil, nil, nil
	return nil
}

func (f *FakeBridge) DeletePort(_ context.Context, portName string) error {
	if err := f.record("DeletePort", portName); err != nil {
		return err
	}
	kept := []string{}
	for _, p := range f.Ports {
		if p != portName {
			kept = append(kept, p)
		}
	}
	f.Ports = kept
	return nil
}

func (f *FakeBridge) SetDBAttribute(_ context.Context, table, record, column, value string) error {
	return f.record("SetDBAttribute", table, record, column+"="+value)
}

func (f *FakeBridge) ClearDBAttribute(_ context.Context, table, record, column string) error {
	return f.record("ClearDBAttribute", table, record, column)
}

func (f *FakeBridge) CountFlows(context.Context) (int, error) {
	if err := f.record("CountFlows"); err != nil {
		return 0, err
	}
	return len(f.Flows), nil
}

func (f *FakeBridge) RemoveAllFlows(context.Context) error {
	if err := f.record("RemoveAllFlows"); err != nil {
		return err
	}
	f.Flows = nil
	return nil
}

func (f *FakeBridge) AddFlow(_ context.Context, spec domain.FlowSpec) error {
	if spec.Actions == "" {
		return domain.NewConfigurationError("must specify one or more actions")
	}
	if err := f.record("AddFlow", spec.Actions); err != nil {
		return err
	}
	f.Flows = append(f.Flows, spec)
	return nil
}

func (f *FakeBridge) DeleteFlows(_ context.Context, spec domain.FlowSpec) error {
	if spec.Priority != nil {
		return domain.NewConfigurationError("cannot match priority on flow deletion")
	}
	return f.record("DeleteFlows", lo.Compact([]string{spec.InPort, spec.DLVlan, spec.TunID})...)
}

func (f *FakeBridge) addPort(portName string) string {
	f.Ports = append(f.Ports, portName)
	if f.OFPorts == nil {
		f.OFPorts = map[string]string{}
	}
	if _, ok := f.OFPorts[portName]; !ok {
		f.OFPorts[portName] = fmt.Sprint(len(f.Ports))
	}
	return f.OFPorts[portName]
}

func (f *FakeBridge) AddTunnelPort(_ context.Context, portName, remoteIP string) (string, error) {
	if err := f.record("AddTunnelPort", portName, remoteIP); err != nil {
		return "", err
	}
	return f.addPort(portName), nil
}

func (f *FakeBridge) AddPatchPort(_ context.Context, localName, remoteName string) (string, error) {
	if err := f.record("AddPatchPort", localName, remoteName); err != nil {
		return "", err
	}
	return f.addPort(localName), nil
}

func (f *FakeBridge) GetPortOFPort(_ context.Context, portName string) (string, error) {
	if err := f.record("GetPortOFPort", portName); err != nil {
		return "", err
	}
	return f.OFPorts[portName], nil
}

func (f *FakeBridge) GetPortNameList(context.Context) ([]string, error) {
	if err := f.record("GetPortNameList"); err != nil {
		return nil, err
	}
	return append([]string{}, f.Ports...), nil
}

func (f *FakeBridge) GetPortStats(_ context.Context, portName string) (map[string]string, error) {
	if err := f.record("GetPortStats", portName); err != nil {
		return nil, err
	}
	return f.Stats[portName], nil
}

func (f *FakeBridge) GetVifPorts(context.Context) ([]domain.VifPort, error) {
	if err := f.record("GetVifPorts"); err != nil {
		return nil, err
	}
	return append([]domain.VifPort{}, f.Vifs...), nil
}

// FakeSwitchDB answers BridgeExists from a fixed set of bridge names.
type FakeSwitchDB struct {
	Bridges map[string]bool
	Err     error
}

func (f *FakeSwitchDB) BridgeExists(_ context.Context, name string) (bool, error) {
	return f.Bridges[name], f.Err
}

package ovsdb

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ovn-kubernetes/libovsdb/client"
	"github.com/ovn-kubernetes/libovsdb/model"
	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

const DefaultEndpoint = "unix:/var/run/openvswitch/db.sock"

// Minimal models we need from Open_vSwitch
type Bridge struct {
	UUID  string   `ovsdb:"_uuid"`
	Name  string   `ovsdb:"name"`
	Ports []string `ovsdb:"ports"`
}

type Port struct {
	UUID       string   `ovsdb:"_uuid"`
	Name       string   `ovsdb:"name"`
	Interfaces []string `ovsdb:"interfaces"`
}

type Interface struct {
	UUID        string            `ovsdb:"_uuid"`
	Name        string            `ovsdb:"name"`
	OFPort      *int              `ovsdb:"ofport"` // optional
	ExternalIDs map[string]string `ovsdb:"external_ids"`
}

// LibOVSDB reads the switch database over the OVSDB protocol and answers
// from the client cache, so no process is spawned per query.
type LibOVSDB struct {
	cli client.Client
}

func NewLibOVSDB(ctx context.Context, endpoint string) (*LibOVSDB, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	dbModel, err := model.NewClientDBModel("Open_vSwitch", map[string]model.Model{
		"Bridge":    &Bridge{},
		"Port":      &Port{},
		"Interface": &Interface{},
	})
	if err != nil {
		return nil, err
	}

	cli, err := client.NewOVSDBClient(dbModel, client.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to OVSDB at %s: %w", endpoint, err)
	}
	// Monitor for cache usage
	if _, err := cli.MonitorAll(ctx); err != nil {
		cli.Disconnect()
		return nil, fmt.Errorf("failed to monitor OVSDB: %w", err)
	}
	klog.V(2).Infof("Connected to OVSDB at %s", endpoint)
	return &LibOVSDB{cli: cli}, nil
}

func (s *LibOVSDB) Close() {
	s.cli.Disconnect()
}

func (s *LibOVSDB) bridge(ctx context.Context, name string) (*Bridge, error) {
	var brs []Bridge
	if err := s.cli.WhereCache(func(b *Bridge) bool { return b.Name == name }).List(ctx, &brs); err != nil {
		return nil, err
	}
	if len(brs) == 0 {
		return nil, nil
	}
	return &brs[0], nil
}

// BridgeExists reports whether the bridge is present in the database.
func (s *LibOVSDB) BridgeExists(ctx context.Context, name string) (bool, error) {
	br, err := s.bridge(ctx, name)
	if err != nil {
		return false, err
	}
	return br != nil, nil
}

// ListVifPorts returns the VIF ports of a bridge from the cache. Ports are
// classified the same way as with ovs-vsctl.
func (s *LibOVSDB) ListVifPorts(ctx context.Context, bridgeName string, resolve domain.ResolveFunc) ([]domain.VifPort, error) {
	br, err := s.bridge(ctx, bridgeName)
	if err != nil {
		return nil, err
	}
	if br == nil {
		return nil, fmt.Errorf("bridge %s not found", bridgeName)
	}

	ports := make([]Port, 0, len(br.Ports))
	ifaces := map[string]Interface{}
	for _, portUUID := range br.Ports {
		p := &Port{UUID: portUUID}
		if err := s.cli.Get(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to get port %s: %w", portUUID, err)
		}
		ports = append(ports, *p)
		for _, ifaceUUID := range p.Interfaces {
			i := &Interface{UUID: ifaceUUID}
			if err := s.cli.Get(ctx, i); err != nil {
				return nil, fmt.Errorf("failed to get interface %s: %w", ifaceUUID, err)
			}
			ifaces[ifaceUUID] = *i
		}
	}
	return vifPortsFromRows(ctx, bridgeName, ports, ifaces, resolve)
}

// vifPortsFromRows mirrors ovs-vsctl list-ports: ports sorted by name and the
// bridge's own local port left out.
func vifPortsFromRows(ctx context.Context, bridgeName string, ports []Port, ifaces map[string]Interface, resolve domain.ResolveFunc) ([]domain.VifPort, error) {
	ports = lo.Filter(ports, func(p Port, _ int) bool { return p.Name != bridgeName })
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })

	vifs := []domain.VifPort{}
	for _, p := range ports {
		for _, ifaceUUID := range p.Interfaces {
			iface, ok := ifaces[ifaceUUID]
			if !ok {
				continue
			}
			vif, err := domain.ClassifyVif(ctx, bridgeName, iface.Name, ofPortString(iface.OFPort), iface.ExternalIDs, resolve)
			if err != nil {
				return nil, err
			}
			if vif != nil {
				vifs = append(vifs, *vif)
			}
		}
	}
	return vifs, nil
}

// ofPortString renders ofport the way ovs-vsctl get does.
func ofPortString(ofport *int) string {
	if ofport == nil {
		return "[]"
	}
	return strconv.Itoa(*ofport)
}

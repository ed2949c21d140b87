package ovs

import (
	"fmt"
	"strings"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

// BuildFlowExpr returns the clauses of an ovs-ofctl flow for spec, without
// the actions. Match fields are emitted in a fixed order.
func BuildFlowExpr(spec domain.FlowSpec) ([]string, error) {
	expr := []string{}
	if !spec.Delete {
		priority := domain.BuilderDefaultPriority
		if spec.Priority != nil {
			priority = *spec.Priority
		}
		expr = append(expr, fmt.Sprintf("hard_timeout=%d,idle_timeout=%d,priority=%d",
			spec.HardTimeout, spec.IdleTimeout, priority))
	} else if spec.Priority != nil {
		return nil, domain.NewConfigurationError("cannot match priority on flow deletion")
	}

	var match strings.Builder
	field := func(name, value string) {
		if value != "" {
			match.WriteString("," + name + "=" + value)
		}
	}
	field("in_port", spec.InPort)
	field("dl_type", spec.DLType)
	field("dl_vlan", spec.DLVlan)
	field("dl_src", spec.DLSrc)
	field("dl_dst", spec.DLDst)
	// ip and proto are exclusive, ip wins when addresses are matched
	if spec.NWSrc != "" || spec.NWDst != "" {
		match.WriteString(",ip")
	} else if spec.Proto != "" {
		match.WriteString("," + spec.Proto)
	}
	field("nw_src", spec.NWSrc)
	field("nw_dst", spec.NWDst)
	field("tun_id", spec.TunID)

	if m := match.String(); m != "" {
		expr = append(expr, m[1:])
	}
	return expr, nil
}

// AddFlowString returns the add-flow argument for spec.
func AddFlowString(spec domain.FlowSpec) (string, error) {
	if spec.Actions == "" {
		return "", domain.NewConfigurationError("must specify one or more actions")
	}
	spec.Delete = false
	if spec.Priority == nil {
		spec.Priority = domain.IntPtr(domain.AddFlowDefaultPriority)
	}
	expr, err := BuildFlowExpr(spec)
	if err != nil {
		return "", err
	}
	expr = append(expr, "actions="+spec.Actions)
	return strings.Join(expr, ","), nil
}

// DeleteFlowString returns the del-flows argument for spec.
func DeleteFlowString(spec domain.FlowSpec) (string, error) {
	spec.Delete = true
	expr, err := BuildFlowExpr(spec)
	if err != nil {
		return "", err
	}
	if spec.Actions != "" {
		expr = append(expr, "actions="+spec.Actions)
	}
	return strings.Join(expr, ","), nil
}

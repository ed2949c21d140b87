package domain

const (
	VsctlCommand = "ovs-vsctl"
	OfctlCommand = "ovs-ofctl"
	XeCommand    = "xe"

	// passed to every ovs-vsctl call, in seconds
	VsctlTimeoutFlag = "--timeout=2"

	DefaultBridge = "br-int"

	// default container names (Kolla)
	DefaultOVSContainer = "openvswitch_vswitchd"
)

// Config database tables and columns.
const (
	InterfaceTable = "Interface"

	ColumnOFPort      = "ofport"
	ColumnType        = "type"
	ColumnExternalIDs = "external_ids"
	ColumnStatistics  = "statistics"

	OptionRemoteIP = "options:remote_ip"
	OptionInKey    = "options:in_key"
	OptionOutKey   = "options:out_key"
	OptionPeer     = "options:peer"

	InterfaceTypeGRE   = "gre"
	InterfaceTypePatch = "patch"

	// tunnel key taken from the flow's tun_id
	KeyFlow = "flow"
)

// external_ids keys used to recognise VIF ports.
const (
	ExternalIDIfaceID     = "iface-id"
	ExternalIDAttachedMAC = "attached-mac"
	ExternalIDXsVifUUID   = "xs-vif-uuid"
)

const (
	// priority given by AddFlow when the caller leaves it unset
	AddFlowDefaultPriority = 0
	// priority used by the match builder when none is set
	BuilderDefaultPriority = 1
)

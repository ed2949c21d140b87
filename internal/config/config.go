package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
)

// Config holds the agent settings. Defaults come from the environment and
// flags override them.
type Config struct {
	Bridge        string
	RootHelper    string
	OVSContainer  string
	Vsctl         string
	Ofctl         string
	CallTimeout   time.Duration
	OVSDBEndpoint string
	BindAddr      string
}

func FromEnv() Config {
	c := Config{
		Bridge:        getenv("OVS_BRIDGE", domain.DefaultBridge),
		RootHelper:    os.Getenv("OVS_ROOT_HELPER"),
		OVSContainer:  os.Getenv("OVS_CONTAINER"),
		Vsctl:         getenv("OVS_VSCTL", domain.VsctlCommand),
		Ofctl:         getenv("OVS_OFCTL", domain.OfctlCommand),
		CallTimeout:   10 * time.Second,
		OVSDBEndpoint: os.Getenv("OVSDB_ENDPOINT"),
		BindAddr:      getenv("AGENT_BIND", ":9406"),
	}
	if v := os.Getenv("OVS_CALL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.CallTimeout = d
		}
	}
	return c
}

// AddFlags binds the settings to fs, using the current values as defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Bridge, "bridge", c.Bridge, "name of the OVS bridge to manage")
	fs.StringVar(&c.RootHelper, "root-helper", c.RootHelper, "command prefix used to run the OVS tools with privilege, e.g. \"sudo\"")
	fs.StringVar(&c.OVSContainer, "ovs-container", c.OVSContainer, "run the OVS tools inside this docker container (e.g. "+domain.DefaultOVSContainer+")")
	fs.StringVar(&c.Vsctl, "vsctl", c.Vsctl, "path to ovs-vsctl")
	fs.StringVar(&c.Ofctl, "ofctl", c.Ofctl, "path to ovs-ofctl")
	fs.DurationVar(&c.CallTimeout, "call-timeout", c.CallTimeout, "deadline of a single tool invocation")
	fs.StringVar(&c.OVSDBEndpoint, "ovsdb-endpoint", c.OVSDBEndpoint, "OVSDB endpoint used for readiness checks, e.g. unix:/var/run/openvswitch/db.sock")
	fs.StringVar(&c.BindAddr, "bind", c.BindAddr, "bind address, e.g. 0.0.0.0:9406")
}

// RootHelperArgv returns the command prefix for the OVS tools. A container
// takes precedence over a plain root helper.
func (c Config) RootHelperArgv() []string {
	if c.OVSContainer != "" {
		return []string{"docker", "exec", "-i", c.OVSContainer}
	}
	return strings.Fields(c.RootHelper)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

package main

import (
	"encoding/json"
	goflag "flag"
	"io"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/adapters/ovs"
	"github.com/enginrect/ovs-bridge-agent/internal/adapters/xapi"
	"github.com/enginrect/ovs-bridge-agent/internal/config"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/executor"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
)

func newRootCmd() *cobra.Command {
	cfg := config.FromEnv()
	root := &cobra.Command{
		Use:           "ovs-bridge-agent",
		Short:         "Manage ports, attributes and flows of an Open vSwitch bridge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cfg.AddFlags(root.PersistentFlags())

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newServeCmd(&cfg),
		newResetCmd(&cfg),
		newPortsCmd(&cfg),
		newVifsCmd(&cfg),
		newCountFlowsCmd(&cfg),
		newAddTunnelCmd(&cfg),
	)
	return root
}

// bridgeFactory builds bridges that share one executor and XAPI resolver.
func bridgeFactory(cfg *config.Config, exec executor.Executor) ports.BridgeFactory {
	helper := cfg.RootHelperArgv()
	resolver := xapi.NewResolver(exec, helper)
	return func(name string) ports.BridgePort {
		return newBridge(cfg, exec, resolver, name)
	}
}

func newBridge(cfg *config.Config, exec executor.Executor, resolver *xapi.Resolver, name string) *ovs.Bridge {
	return ovs.NewBridge(name, cfg.RootHelperArgv(), exec,
		ovs.WithToolPaths(cfg.Vsctl, cfg.Ofctl),
		ovs.WithCallTimeout(cfg.CallTimeout),
		ovs.WithResolver(resolver.ResolveIfaceID),
	)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

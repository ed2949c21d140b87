package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/enginrect/ovs-bridge-agent/internal/adapters/ovsdb"
	"github.com/enginrect/ovs-bridge-agent/internal/adapters/xapi"
	apphttp "github.com/enginrect/ovs-bridge-agent/internal/app/http"
	"github.com/enginrect/ovs-bridge-agent/internal/config"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/executor"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/metrics"
	"github.com/enginrect/ovs-bridge-agent/internal/ports"
	"github.com/enginrect/ovs-bridge-agent/internal/usecase"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics.Register(reg)

			var db ports.SwitchDBPort
			if cfg.OVSDBEndpoint != "" {
				lib, err := ovsdb.NewLibOVSDB(ctx, cfg.OVSDBEndpoint)
				if err != nil {
					return fmt.Errorf("failed to init: %w", err)
				}
				defer lib.Close()
				db = lib
			}

			srv := apphttp.NewServer(bridgeFactory(cfg, executor.NewSubprocessExecutor()), db, cfg.Bridge, reg)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(cfg.BindAddr) }()

			select {
			case err := <-errCh:
				if errors.Is(err, nethttp.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				klog.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

func newResetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the bridge if present and recreate it empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bridgeFactory(cfg, executor.NewSubprocessExecutor())(cfg.Bridge).ResetBridge(cmd.Context())
		},
	}
}

func newPortsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List the ports of the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := bridgeFactory(cfg, executor.NewSubprocessExecutor())(cfg.Bridge).GetPortNameList(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), names)
		},
	}
}

func newVifsCmd(cfg *config.Config) *cobra.Command {
	var fromOVSDB bool
	cmd := &cobra.Command{
		Use:   "vifs",
		Short: "List the VIF ports of the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exec := executor.NewSubprocessExecutor()
			if !fromOVSDB {
				vifs, err := bridgeFactory(cfg, exec)(cfg.Bridge).GetVifPorts(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), vifs)
			}
			lib, err := ovsdb.NewLibOVSDB(cmd.Context(), cfg.OVSDBEndpoint)
			if err != nil {
				return err
			}
			defer lib.Close()
			resolver := xapi.NewResolver(exec, cfg.RootHelperArgv())
			vifs, err := lib.ListVifPorts(cmd.Context(), cfg.Bridge, resolver.ResolveIfaceID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), vifs)
		},
	}
	cmd.Flags().BoolVar(&fromOVSDB, "from-ovsdb", false, "read the switch database over OVSDB instead of running ovs-vsctl")
	return cmd
}

func newCountFlowsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "count-flows",
		Short: "Print the number of flows on the bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := bridgeFactory(cfg, executor.NewSubprocessExecutor())(cfg.Bridge).CountFlows(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}

func newAddTunnelCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add-tunnel PORT REMOTE_IP",
		Short: "Create a GRE tunnel port and print its OpenFlow port number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			br := bridgeFactory(cfg, executor.NewSubprocessExecutor())(cfg.Bridge)
			res, err := usecase.SetupTunnel(cmd.Context(), br, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

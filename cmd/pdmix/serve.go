package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/metrics"
	"github.com/danielpatrickdp/mixed-strategy/go-controller/internal/rpc"
)

func newServeCmd(a *app) *cobra.Command {
	var grpcAddr, metricsAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC decision service and the /metrics endpoint",
		Long: `Serve pdmix.v1.DecisionService/Decide over gRPC. The service is
stateless: callers send both histories, the mood, the game length and
the round, and get back the move, the next mood and the phase.

Prometheus metrics are served on --metrics-addr at /metrics; pass an
empty address to disable them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a,
				stringFlag(cmd, "grpc-addr", grpcAddr, a.cfg.GRPCAddr),
				stringFlag(cmd, "metrics-addr", metricsAddr, a.cfg.MetricsAddr))
		},
	}
	cmd.Flags().StringVar(&grpcAddr, "grpc-addr", "", "gRPC listen address (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics listen address (default from config)")
	return cmd
}

func serve(ctx context.Context, a *app, grpcAddr, metricsAddr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}
	srv := grpc.NewServer()
	rpc.RegisterDecisionServiceServer(srv, rpc.NewServer(m, a.logger))

	var httpSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		httpSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("decision service listening", "addr", lis.Addr().String())
		return srv.Serve(lis)
	})
	if httpSrv != nil {
		g.Go(func() error {
			a.logger.Info("metrics listening", "addr", metricsAddr)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down")
		srv.GracefulStop()
		if httpSrv != nil {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutCtx)
		}
		return nil
	})
	return g.Wait()
}

package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/observe-l/fecchan/internal/codec"
	"github.com/observe-l/fecchan/internal/httpapi"
	"github.com/observe-l/fecchan/internal/metrics"
	"github.com/observe-l/fecchan/internal/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

func (a *app) serveCmd() *cobra.Command {
	var httpAddr, grpcAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the codec over HTTP and gRPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("http") {
				a.cfg.Server.HTTPAddr = httpAddr
			}
			if cmd.Flags().Changed("grpc") {
				a.cfg.Server.GRPCAddr = grpcAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "HTTP listen address (empty disables)")
	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "gRPC listen address (empty disables)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	tail, err := a.cfg.Codec.TailPolicy()
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	svc := codec.New(codec.Options{Tail: tail, Metrics: metrics.New(reg), Logger: a.log.With("codec")})

	srv := a.cfg.Server
	if srv.HTTPAddr == "" && srv.GRPCAddr == "" {
		return fmt.Errorf("nothing to serve: both server.http_addr and server.grpc_addr are empty")
	}
	var httpLn, grpcLn net.Listener
	if srv.HTTPAddr != "" {
		if httpLn, err = net.Listen("tcp", srv.HTTPAddr); err != nil {
			return err
		}
	}
	if srv.GRPCAddr != "" {
		if grpcLn, err = net.Listen("tcp", srv.GRPCAddr); err != nil {
			if httpLn != nil {
				httpLn.Close()
			}
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if httpLn != nil {
		h := httpapi.NewServer(svc, reg, a.log.With("http"), httpapi.Config{
			MaxFrameBytes:  srv.MaxFrameBytes,
			MaxConnections: srv.MaxConnections,
		})
		a.log.WithField("addr", httpLn.Addr().String()).Info("http listening")
		g.Go(func() error { return h.Serve(ctx, httpLn) })
	}
	if grpcLn != nil {
		gs := grpc.NewServer(grpc.MaxRecvMsgSize(int(srv.MaxFrameBytes) + 1024))
		rpc.NewServer(svc).Register(gs)
		a.log.WithField("addr", grpcLn.Addr().String()).Info("grpc listening")
		g.Go(func() error { return gs.Serve(grpcLn) })
		g.Go(func() error {
			<-ctx.Done()
			gs.GracefulStop()
			return nil
		})
	}
	err = g.Wait()
	a.log.Info("stopped")
	return err
}

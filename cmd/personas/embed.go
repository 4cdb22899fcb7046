package main

import (
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/persona-diversity/internal/codec"
)

// #region embed

func newEmbedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embedding service utilities",
	}
	var listen string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the gRPC EmbeddingService backed by the OpenAI embeddings API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, closeFn, err := a.newEmbedder("openai")
			if err != nil {
				return err
			}
			defer closeFn()

			lis, err := net.Listen("tcp", listen)
			if err != nil {
				return err
			}
			srv := grpc.NewServer()
			codec.RegisterEmbeddingServer(srv, backend)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.logger.Info("serving embeddings", slog.String("addr", lis.Addr().String()))
				return srv.Serve(lis)
			})
			g.Go(func() error {
				<-gctx.Done()
				a.logger.Info("shutting down embedding server")
				srv.GracefulStop()
				return nil
			})
			return g.Wait()
		},
	}
	serve.Flags().StringVar(&listen, "listen", "localhost:50051", "address to listen on")
	cmd.AddCommand(serve)
	return cmd
}

// #endregion embed

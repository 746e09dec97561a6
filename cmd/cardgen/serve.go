package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/youruser/cardgen/internal/api"
	"github.com/youruser/cardgen/internal/output"
	"github.com/youruser/cardgen/internal/render"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendering API over HTTP",
		Long: `Run the HTTP API:

  GET  /api/health
  POST /api/cards              filter cards in server.data_dir
  POST /api/cards/render       render the card document in the body (?mini=true)
  POST /api/markup/wrap        {"text": ..., "width": ...} to wrapped lines
  GET  /api/qr?text=...        QR code PNG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			assets, err := render.LoadAssets(a.cfg)
			if err != nil {
				return fail("loading assets", err)
			}

			r := gin.New()
			r.Use(gin.Logger(), gin.Recovery())
			api.RegisterRoutes(r, api.NewServer(a.cfg, assets, a.logger))
			srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdown)
			}()

			a.logger.Info("starting server", "addr", addr, "data_dir", a.cfg.Server.DataDir)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return output.NewSystemErrorWithCause("serving", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/devnet-accounts/internal/api"
	"github.com/AlexZinkM/devnet-accounts/internal/handler"
)

// @title           devnet-accounts API
// @version         1.0
// @description     Encrypted fee payer accounts and contract deployments for development networks.
// @host            localhost:8080
// @BasePath        /
func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the accounts HTTP API with Swagger UI at /swagger/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(f)
			if err != nil {
				return err
			}
			defer a.close()

			service, err := a.accounts()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + a.cfg.Port,
				Handler:           api.SetupRouter(handler.NewAccountsHandler(service, a.store, a.logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", "addr", srv.Addr, "network", a.cfg.Profile.Name, "swagger", "http://localhost:"+a.cfg.Port+"/swagger/index.html")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
}

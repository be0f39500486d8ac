package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/me/rota/internal/scheduler"
	"github.com/me/rota/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		every time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the roster and allocation API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("every") {
				cfg.RoundEvery = every
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			st, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			srv := server.New(cfg, st, logger, server.WithMetrics(reg))

			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", cfg.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			var sched *scheduler.Loop
			if cfg.RoundEvery > 0 {
				sched = scheduler.NewLoop(srv, scheduler.Config{Interval: cfg.RoundEvery}, logger)
				go func() {
					if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logger.Error("scheduler stopped", "error", err)
					}
				}()
			}

			select {
			case err = <-errc:
			case <-ctx.Done():
				logger.Info("shutting down")
			}

			// Stop scheduler before HTTP server.
			if sched != nil {
				sched.Stop()
			}
			if err != nil {
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&every, "every", 0, "Allocate and record a round on this cadence, e.g. 168h (0 disables)")
	return cmd
}

package main

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/xzhHas/contentflow"
	"github.com/xzhHas/contentflow/internal/config"
	"github.com/xzhHas/contentflow/internal/logging"
	"go.uber.org/zap"
)

func newListenCmd() *cobra.Command {
	var (
		name        string
		scope       string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Run a listener that invalidates the configured cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.SettingsPath(settingsPath)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if name != "" {
				cfg.Listener.Name = name
			}
			if scope != "" {
				cfg.Listener.Scope = scope
			}
			if metricsAddr != "" {
				cfg.Metrics.Addr = metricsAddr
			}
			cfg.SetDefault()

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			c, err := contentflow.NewCache(cfg, nil)
			if err != nil {
				return err
			}
			if closer, ok := c.(interface{ Close() error }); ok {
				defer closer.Close() //nolint:errcheck
			}
			inv := contentflow.NewInvalidator(c, logger)

			opts := []contentflow.Option{
				contentflow.WithConfig(cfg),
				contentflow.WithSettings(path),
				contentflow.WithBrokerURL(brokerURL),
				contentflow.WithLogger(logger),
			}
			if cfg.Metrics.Addr != "" {
				reg := prometheus.NewRegistry()
				opts = append(opts, contentflow.WithMetrics(reg))
				srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
				go func() {
					logger.Info("metrics server starting", zap.String("addr", srv.Addr))
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server error", zap.Error(err))
					}
				}()
				defer srv.Close() //nolint:errcheck
			}

			logger.Info("listener starting",
				zap.String("listener", cfg.Listener.Name),
				zap.String("scope", cfg.Listener.Scope),
				zap.String("cache", cfg.Cache.Backend),
			)
			return contentflow.StartListening(cfg.Listener.Name, inv, opts...)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "listener name; queues are <name>_content_items and <name>_collections")
	cmd.Flags().StringVar(&scope, "scope", "", "product affiliate code to filter on")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

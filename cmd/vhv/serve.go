package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vhvplatform/react-framework-sub001/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry API",
		Long: `Start an HTTP server exposing the template registry, websocket
imports and Prometheus metrics.

Endpoints:
  GET    /api/templates
  GET    /api/templates/{name}
  DELETE /api/templates/{name}
  GET    /api/imports/ws
  GET    /metrics
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (default: server.host from vhv.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: server.port from vhv.json)")

	return cmd
}

func runServe() error {
	im, err := newImporter(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	timeout, err := cfg.ImportTimeout()
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Registry:      newRegistry(),
		Importer:      im,
		Logger:        logger,
		ImportTimeout: timeout,
	})

	ctx, cancel := signalContext()
	defer cancel()

	addr := cfg.ServerAddress()
	printBanner()
	success("Serving templates from %s", cfg.TemplatesPath())
	info("API:     http://%s/api/templates", addr)
	info("Metrics: http://%s/metrics", addr)
	fmt.Println()
	info("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx, addr)
}

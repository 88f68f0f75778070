// Command outcomebookd runs the demo TCP host fronting the matching
// engine. It is a binding over internal/engine, not the engine's
// interface: the core is usable as a library with no process around it
// at all.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"outcomebook/internal/metrics"
	"outcomebook/internal/server"
)

func main() {
	addr := flag.String("listen", "0.0.0.0:9001", "address for the order host to listen on")
	metricsAddr := flag.String("metrics", "0.0.0.0:9101", "address for the Prometheus /metrics endpoint")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		log.Info().Str("address", *metricsAddr).Msg("serving metrics")
		if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server exited")
		}
	}()

	srv := server.New(*addr, collector)
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

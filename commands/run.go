package commands

import (
	"boxes/config"
	"boxes/engine"
	"boxes/experiments/metrics"
	"boxes/policy"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var metricsAddr string

func newStore(c config.Config) policy.Store {
	if c.PolicyStore == "badger" {
		return policy.BadgerStore{Path: c.PolicyPath}
	}
	return policy.JSONFile{Path: c.PolicyPath}
}

// newRun opens the configured line logs for a run reporting to collector.
func newRun(c config.Config, collector metrics.Collector) (*engine.Run, error) {
	run := engine.NewRun(c.Seed, engine.WithCollector(collector))

	csvLog, err := metrics.OpenCSVLineLog(c.LinesLog)
	if err != nil {
		return nil, err
	}
	if c.LinesParquet == "" {
		run.Lines = csvLog
		return run, nil
	}
	parquetLog, err := metrics.OpenParquetLineLog(c.LinesParquet, run.ID.String())
	if err != nil {
		return nil, errors.Join(err, csvLog.Close())
	}
	run.Lines = metrics.MultiLog(csvLog, parquetLog)
	return run, nil
}

// serveMetrics exposes reg on addr until the returned stop is called. An
// empty addr serves nothing and the collector is a dummy.
func serveMetrics(addr string) (metrics.Collector, func()) {
	if addr == "" {
		return metrics.NewDummyCollector(), func() {}
	}
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msgf("metrics server on %s failed", addr)
		}
	}()
	log.Info().Msgf("serving metrics on http://%s/metrics", addr)

	return collector, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

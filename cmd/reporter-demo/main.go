// Command reporter-demo serves Prometheus metrics produced through a reporter.Reporter
// while simulating concurrent in-flight work.
package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ygrebnov/reporter"
	"github.com/ygrebnov/reporter/prom"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("reporter")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "reporter-demo",
		Short: "Serve demo metrics recorded through the reporter facade",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, v)
		},
	}
	flags := cmd.Flags()
	flags.String("listen", ":2112", "address to serve /metrics on")
	flags.String("prefix", "demo_", "metric name prefix")
	flags.StringToString("tags", map[string]string{}, "global tags, k=v pairs")
	flags.Int("workers", 4, "number of simulated workers")
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlags(flags)
	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	reg := prometheus.NewRegistry()
	backend := prom.New(reg)
	defer backend.Close()

	r, err := reporter.New(backend,
		reporter.WithPrefix(v.GetString("prefix")),
		reporter.WithGlobalTagMap(v.GetStringMapString("tags")),
		reporter.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	for i := 0; i < v.GetInt("workers"); i++ {
		go work(ctx, r, logger)
	}

	srv := &http.Server{
		Addr:              v.GetString("listen"),
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", srv.Addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func work(ctx context.Context, r *reporter.Reporter, logger zerolog.Logger) {
	inflight, err := r.Gauge(ctx, "jobs_inflight", reporter.Tags{})
	if err != nil {
		logger.Error().Err(err).Msg("gauge")
		return
	}
	done, err := r.Counter("jobs_total", reporter.Tags{})
	if err != nil {
		logger.Error().Err(err).Msg("counter")
		return
	}
	latency, err := r.Timer("job_duration_seconds", reporter.Tags{})
	if err != nil {
		logger.Error().Err(err).Msg("timer")
		return
	}

	for ctx.Err() == nil {
		_ = inflight.Surround(ctx, func(ctx context.Context) error {
			return latency.Time(func() error {
				select {
				case <-time.After(time.Duration(rand.Intn(500)) * time.Millisecond):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
		_ = done.Increment()
	}
}

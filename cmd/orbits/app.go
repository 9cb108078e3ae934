package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/san-kum/orbits/internal/config"
	"github.com/san-kum/orbits/internal/integrators"
	"github.com/san-kum/orbits/internal/logging"
	"github.com/san-kum/orbits/internal/metrics"
	"github.com/san-kum/orbits/internal/physics"
	"github.com/san-kum/orbits/internal/sim"
	"github.com/san-kum/orbits/internal/storage"
	"github.com/spf13/cobra"
)

// app is the state shared by every command once settings are resolved.
type app struct {
	settings *config.Settings
	log      *slog.Logger
	codec    *storage.Codec
	store    *storage.Store
}

// newApp loads settings and applies command line overrides. Flags win over
// the settings file.
func newApp(cmd *cobra.Command) (*app, error) {
	settings := config.DefaultSettings()
	if settingsFile != "" {
		s, err := config.Load(settingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		settings = s
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		settings.Bodies = bodiesFile
	}
	if flags.Changed("integrator") {
		settings.Integrator = integratorName
	}
	if flags.Changed("log-level") {
		settings.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		settings.Log.Format = logFormat
	}
	if flags.Changed("save-dir") {
		settings.SaveDir = saveDir
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(logging.Config{Level: settings.Log.Level, Format: settings.Log.Format})
	codec := storage.NewCodec(settings.DisplayScale)
	return &app{
		settings: settings,
		log:      log,
		codec:    codec,
		store:    storage.New(settings.SaveDir, codec),
	}, nil
}

// startBodies returns the preset when one is named, otherwise the startup
// document. A missing or invalid document is fatal.
func (a *app) startBodies() ([]physics.Body, error) {
	if presetName != "" {
		return config.GetPreset(presetName, a.settings.DisplayScale)
	}

	path, err := a.settings.BodiesPath()
	if err != nil {
		return nil, err
	}
	bodies, err := a.codec.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load startup bodies: %w", err)
	}
	a.log.Info("loaded startup bodies", "path", path, "bodies", len(bodies))
	return bodies, nil
}

func (a *app) newSimulator(bodies []physics.Body, name string) (*sim.Simulator, error) {
	integ, err := integrators.Get(name)
	if err != nil {
		return nil, err
	}
	return sim.New(
		sim.NewState(bodies),
		a.settings.ForceField(),
		integ,
		a.codec,
		a.settings.SimConfig(),
		a.log,
	), nil
}

// build loads the startup bodies and constructs the configured simulator.
func (a *app) build() (*sim.Simulator, error) {
	bodies, err := a.startBodies()
	if err != nil {
		return nil, err
	}
	s, err := a.newSimulator(bodies, a.settings.Integrator)
	if err != nil {
		return nil, err
	}
	if err := a.serveMetrics(s); err != nil {
		return nil, err
	}
	return s, nil
}

// serveMetrics registers a Prometheus collector on s and serves /metrics in
// the background when --metrics-addr is set.
func (a *app) serveMetrics(s *sim.Simulator) error {
	if metricsAddr == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg, s.Field())
	if err != nil {
		return err
	}
	s.AddObserver(collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", "addr", metricsAddr, "err", err)
		}
	}()
	a.log.Info("serving metrics", "addr", metricsAddr)
	return nil
}

// headless runs ticks with no input and returns the energy drift tracker.
func headless(ctx context.Context, s *sim.Simulator, ticks int, history bool) (*metrics.EnergyDrift, error) {
	drift := metrics.NewEnergyDrift(s.Field())
	if history {
		drift.WithHistory()
	}
	drift.Start(s.State().Bodies())
	s.AddObserver(drift)

	if err := s.Run(ctx, ticks); err != nil {
		return drift, err
	}
	return drift, nil
}

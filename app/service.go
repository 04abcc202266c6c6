package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/fieldops/api/assignments"
	"github.com/kilianp07/fieldops/config"
	"github.com/kilianp07/fieldops/core/assign"
	"github.com/kilianp07/fieldops/core/assign/logging"
	coremetrics "github.com/kilianp07/fieldops/core/metrics"
	"github.com/kilianp07/fieldops/core/monitoring"
	coremqtt "github.com/kilianp07/fieldops/core/mqtt"
	"github.com/kilianp07/fieldops/infra/crm"
	sentrymon "github.com/kilianp07/fieldops/infra/monitoring"
	"github.com/kilianp07/fieldops/infra/logger"
	"github.com/kilianp07/fieldops/infra/metrics"
	"github.com/kilianp07/fieldops/infra/mqtt"
	"github.com/kilianp07/fieldops/internal/eventbus"
)

// Service wires the assignment orchestrator to its connectors: the CRM
// client, the audit store, the HTTP API and the optional MQTT announcer.
type Service struct {
	Manager   *assign.Manager
	bus       eventbus.EventBus
	store     logging.LogStore
	announcer coremqtt.Announcer
	log       logger.Logger
	apiAddr   string
	apiToken  string
	promAddr  string
	promOn    bool
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	monitor, err := sentrymon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(monitor)

	client, err := crm.New(cfg.CRM)
	if err != nil {
		return nil, fmt.Errorf("crm client: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	policy, err := cfg.Policy.ToPolicy()
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	bus := eventbus.New()
	manager, err := assign.NewManager(client, client, client.Dispatches(), policy, sink, bus, logger.New("assign"), cfg.BoardURL)
	if err != nil {
		return nil, fmt.Errorf("assignment manager: %w", err)
	}

	store, err := logging.NewStore(cfg.Logging.Backend, cfg.Logging.Path, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups, cfg.Logging.MaxAgeDays)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}
	manager.SetLogStore(store)

	svc := &Service{
		Manager:   manager,
		bus:       bus,
		store:     store,
		announcer: coremqtt.NopAnnouncer{},
		log:       logg,
		apiAddr:   cfg.API.Addr,
		apiToken:  cfg.API.Token,
		promAddr:  cfg.Metrics.PrometheusAddr,
	}
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == "prometheus" {
			svc.promOn = true
		}
	}
	if cfg.MQTT.Enabled {
		ann, err := mqtt.NewPahoAnnouncer(cfg.MQTT.Config)
		if err != nil {
			return nil, fmt.Errorf("mqtt announcer: %w", err)
		}
		svc.announcer = ann
	}
	return svc, nil
}

// Run starts the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		defer monitoring.Recover()
		coremqtt.Relay(s.bus, s.announcer, s.log)
	}()
	if s.promOn {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/assignments/command", assignments.NewCommandHandler(s.Manager, s.apiToken))
	mux.Handle("/api/assignments/logs", assignments.NewLogHandler(s.store, s.apiToken))
	srv := &http.Server{Addr: s.apiAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("assignment API listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.announcer.Disconnect()
	monitoring.Flush(2 * time.Second)
	// Manager.Close also closes the bus and the audit store.
	return s.Manager.Close()
}

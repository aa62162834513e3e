// Command bankd serves a bank of account actors over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"github.com/Tarjei400/actors-vs-locks/actor"
	"github.com/Tarjei400/actors-vs-locks/bank"
	"github.com/Tarjei400/actors-vs-locks/internal/api"
	"github.com/Tarjei400/actors-vs-locks/internal/config"
)

const (
	demoFrom = 1
	demoTo   = 2
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	setupLogging(cfg)

	as := actor.BuildActorSystem().
		WithMailboxSize(cfg.ActorMailboxSize).
		WithAskTimeout(cfg.AskTimeout).
		Run()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := bank.NewMetrics(provider)
	if err != nil {
		log.WithError(err).Fatal("failed to create metrics")
	}

	b, err := bank.New(as, bank.WithMetrics(metrics), bank.WithMailboxSize(cfg.ActorMailboxSize))
	if err != nil {
		log.WithError(err).Fatal("failed to create bank")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := startAudit(ctx, cfg, b, reader)
	if err != nil {
		log.WithError(err).Fatal("failed to schedule audit")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(b),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.HTTPAddr).Info("bankd listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.DemoTransfers > 0 {
		g.Go(func() error {
			runDemo(gctx, cfg, as, b)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http server shutdown failed")
		}
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		if err := as.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("actor system shutdown failed")
		}
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("meter provider shutdown failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("bankd stopped")
	}
	log.Info("bankd exited")
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// startAudit schedules the periodic audit. It returns nil when the
// schedule is empty.
func startAudit(ctx context.Context, cfg *config.Config, b *bank.Bank, reader *sdkmetric.ManualReader) (*cron.Cron, error) {
	if cfg.AuditSchedule == "" {
		log.Info("audit disabled")
		return nil, nil
	}
	cronLogger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))
	_, err := c.AddFunc(cfg.AuditSchedule, func() {
		auditCtx, cancel := context.WithTimeout(ctx, cfg.AskTimeout)
		defer cancel()
		report, err := b.Audit(auditCtx)
		if err != nil {
			log.WithError(err).Error("audit failed")
			return
		}
		fields := log.Fields{
			"accounts": len(report.Balances),
			"total":    report.Total,
		}
		for name, v := range counters(auditCtx, reader) {
			fields[name] = v
		}
		log.WithFields(fields).Info("audit")
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.WithField("schedule", cfg.AuditSchedule).Info("audit scheduled")
	return c, nil
}

// counters sums every int64 counter collected by reader.
func counters(ctx context.Context, reader *sdkmetric.ManualReader) map[string]int64 {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		log.WithError(err).Warn("metrics collection failed")
		return nil
	}
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

// runDemo opens two accounts and lets a teller shuffle money between them.
func runDemo(ctx context.Context, cfg *config.Config, as *actor.ActorSystem, b *bank.Bank) {
	from, err := b.Open(demoFrom, 0)
	if err != nil {
		log.WithError(err).Error("demo: failed to open account")
		return
	}
	to, err := b.Open(demoTo, 0)
	if err != nil {
		log.WithError(err).Error("demo: failed to open account")
		return
	}

	report, err := bank.RunTeller(ctx, as, bank.TellerConfig{
		A:         from,
		B:         to,
		Transfers: cfg.DemoTransfers,
		Amount:    1,
		Seed:      cfg.DemoSeedBalance,
		Deadline:  cfg.DemoDeadline,
		Progress:  time.Second,
	}, b.Options()...)
	entry := log.WithFields(log.Fields{
		"done":    report.Done,
		"failed":  report.Failed,
		"elapsed": report.Elapsed,
	})
	if err != nil {
		entry.WithError(err).Error("demo finished with error")
		return
	}

	balanceCtx, cancel := context.WithTimeout(ctx, cfg.AskTimeout)
	defer cancel()
	a, errA := b.Balance(balanceCtx, demoFrom)
	c, errB := b.Balance(balanceCtx, demoTo)
	if err := errors.Join(errA, errB); err != nil {
		entry.WithError(err).Warn("demo finished, balances unavailable")
		return
	}
	entry.WithFields(log.Fields{
		"balance_a": a,
		"balance_b": c,
	}).Info("demo finished")
}

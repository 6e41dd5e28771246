package healthmonitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-procurement/internal/common/purchasingprotocol"
	"go-procurement/internal/procurement/metrics"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/threadsafe"
)

const (
	purchasingDependency = "purchasing"

	StateUnknown = "unknown"
	StateUp      = "up"
	StateDown    = "down"
)

type Prober interface {
	Health(ctx context.Context) (purchasingprotocol.Health, error)
}

type Config struct {
	TickPeriod   time.Duration
	ProbeTimeout time.Duration
}

type Status struct {
	Purchasing string
	Database   string
	CheckedAt  time.Time
	Err        string
}

// HealthMonitor polls the purchasing backend in the background so that the
// admin health endpoint never blocks on it.
type HealthMonitor struct {
	prober  Prober
	config  Config
	last    *threadsafe.Value[Status]
	metrics *metrics.Metrics
	logger  *logging.ZapLogger
	done    chan struct{}
}

func NewHealthMonitor(config Config, prober Prober, metrics *metrics.Metrics, logger *logging.ZapLogger) *HealthMonitor {
	return &HealthMonitor{
		prober:  prober,
		config:  config,
		last:    threadsafe.NewValue(Status{Purchasing: StateUnknown}),
		metrics: metrics,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Run probes immediately and then on every tick until Stop is called.
func (hm *HealthMonitor) Run() {
	hm.tick()

	ticker := time.NewTicker(hm.config.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-hm.done:
			return
		case <-ticker.C:
			hm.tick()
		}
	}
}

func (hm *HealthMonitor) Stop() {
	close(hm.done)
}

func (hm *HealthMonitor) Status() Status {
	return hm.last.Get()
}

func (hm *HealthMonitor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), hm.config.ProbeTimeout)
	defer cancel()

	status := Status{CheckedAt: time.Now()}
	health, err := hm.prober.Health(ctx)
	if err != nil {
		status.Purchasing = StateDown
		status.Err = err.Error()
		hm.logger.WarnCtx(ctx, "purchasing backend health probe failed", zap.Error(err))
	} else {
		status.Purchasing = StateUp
		status.Database = health.Database
	}

	previous := hm.last.Get()
	hm.last.Set(status)
	hm.metrics.SetDependencyUp(purchasingDependency, status.Purchasing == StateUp)
	if previous.Purchasing != status.Purchasing {
		hm.logger.InfoCtx(ctx, "purchasing backend state changed",
			zap.String("from", previous.Purchasing),
			zap.String("to", status.Purchasing),
		)
	}
}

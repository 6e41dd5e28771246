package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"go-procurement/internal/procurement/data"
)

const namespace = "procurement"

const (
	TokenHit   = "hit"
	TokenLogin = "login"
	TokenError = "error"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	transitions        *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	sideEffects        *prometheus.CounterVec
	tokenRequests      *prometheus.CounterVec
	dependencyUp       *prometheus.GaugeVec
}

func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status transitions by source, target and result.",
		}, []string{"from", "to", "result"}),
		transitionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_transition_duration_seconds",
			Help:      "Wall time of a transition including dependent calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"to"}),
		sideEffects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effects_total",
			Help:      "Dependent calls made after a status change.",
		}, []string{"target", "result"}),
		tokenRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_token_requests_total",
			Help:      "CRM token lookups by cache result.",
		}, []string{"result"}),
		dependencyUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dependency_up",
			Help:      "1 when the last health probe of a dependency succeeded.",
		}, []string{"dependency"}),
	}
	registerer.MustRegister(m.transitions, m.transitionDuration, m.sideEffects, m.tokenRequests, m.dependencyUp)
	return m
}

func (m *Metrics) ObserveTransition(from, to data.Status, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to), result).Inc()
	m.transitionDuration.WithLabelValues(string(to)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveSideEffect(outcome data.SideEffectOutcome) {
	if m == nil {
		return
	}
	m.sideEffects.WithLabelValues(string(outcome.Target), string(outcome.Result)).Inc()
}

func (m *Metrics) ObserveToken(result string) {
	if m == nil {
		return
	}
	m.tokenRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) SetDependencyUp(dependency string, up bool) {
	if m == nil {
		return
	}
	value := 0.0
	if up {
		value = 1
	}
	m.dependencyUp.WithLabelValues(dependency).Set(value)
}

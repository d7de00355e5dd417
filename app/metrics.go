package app

import (
	"context"
	"strconv"

	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the application statistics.
type Metrics struct {
	delivered *prometheus.CounterVec
	rotations prometheus.Counter
	activeSet prometheus.Gauge
	height    prometheus.Gauge
}

// NewMetrics creates the application metrics and registers them with reg.
// Metrics are not exposed when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "barrel",
				Subsystem: "app",
				Name:      "delivered_msgs_total",
				Help:      "Total number of delivered messages",
			},
			[]string{"path", "code"},
		),
		rotations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "barrel",
				Subsystem: "staking",
				Name:      "era_rotations_total",
				Help:      "Total number of active validator set replacements",
			},
		),
		activeSet: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "barrel",
				Subsystem: "staking",
				Name:      "active_validators",
				Help:      "Size of the active validator set",
			},
		),
		height: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "barrel",
				Subsystem: "app",
				Name:      "block_height",
				Help:      "Height of the last processed block",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.delivered, m.rotations, m.activeSet, m.height)
	}
	return m
}

// Deliver counts the messages by path and the result error code. Code 0
// means success.
func (m *Metrics) Deliver(ctx context.Context, db barrel.KVStore, caller barrel.Address, msg barrel.Msg, next barrel.Handler) error {
	err := next.Deliver(ctx, db, caller, msg)
	m.delivered.WithLabelValues(msg.Path(), strconv.FormatUint(uint64(errors.Code(err)), 10)).Inc()
	return err
}

var _ barrel.Decorator = (*Metrics)(nil)

func (m *Metrics) observeTick(height barrel.BlockNumber, res barrel.TickResult) {
	m.height.Set(float64(height))
	if res.ValidatorsUpdated {
		m.rotations.Inc()
		m.activeSet.Set(float64(len(res.Validators)))
	}
}

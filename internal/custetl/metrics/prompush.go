package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushRecorder keeps metrics in a private registry and pushes them to a
// Pushgateway on Flush.
type PushRecorder struct {
	gatewayURL string
	job        string
	reg        *prometheus.Registry

	records *prometheus.CounterVec // custetl_records_total{kind}
	stages  *prometheus.GaugeVec   // custetl_stage_duration_seconds{stage}
}

// NewPushRecorder builds a recorder for gatewayURL, grouped under job.
func NewPushRecorder(gatewayURL, job string) (*PushRecorder, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("metrics: pushgateway URL is required")
	}
	if job == "" {
		job = "custetl"
	}

	reg := prometheus.NewRegistry()
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custetl_records_total",
			Help: "Records seen by the customer ETL run, by kind.",
		},
		[]string{"kind"},
	)
	// A batch job pushes once, so the last duration per stage is what matters.
	stages := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "custetl_stage_duration_seconds",
			Help: "Wall time of each pipeline stage in the last run.",
		},
		[]string{"stage"},
	)
	if err := reg.Register(records); err != nil {
		return nil, fmt.Errorf("metrics: register records counter: %w", err)
	}
	if err := reg.Register(stages); err != nil {
		return nil, fmt.Errorf("metrics: register stage gauge: %w", err)
	}

	return &PushRecorder{
		gatewayURL: gatewayURL,
		job:        job,
		reg:        reg,
		records:    records,
		stages:     stages,
	}, nil
}

func (p *PushRecorder) AddRecords(kind string, n int) {
	p.records.WithLabelValues(kind).Add(float64(n))
}

func (p *PushRecorder) ObserveStage(stage string, d time.Duration) {
	p.stages.WithLabelValues(stage).Set(d.Seconds())
}

// Flush pushes the registry, replacing the job's previous group.
func (p *PushRecorder) Flush() error {
	if err := push.New(p.gatewayURL, p.job).Gatherer(p.reg).Push(); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", p.gatewayURL, err)
	}
	return nil
}

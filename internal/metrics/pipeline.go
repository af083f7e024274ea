package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage names used as the "stage" label.
const (
	StageExtract  = "extract"
	StageGenerate = "generate"
	StageCompile  = "compile"
)

// Pipeline records how long each pipeline stage takes and how it ended.
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
}

// NewPipeline creates the collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quizgen_stage_duration_seconds",
				Help:    "Duration of pipeline stages (extract, generate, compile).",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
		stageTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quizgen_stage_total",
				Help: "Pipeline stage executions by outcome.",
			},
			[]string{"stage", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{p.stageDuration, p.stageTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Observe records one execution of stage. outcome is "ok" or an error kind name.
func (p *Pipeline) Observe(stage, outcome string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	p.stageTotal.WithLabelValues(stage, outcome).Inc()
}

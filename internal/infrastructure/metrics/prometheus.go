// Package metrics exposes the domain counters through Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "erevenue"

// Prometheus implements ports.Metrics.
type Prometheus struct {
	logins      *prometheus.CounterVec
	mutations   *prometheus.CounterVec
	views       *prometheus.CounterVec
	listResults *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		// result: success, invalid or error
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_mutations_total",
			Help:      "Record writes by collection and operation.",
		}, []string{"collection", "op"}),
		views: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_resolutions_total",
			Help:      "Resolved views, labelled by whether the request was redirected to the dashboard.",
		}, []string{"view", "redirected"}),
		listResults: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_results",
			Help:      "Number of records returned by list views.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}, []string{"collection"}),
	}
}

func (p *Prometheus) Login(result string) {
	p.logins.WithLabelValues(result).Inc()
}

func (p *Prometheus) Mutation(collection, op string) {
	p.mutations.WithLabelValues(collection, op).Inc()
}

func (p *Prometheus) ViewResolved(view string, redirected bool) {
	p.views.WithLabelValues(view, strconv.FormatBool(redirected)).Inc()
}

func (p *Prometheus) ListResult(collection string, size int) {
	p.listResults.WithLabelValues(collection).Observe(float64(size))
}

package monitor

import (
    "github.com/gorilla/mux"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var prometheusRecoveries = prometheus.NewCounterVec(prometheus.CounterOpts{
    Namespace: "regiondb",
    Subsystem: "recovery",
    Name: "tasks",
    Help: "Counts dead node recovery task outcomes",
}, []string{ "outcome" })

var prometheusRegions = prometheus.NewCounterVec(prometheus.CounterOpts{
    Namespace: "regiondb",
    Subsystem: "recovery",
    Name: "regions",
    Help: "Counts regions classified during dead node recovery",
}, []string{ "fate" })

func init() {
    prometheus.MustRegister(prometheusRecoveries)
    prometheus.MustRegister(prometheusRegions)
}

func RecordRecoveryStarted() {
    prometheusRecoveries.With(prometheus.Labels{ "outcome": "started" }).Inc()
}

func RecordRecoveryRequeued() {
    prometheusRecoveries.With(prometheus.Labels{ "outcome": "requeued" }).Inc()
}

func RecordRecoveryDeferred() {
    prometheusRecoveries.With(prometheus.Labels{ "outcome": "deferred" }).Inc()
}

func RecordRecoveryFinished() {
    prometheusRecoveries.With(prometheus.Labels{ "outcome": "finished" }).Inc()
}

func RecordRecoveryFailed() {
    prometheusRecoveries.With(prometheus.Labels{ "outcome": "failed" }).Inc()
}

func RecordRegionReassigned() {
    prometheusRegions.With(prometheus.Labels{ "fate": "reassigned" }).Inc()
}

func RecordRegionSkipped() {
    prometheusRegions.With(prometheus.Labels{ "fate": "skipped" }).Inc()
}

func RecordRegionOfflined() {
    prometheusRegions.With(prometheus.Labels{ "fate": "offlined" }).Inc()
}

func AttachMetricsEndpoint(router *mux.Router) {
    router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

package storage

import (
    "github.com/prometheus/client_golang/prometheus"
)

var prometheusStorageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
    Namespace: "regiondb",
    Subsystem: "storage",
    Name: "errors",
    Help: "Counts errors returned by the underlying storage driver",
}, []string{ "operation", "file" })

func init() {
    prometheus.MustRegister(prometheusStorageErrors)
}

func prometheusRecordStorageError(operation string, file string) {
    prometheusStorageErrors.With(prometheus.Labels{
        "operation": operation,
        "file": file,
    }).Inc()
}

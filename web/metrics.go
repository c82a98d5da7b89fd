package web

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nlr_requests_total",
		Help: "Total number of requests by route and status code",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nlr_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	BatchEntries = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nlr_batch_entries",
		Help:    "Number of queries per batch request",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	}, []string{"route"})
	DatasetFeatures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "nlr_dataset_features",
		Help: "Number of road features of the currently served dataset",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(BatchEntries)
	prometheus.MustRegister(DatasetFeatures)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request)

		route := "unknown"
		if currentRoute := mux.CurrentRoute(request); currentRoute != nil {
			if template, err := currentRoute.GetPathTemplate(); err == nil {
				route = template
			}
		}

		RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(startTime).Microseconds()) / 1000)
	})
}

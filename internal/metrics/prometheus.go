package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder reports runtime metrics using Prometheus primitives.
type PrometheusRecorder struct {
	requests          *prometheus.CounterVec
	requestDurations  *prometheus.HistogramVec
	providerCalls     *prometheus.CounterVec
	providerDurations *prometheus.HistogramVec
	fusionPaths       *prometheus.CounterVec
}

func NewPrometheusRecorder(registry *prometheus.Registry) (*PrometheusRecorder, error) {
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	r := &PrometheusRecorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_fusion_requests_total",
			Help: "Total chat requests by mode and status",
		}, []string{"mode", "status"}),
		requestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chat_fusion_request_duration_seconds",
			Help:    "Chat request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_fusion_provider_calls_total",
			Help: "Total upstream provider calls by provider and status",
		}, []string{"provider", "status"}),
		providerDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chat_fusion_provider_call_duration_seconds",
			Help:    "Upstream provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		fusionPaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_fusion_merge_path_total",
			Help: "Fusion replies by merge path (synthesis, structured, markers, longest)",
		}, []string{"path"}),
	}

	for _, collector := range []prometheus.Collector{r.requests, r.requestDurations, r.providerCalls, r.providerDurations, r.fusionPaths} {
		if err := registry.Register(collector); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) ObserveRequest(mode string, status string, duration time.Duration) {
	r.requests.WithLabelValues(mode, status).Inc()
	r.requestDurations.WithLabelValues(mode).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveProviderCall(provider string, status string, duration time.Duration) {
	r.providerCalls.WithLabelValues(provider, status).Inc()
	r.providerDurations.WithLabelValues(provider).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) ObserveFusionPath(path string) {
	r.fusionPaths.WithLabelValues(path).Inc()
}

func StartPrometheusServer(addr string, registry *prometheus.Registry) (*http.Server, error) {
	if addr == "" {
		addr = ":2112"
	}
	if registry == nil {
		return nil, fmt.Errorf("prometheus registry is nil")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics endpoint %q: %w", addr, err)
	}

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		_ = srv.Serve(ln)
	}()
	return srv, nil
}

func StopServer(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DebugAddr is where the registry is served when Config.Debug is set.
const DebugAddr = "localhost:9090"

const pushInterval = 15 * time.Second

// Metrics holds the node's Prometheus registry and the standard store
// meters.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal *prometheus.CounterVec
	RequestTime   *prometheus.HistogramVec
	BytesStored   prometheus.Counter
	BytesServed   prometheus.Counter

	cfg Config
}

// New creates a registry with the standard store meters registered.
func New(cfg Config) *Metrics {
	reg := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "beetle_store_requests_total",
		Help: "Total number of store requests.",
	}, []string{"method", "status"})

	requestTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "beetle_store_request_duration_seconds",
		Help:    "Duration of store requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	bytesStored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "beetle_store_bytes_stored_total",
		Help: "Total bytes written to the content database.",
	})

	bytesServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "beetle_store_bytes_served_total",
		Help: "Total blob bytes served to clients.",
	})

	reg.MustRegister(requestsTotal, requestTime, bytesStored, bytesServed)

	return &Metrics{
		Registry:      reg,
		RequestsTotal: requestsTotal,
		RequestTime:   requestTime,
		BytesStored:   bytesStored,
		BytesServed:   bytesServed,
		cfg:           cfg,
	}
}

// StartPush pushes the registry to the configured Prometheus gateway
// until the context is cancelled. It is a no-op unless Config.Collect is
// set and a gateway endpoint is configured.
func (m *Metrics) StartPush(ctx context.Context) {
	if !m.cfg.CollectMetrics || m.cfg.PromGatewayEndpoint == "" {
		return
	}

	pusher := push.New(m.cfg.PromGatewayEndpoint, m.cfg.ServiceName).
		Gatherer(m.Registry).
		Grouping("instance", m.cfg.InstanceID).
		Grouping("env", m.cfg.ServiceEnv)

	go func() {
		ticker := time.NewTicker(pushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := pusher.PushContext(ctx); err != nil {
					slog.Warn("metrics push failed", "endpoint", m.cfg.PromGatewayEndpoint, "error", err)
				}
			}
		}
	}()
}

// ServeDebug serves the registry on DebugAddr when Config.Debug is set.
// The returned server is nil when debug serving is disabled.
func (m *Metrics) ServeDebug() *http.Server {
	if !m.cfg.Debug {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: DebugAddr, Handler: mux}
	go func() {
		slog.Info("metrics debug server starting", "addr", DebugAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics debug server error", "error", err)
		}
	}()
	return srv
}

// Observe records one completed store request.
func (m *Metrics) Observe(method, status string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestTime.WithLabelValues(method).Observe(d.Seconds())
}

// Package metrics configures and runs the telemetry subsystem of a
// beetle node: a Prometheus registry with the standard store meters,
// optional pushgateway export, and optional OTLP tracing.
package metrics

import (
	"github.com/google/uuid"

	"github.com/izihawa/beetle/pkg/config"
)

// Config holds metrics and tracing settings for one node.
type Config struct {
	// CollectMetrics enables pushing metrics to the Prometheus gateway.
	CollectMetrics bool `mapstructure:"collect"`
	// Tracing enables OTLP trace export.
	Tracing bool `mapstructure:"tracing"`
	// Debug serves the registry over HTTP on a local port.
	Debug bool `mapstructure:"debug"`

	ServiceName string `mapstructure:"service_name"`
	InstanceID  string `mapstructure:"instance_id"`
	Build       string `mapstructure:"build"`
	Version     string `mapstructure:"version"`
	ServiceEnv  string `mapstructure:"service_env"`

	PromGatewayEndpoint string `mapstructure:"prom_gateway_endpoint"`
	TracerEndpoint      string `mapstructure:"tracer_endpoint"`
}

// Default returns the metrics configuration for a store node: export
// disabled, service identity filled in with a fresh instance id.
func Default() Config {
	return Config{
		ServiceName:         "beetle-store",
		InstanceID:          uuid.NewString(),
		Build:               "dev",
		Version:             "dev",
		ServiceEnv:          "dev",
		PromGatewayEndpoint: "http://localhost:9091",
	}
}

// Collect flattens the configuration for the merge engine.
func (c Config) Collect() (map[string]any, error) {
	return map[string]any{
		"collect":               c.CollectMetrics,
		"tracing":               c.Tracing,
		"debug":                 c.Debug,
		"service_name":          c.ServiceName,
		"instance_id":           c.InstanceID,
		"build":                 c.Build,
		"version":               c.Version,
		"service_env":           c.ServiceEnv,
		"prom_gateway_endpoint": c.PromGatewayEndpoint,
		"tracer_endpoint":       c.TracerEndpoint,
	}, nil
}

// CloneSource returns an independent copy for the merge engine.
func (c Config) CloneSource() config.Source {
	return c
}

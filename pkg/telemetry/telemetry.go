// Package telemetry provides OpenTelemetry integration for the boxtree tooling.
//
// It sets up a global TracerProvider from standard environment variables so
// that traversal builds emit one span per pipeline stage when tracing is
// enabled. With OTEL_ENABLED unset the global provider stays the default
// no-op provider and the builder's span calls cost nothing.
//
// Environment Variables:
//
//	OTEL_ENABLED                    - Enable/disable tracing (default: false)
//	OTEL_SERVICE_NAME               - Service name (default: boxtree)
//	OTEL_SERVICE_VERSION            - Service version (default: unknown)
//	OTEL_EXPORTER_OTLP_ENDPOINT     - OTLP collector endpoint
//	OTEL_EXPORTER_OTLP_PROTOCOL     - Protocol: grpc or http/protobuf (default: grpc)
//	OTEL_EXPORTER_OTLP_HEADERS      - Headers for authentication
//	OTEL_EXPORTER_OTLP_INSECURE     - Use insecure connection (default: false)
//	OTEL_TRACES_SAMPLER             - Sampler type (default: always_on)
//	OTEL_TRACES_SAMPLER_ARG         - Sampler argument (e.g., ratio)
//	OTEL_RESOURCE_ATTRIBUTES        - Additional resource attributes
package telemetry

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// ShutdownFunc is a function that shuts down the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Init initializes OpenTelemetry and sets up the global TracerProvider.
// If OTEL_ENABLED is not "true", it returns a no-op shutdown function
// and the global TracerProvider remains as the default no-op provider.
func Init(ctx context.Context) (ShutdownFunc, error) {
	cfg := loadConfig()

	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(createSampler(cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		return tp.Shutdown(ctx)
	}, nil
}

// Enabled returns whether OpenTelemetry tracing is enabled.
func Enabled() bool {
	return loadConfig().Enabled
}

// loadConfig loads configuration once and caches it.
func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}

// buildResource creates an OpenTelemetry Resource with service information.
func buildResource(cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	for k, v := range cfg.ResourceAttrs {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

// createSampler creates a trace sampler based on configuration.
// Defaults to AlwaysSample (full sampling) if no sampler is specified.
func createSampler(cfg *Config) trace.Sampler {
	switch cfg.Sampler {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(parseRatio(cfg.SamplerArg))
	case "parentbased_always_on":
		return trace.ParentBased(trace.AlwaysSample())
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(parseRatio(cfg.SamplerArg)))
	default:
		return trace.AlwaysSample()
	}
}

// parseRatio parses a sampling ratio string to float64.
// Returns 1.0 (full sampling) if the string is empty or fails to parse;
// values below 0 are clamped to 0 and values above 1 to 1.0.
func parseRatio(s string) float64 {
	if s == "" {
		return 1.0
	}

	ratio, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 1.0
	}

	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1.0
	}
	return ratio
}

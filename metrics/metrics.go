// Package metrics holds the bot's OpenTelemetry counters.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "discord-modbot"

var (
	once            sync.Once
	casesCreated    metric.Int64Counter
	escalations     metric.Int64Counter
	wordFilterHits  metric.Int64Counter
	platformFailure metric.Int64Counter
)

func instruments() {
	once.Do(func() {
		meter := otel.Meter(meterName)
		casesCreated, _ = meter.Int64Counter("modbot.cases.created",
			metric.WithDescription("Moderation cases created"))
		escalations, _ = meter.Int64Counter("modbot.escalations",
			metric.WithDescription("Automatic timeouts applied by escalation"))
		wordFilterHits, _ = meter.Int64Counter("modbot.word_filter.hits",
			metric.WithDescription("Messages matched by the word filter"))
		platformFailure, _ = meter.Int64Counter("modbot.platform.failures",
			metric.WithDescription("Failed platform actions"))
	})
}

// Setup installs the global meter provider. With an empty endpoint metrics
// stay in-process; otherwise they are pushed over OTLP/gRPC.
func Setup(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	var reader sdkmetric.Reader
	if endpoint == "" {
		reader = sdkmetric.NewManualReader()
	} else {
		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(30*time.Second))
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	slog.Info("metrics initialized", "otlp_endpoint", endpoint)
	return provider.Shutdown, nil
}

func CaseCreated(ctx context.Context, code string) {
	instruments()
	casesCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("case_code", code)))
}

func EscalationTriggered(ctx context.Context, tier int64) {
	instruments()
	escalations.Add(ctx, 1, metric.WithAttributes(attribute.Int64("tier", tier)))
}

func WordFilterHit(ctx context.Context, action string) {
	instruments()
	wordFilterHits.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}

// PlatformFailure counts a failed Discord call; kind is "missing_permissions" or "error".
func PlatformFailure(ctx context.Context, op, kind string) {
	instruments()
	platformFailure.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op), attribute.String("kind", kind)))
}

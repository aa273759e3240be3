package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"

	"github.com/carewire/go-hospital-backend/internal/config"
)

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupOTel_EnabledInstallsProvider(t *testing.T) {
	origExporter, origResource := newExporter, newServiceResource
	origTP := otel.GetTracerProvider()
	t.Cleanup(func() {
		newExporter, newServiceResource = origExporter, origResource
		otel.SetTracerProvider(origTP)
	})

	// Avoid dialing a collector: hand back an exporter that never connects.
	newExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.NewUnstarted(client), nil
	}

	var gotService, gotVersion string
	newServiceResource = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		gotService, gotVersion = serviceName, version
		return resource.Empty(), nil
	}

	cfg := config.OTELConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		Insecure:    true,
		ServiceName: "portal-test",
		SampleRatio: 0.5,
	}
	shutdown, err := SetupOTel(context.Background(), cfg, "v1.2.3")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if gotService != "portal-test" || gotVersion != "v1.2.3" {
		t.Fatalf("resource built with %q/%q", gotService, gotVersion)
	}

	// The installed provider should produce recording spans.
	ctx, span := otel.Tracer("observability-test").Start(context.Background(), "op")
	defer span.End()
	if sc := trace.SpanContextFromContext(ctx); !sc.IsValid() {
		t.Fatal("installed provider produced an invalid span context")
	}
}

func TestSetupOTel_ResourceErrorSurfaces(t *testing.T) {
	origExporter, origResource := newExporter, newServiceResource
	t.Cleanup(func() { newExporter, newServiceResource = origExporter, origResource })

	newExporter = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return otlptrace.NewUnstarted(client), nil
	}
	newServiceResource = func(ctx context.Context, _, _ string) (*resource.Resource, error) {
		return nil, errors.New("resource boom")
	}

	_, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: true, Insecure: true}, "v")
	if err == nil {
		t.Fatal("expected resource error to surface")
	}
}

package telemetry

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestInitTracerProviderWithoutExporter(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracerProvider(ctx, "shop-test", "")
	if err != nil {
		t.Fatalf("InitTracerProvider() error = %v", err)
	}
	defer tp.Shutdown(ctx)

	ctx, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()
	if !span.SpanContext().IsValid() {
		t.Fatal("span context is not valid")
	}

	h := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
	if h.Get("traceparent") == "" {
		t.Fatal("traceparent header not injected")
	}
}

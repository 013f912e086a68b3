package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestGetTracerUsesGlobalProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, span := GetTracer("test").Start(context.Background(), "room.join")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "room.join" {
		t.Fatalf("recorded spans=%v", spans)
	}
}

func TestInitTracerDoesNotDial(t *testing.T) {
	// the exporter connects lazily, so init succeeds without a collector
	shutdown, err := InitTracer(context.Background(), Config{
		ServiceName: "voicelink-test",
		Environment: "test",
		Endpoint:    "http://127.0.0.1:1/v1/traces",
	})
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)

	if err := NoopShutdown(context.Background()); err != nil {
		t.Fatalf("NoopShutdown: %v", err)
	}
}

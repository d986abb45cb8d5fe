package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yeisme/sharevault/pkg/configs"
)

func TestInitTracerDisabled(t *testing.T) {
	require.NoError(t, InitTracer(context.Background(), configs.TracingConfig{Enabled: false}))
	assert.NoError(t, ShutdownTracer(context.Background()))

	_, span := StartSpan(context.Background(), "noop")
	EndSpan(span, errors.New("boom"))
	assert.False(t, span.SpanContext().IsValid())
}

func TestNewExporterRejectsUnknownType(t *testing.T) {
	_, err := newExporter(context.Background(), configs.TracingConfig{ExporterType: "jaeger"})
	assert.Error(t, err)
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(configs.TracingConfig{
		ServiceName:    "sharevault",
		ServiceVersion: "1.2.3",
		ResourceLabels: map[string]string{"team": "files"},
	})

	assert.Contains(t, attrs, attribute.String("service.name", "sharevault"))
	assert.Contains(t, attrs, attribute.String("service.version", "1.2.3"))
	assert.Contains(t, attrs, attribute.String("team", "files"))
}

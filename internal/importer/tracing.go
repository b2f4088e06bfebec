package importer

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vhvplatform/react-framework-sub001/internal/errors"
)

// DefaultTracerName is the tracer used when Options.TracerName is empty.
const DefaultTracerName = "vhv/importer"

// newTracer resolves a tracer from the global provider, so spans are
// exported once main installs a provider and are no-ops otherwise.
func newTracer(name string) trace.Tracer {
	if name == "" {
		name = DefaultTracerName
	}
	return otel.Tracer(name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		if code := errors.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("vhv.error_code", code))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

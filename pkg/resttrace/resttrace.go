// Package resttrace wraps every request of a resty client in a client span
// and propagates the trace context downstream.
package resttrace

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "go-procurement/resttrace"

func Instrument(client *resty.Client, peer string) *resty.Client {
	tracer := otel.Tracer(instrumentationName)

	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		ctx, _ := tracer.Start(
			r.Context(),
			fmt.Sprintf("%s %s", peer, r.Method),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("peer.service", peer),
				attribute.String("http.method", r.Method),
				attribute.String("http.url", r.URL),
			),
		)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))
		r.SetContext(ctx)
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := trace.SpanFromContext(resp.Request.Context())
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
		if resp.IsError() {
			span.SetStatus(codes.Error, resp.Status())
		}
		span.End()
		return nil
	})

	client.OnError(func(r *resty.Request, err error) {
		span := trace.SpanFromContext(r.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
	})

	return client
}

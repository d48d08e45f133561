package telemetry

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

type restyInstrument struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
}

// InstrumentResty opens a span around every request made by the client
// and counts requests by response status under "<name>.requests".
func InstrumentResty(client *resty.Client, name string) {
	requests, err := Meter(name).Int64Counter(
		fmt.Sprintf("%s.requests", name),
		metric.WithDescription("HTTP requests made, by response status."),
	)
	if err != nil {
		otel.Handle(err)
	}

	i := restyInstrument{
		tracer:   Tracer(name),
		requests: requests,
	}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i restyInstrument) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), req.Method)
	req.SetContext(ctx)
	return nil
}

func headerAttributes(prefix string, headers http.Header) []attribute.KeyValue {
	var out []attribute.KeyValue
	for header, values := range headers {
		if len(values) == 1 {
			out = append(out, attribute.String(fmt.Sprintf("%s/header: %s", prefix, header), values[0]))
			continue
		}
		for idx, v := range values {
			out = append(out, attribute.String(fmt.Sprintf("%s/header: %s (%d)", prefix, header, idx), v))
		}
	}
	return out
}

func (i restyInstrument) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)

	// setting request attributes here since res.Request.RawRequest is nil in onBeforeRequest
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(headerAttributes("request", res.Request.Header)...)
	span.SetAttributes(headerAttributes("response", res.Header())...)

	if i.requests != nil {
		i.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", strconv.Itoa(res.StatusCode())),
		))
	}
	return nil
}

func (i restyInstrument) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetName(fmt.Sprintf("http %s", req.Method))

	if i.requests != nil {
		i.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", "error"),
		))
	}

	if req.RawRequest == nil {
		return
	}
	span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
}

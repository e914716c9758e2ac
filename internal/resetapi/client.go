// Package resetapi issues the kiosk's fire-and-forget reset request.
package resetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultTimeout = 10 * time.Second

// Result is the backend's reply body.
type Result struct {
	Status string `json:"status"`
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("reset: server returned %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("reset: server returned %d", e.Code)
}

// Client posts to the reset endpoint.
type Client struct {
	url        string
	http       *http.Client
	tracer     oteltrace.Tracer
	header     http.Header
	propagator propagation.TextMapPropagator
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracer records a span per request.
func WithTracer(t oteltrace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// New creates a client for the full reset URL, e.g. http://host:5000/api/reset.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:    url,
		http:   &http.Client{Timeout: defaultTimeout},
		tracer: noop.NewTracerProvider().Tracer("resetapi"),
		header: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.propagator = otel.GetTextMapPropagator()
	return c
}

// Reset sends the request and decodes the reply. There is no retry.
func (c *Client) Reset(ctx context.Context) (Result, error) {
	ctx, span := c.tracer.Start(ctx, "kiosk.reset", oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.method", http.MethodPost), attribute.String("http.url", c.url))

	res, err := c.do(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	span.SetAttributes(attribute.String("kiosk.reset.status", res.Status))
	return res, nil
}

func (c *Client) do(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("reset: build request: %w", err)
	}
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("reset: decode reply: %w", err)
	}
	return res, nil
}

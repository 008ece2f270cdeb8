// Copyright 2026 The ecom-sentry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errorhandler

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// RouteGetter returns the route a request was matched against, used as the
// culprit of captured events.
type RouteGetter func(*http.Request) string

// MiddlewareOption configures Middleware and the gRPC interceptors.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	enableOTel     bool
	tracerProvider trace.TracerProvider
	routeGetter    RouteGetter
	panicStatus    int
}

func applyMiddlewareOptions(opts []MiddlewareOption) *middlewareConfig {
	cfg := &middlewareConfig{
		enableOTel:  true,
		routeGetter: ServeMuxPattern,
		panicStatus: http.StatusInternalServerError,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithOTel toggles OpenTelemetry instrumentation (otelhttp for HTTP, the
// otelgrpc stats handler for ServerOptions). Enabled by default.
func WithOTel(enabled bool) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.enableOTel = enabled
	}
}

// WithTracerProvider sets the tracer provider used by the instrumentation.
func WithTracerProvider(tp trace.TracerProvider) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.tracerProvider = tp
	}
}

// WithRouteGetter sets how the culprit is derived from a request. The
// default is ServeMuxPattern; use ChiRoutePattern for chi routers.
func WithRouteGetter(fn RouteGetter) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.routeGetter = fn
	}
}

// WithPanicStatus sets the status written after a recovered panic when the
// handler has not written a header yet. It defaults to 500.
func WithPanicStatus(code int) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		cfg.panicStatus = code
	}
}

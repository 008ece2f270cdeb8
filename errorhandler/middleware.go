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
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	ecomsentry "github.com/lesha888/ecom-sentry"
)

const instrumentationName = "github.com/lesha888/ecom-sentry/errorhandler"

// Middleware returns net/http middleware that, for every request:
//
//  1. scopes a fork of the handler's client to the request context,
//  2. runs BeforeRequest,
//  3. recovers panics from next and passes them to LogException before
//     answering with the panic status.
//
// Failures of either trigger are logged and do not change the response.
// http.ErrAbortHandler is re-panicked untouched.
func Middleware(h *Handler, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := applyMiddlewareOptions(opts)
	ecomsentry.EnsurePropagation()

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		handler := h.httpHandler(cfg, next)
		if !cfg.enableOTel {
			return handler
		}
		var otelOpts []otelhttp.Option
		if cfg.tracerProvider != nil {
			otelOpts = append(otelOpts, otelhttp.WithTracerProvider(cfg.tracerProvider))
		}
		return otelhttp.NewHandler(handler, instrumentationName, otelOpts...)
	}
}

func (h *Handler) httpHandler(cfg *middlewareConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := h.scope(r.Context())
		// ServeMux records the matched pattern on the request it is given,
		// so the getter reads the request passed to next.
		var served *http.Request
		if cfg.routeGetter != nil {
			ctx = contextWithCulprit(ctx, func() string {
				if served == nil {
					return ""
				}
				return cfg.routeGetter(served)
			})
		}
		r = r.WithContext(ctx)
		served = r

		if err := h.BeforeRequest(ctx); err != nil {
			h.logger.ErrorContext(ctx, "recorded error capture failed", slog.Any("error", err))
		}

		sw := &statusWriter{ResponseWriter: w}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			if err := h.LogException(ctx, newPanicError(v)); err != nil {
				h.logger.ErrorContext(ctx, "panic capture failed", slog.Any("error", err))
			}
			if !sw.wroteHeader {
				http.Error(sw, http.StatusText(cfg.panicStatus), cfg.panicStatus)
			}
		}()

		next.ServeHTTP(sw, r)
	})
}

// scope stores a fork of the client in ctx unless one is already there.
func (h *Handler) scope(ctx context.Context) context.Context {
	if _, ok := ecomsentry.ClientFromContext(ctx); ok {
		return ctx
	}
	return ecomsentry.ContextWithClient(ctx, h.client.Fork())
}

// ServeMuxPattern returns the net/http ServeMux pattern that matched r.
func ServeMuxPattern(r *http.Request) string {
	return r.Pattern
}

// ChiRoutePattern returns "METHOD /route/{param}" for requests served by a
// chi router. The pattern is complete once routing has finished, so the
// culprit is right when the middleware is mounted with chi's Use.
func ChiRoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	pattern := rctx.RoutePattern()
	if pattern == "" {
		return ""
	}
	method := rctx.RouteMethod
	if method == "" {
		method = r.Method
	}
	return method + " " + pattern
}

// statusWriter remembers whether a header was written.
type statusWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(p)
}

// Flush forwards to the wrapped writer when it supports flushing.
func (w *statusWriter) Flush() {
	w.wroteHeader = true
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

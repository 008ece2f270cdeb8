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
	"fmt"
	"log/slog"
	"runtime"

	ecomsentry "github.com/lesha888/ecom-sentry"
)

// ErrNoClient is returned by New when neither a client nor a registry was configured.
var ErrNoClient = fmt.Errorf("%w: error handler has no capture client", ecomsentry.ErrInvalidConfig)

// ExceptionLogger is the default exception logging that runs after a
// successful capture. eventID is empty when the client is disabled.
type ExceptionLogger func(ctx context.Context, err error, eventID string)

// Handler forwards unhandled errors to the error tracker.
type Handler struct {
	client   *ecomsentry.Client
	recorder *Recorder
	logger   *slog.Logger
	fallback ExceptionLogger
	service  string
	version  string
}

type options struct {
	client    *ecomsentry.Client
	hasClient bool
	registry  *ecomsentry.Registry
	clientID  string
	recorder  *Recorder
	logger    *slog.Logger
	fallback  ExceptionLogger
	service   string
	version   string
}

// Option configures a Handler.
type Option func(*options)

// WithClient captures through c.
func WithClient(c *ecomsentry.Client) Option {
	return func(o *options) {
		o.client = c
		o.hasClient = true
	}
}

// WithRegistry resolves the client registered under id when New runs. An
// empty id selects ecomsentry.DefaultClientID.
func WithRegistry(reg *ecomsentry.Registry, id string) Option {
	return func(o *options) {
		o.registry = reg
		o.clientID = id
	}
}

// WithRecorder sets the Recorder inspected by BeforeRequest. It defaults to
// DefaultRecorder.
func WithRecorder(r *Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithLogger sets the logger of the default exception logger. When nil,
// slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithExceptionLogger replaces the default exception logger.
func WithExceptionLogger(fn ExceptionLogger) Option {
	return func(o *options) {
		o.fallback = fn
	}
}

// WithServiceContext sets the service name and version attached to logged
// exceptions.
func WithServiceContext(service, version string) Option {
	return func(o *options) {
		o.service = service
		o.version = version
	}
}

// New builds a Handler. The client is resolved immediately: a missing client
// or an unregistered identifier is returned as an error wrapping
// ecomsentry.ErrInvalidConfig.
func New(opts ...Option) (*Handler, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	client := o.client
	switch {
	case o.hasClient:
		if client == nil {
			return nil, fmt.Errorf("errorhandler: %w", ErrNoClient)
		}
	case o.registry != nil:
		resolved, err := o.registry.Resolve(o.clientID)
		if err != nil {
			return nil, fmt.Errorf("errorhandler: %w", err)
		}
		client = resolved
	default:
		return nil, fmt.Errorf("errorhandler: %w", ErrNoClient)
	}

	h := &Handler{
		client:   client,
		recorder: o.recorder,
		logger:   o.logger,
		fallback: o.fallback,
		service:  o.service,
		version:  o.version,
	}
	if h.recorder == nil {
		h.recorder = DefaultRecorder
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.fallback == nil {
		h.fallback = h.logException
	}
	return h, nil
}

// Client returns the client errors are captured through outside a request.
func (h *Handler) Client() *ecomsentry.Client {
	return h.client
}

// Recorder returns the Recorder inspected by BeforeRequest.
func (h *Handler) Recorder() *Recorder {
	return h.recorder
}

// clientFor prefers the request-scoped client stored in ctx.
func (h *Handler) clientFor(ctx context.Context) *ecomsentry.Client {
	if c, ok := ecomsentry.ClientFromContext(ctx); ok {
		return c
	}
	return h.client
}

// BeforeRequest takes the last recorded process-level error and captures it
// when its severity is capturable. Errors of other severities are discarded.
// The capture error, if any, is returned.
func (h *Handler) BeforeRequest(ctx context.Context) error {
	last, ok := h.recorder.Take()
	if !ok {
		return nil
	}
	if !last.Code.Capturable() {
		h.logger.DebugContext(ctx, "recorded error not captured",
			slog.String("severity", last.Code.String()),
			slog.String("message", last.Message),
		)
		return nil
	}

	_, err := h.clientFor(ctx).CaptureException(ctx, &last, ecomsentry.CaptureOptions{
		Level: ecomsentry.LevelFatal,
	})
	return err
}

// LogException captures err and then runs the exception logger. When the
// capture fails its error is returned and the exception logger is skipped.
func (h *Handler) LogException(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	opts := ecomsentry.CaptureOptions{Culprit: culpritFromContext(ctx)}
	if pe, ok := asPanicError(err); ok {
		opts.Level = ecomsentry.LevelFatal
		if opts.Culprit == "" {
			opts.Culprit = pe.culprit()
		}
	}

	eventID, captureErr := h.clientFor(ctx).CaptureException(ctx, err, opts)
	if captureErr != nil {
		return captureErr
	}
	h.fallback(ctx, err, eventID)
	return nil
}

// logException is the default ExceptionLogger. It writes one error record
// with the stack trace and report location of err.
func (h *Handler) logException(ctx context.Context, err error, eventID string) {
	attrs := []slog.Attr{slog.Any("error", err)}
	if eventID != "" {
		attrs = append(attrs, slog.String("event_id", eventID))
	}
	attrs = append(attrs, h.errorReportingAttrs(err)...)
	h.logger.LogAttrs(ctx, slog.LevelError, "unhandled error", attrs...)
}

// errorReportingAttrs mirrors the Cloud Error Reporting payload: service
// context, stack_trace and context.reportLocation.
func (h *Handler) errorReportingAttrs(err error) []slog.Attr {
	var (
		stack string
		frame runtime.Frame
	)
	if pe, ok := asPanicError(err); ok && pe.Stack != "" {
		stack, frame = pe.Stack, pe.location()
	} else {
		stack, frame = errorStack(err)
	}

	attrs := make([]slog.Attr, 0, 3)
	if h.service != "" {
		sc := map[string]any{"service": h.service}
		if h.version != "" {
			sc["version"] = h.version
		}
		attrs = append(attrs, slog.Any("serviceContext", sc))
	}
	if stack != "" {
		attrs = append(attrs, slog.String("stack_trace", stack))
	}
	if loc := reportLocation(frame); loc != nil {
		attrs = append(attrs, slog.Any("context", map[string]any{"reportLocation": loc}))
	}
	return attrs
}

func reportLocation(frame runtime.Frame) map[string]any {
	if frame.Function == "" && frame.File == "" && frame.Line == 0 {
		return nil
	}
	loc := map[string]any{}
	if frame.File != "" {
		loc["filePath"] = frame.File
	}
	if frame.Line != 0 {
		loc["lineNumber"] = frame.Line
	}
	if frame.Function != "" {
		loc["functionName"] = frame.Function
	}
	return loc
}

type culpritKey struct{}

// contextWithCulprit stores a lazily evaluated culprit. Routers such as chi
// resolve the route pattern while the request is being served.
func contextWithCulprit(ctx context.Context, culprit func() string) context.Context {
	return context.WithValue(ctx, culpritKey{}, culprit)
}

func culpritFromContext(ctx context.Context) string {
	if fn, ok := ctx.Value(culpritKey{}).(func() string); ok && fn != nil {
		return fn()
	}
	return ""
}

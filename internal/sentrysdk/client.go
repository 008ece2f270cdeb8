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

package sentrysdk

import (
	"fmt"
	"maps"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
)

const queryContextKey = "query"

// sentryClientAPI is the subset of *sentry.Client used by Client.
type sentryClientAPI interface {
	EventFromException(exception error, level sentry.Level) *sentry.Event
	EventFromMessage(message string, level sentry.Level) *sentry.Event
	CaptureEvent(event *sentry.Event, hint *sentry.EventHint, scope sentry.EventModifier) *sentry.EventID
	Flush(timeout time.Duration) bool
}

var _ sentryClientAPI = (*sentry.Client)(nil)

// Client implements API on top of github.com/getsentry/sentry-go. Events are
// delivered with the synchronous HTTP transport so every capture call blocks
// until the event has been handed to the network.
type Client struct {
	client sentryClientAPI
	opts   Options
	closed atomic.Bool
}

var (
	_ API     = (*Client)(nil)
	_ Flusher = (*Client)(nil)
)

// New is the production Factory.
func New(dsn string, opts Options) (API, error) {
	return NewClient(dsn, opts)
}

// NewClient constructs a sentry-go client for dsn. An empty dsn yields a
// client that accepts events but never sends them, matching sentry-go.
func NewClient(dsn string, opts Options) (*Client, error) {
	sampleRate := opts.SampleRate
	if sampleRate <= 0 || sampleRate > 1 {
		sampleRate = 1.0
	}
	sc, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              dsn,
		Debug:            opts.Debug,
		AttachStacktrace: opts.AttachStacktrace,
		SampleRate:       sampleRate,
		Release:          opts.Release,
		Dist:             opts.Dist,
		Environment:      opts.Environment,
		ServerName:       opts.ServerName,
		MaxBreadcrumbs:   opts.MaxBreadcrumbs,
		Transport:        sentry.NewHTTPSyncTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("sentrysdk: create client: %w", err)
	}
	return &Client{client: sc, opts: opts}, nil
}

// CaptureException converts err into an exception event.
func (c *Client) CaptureException(err error, opts CaptureOptions) (id string, retErr error) {
	if err == nil {
		return "", ErrNilException
	}
	defer recoverSDKPanic(&retErr)
	if c.closed.Load() {
		return "", ErrClientClosed
	}

	event := c.client.EventFromException(err, toSentryLevel(opts.Level, sentry.LevelError))
	c.decorate(event, opts)
	return c.send(event), nil
}

// CaptureMessage sends message as a message event. When params are present the
// message is used as a format string and the raw params are kept in extra.
func (c *Client) CaptureMessage(message string, params []any, opts CaptureOptions, sendStack bool) (id string, retErr error) {
	defer recoverSDKPanic(&retErr)
	if c.closed.Load() {
		return "", ErrClientClosed
	}

	formatted := message
	if len(params) > 0 {
		formatted = fmt.Sprintf(message, params...)
	}
	event := c.client.EventFromMessage(formatted, toSentryLevel(opts.Level, sentry.LevelInfo))
	c.decorate(event, opts)
	if len(params) > 0 {
		event.Extra["message_params"] = params
		event.Extra["message_template"] = message
	}
	if sendStack && len(event.Threads) == 0 {
		event.Threads = []sentry.Thread{{
			Stacktrace: sentry.NewStacktrace(),
			Current:    true,
		}}
	}
	return c.send(event), nil
}

// CaptureQuery records a database query as a message event carrying a query
// context.
func (c *Client) CaptureQuery(query string, level Level, engine string) (id string, retErr error) {
	defer recoverSDKPanic(&retErr)
	if c.closed.Load() {
		return "", ErrClientClosed
	}

	event := c.client.EventFromMessage(query, toSentryLevel(level, sentry.LevelInfo))
	c.decorate(event, CaptureOptions{})
	queryCtx := sentry.Context{"query": query}
	if engine != "" {
		queryCtx["engine"] = engine
		event.Tags["db.engine"] = engine
	}
	event.Contexts[queryContextKey] = queryCtx
	return c.send(event), nil
}

// ResolvePublicID returns the event ID reported by the server. sentry-go
// already assigns public identifiers, so this is the identity.
func (c *Client) ResolvePublicID(internalID string) string {
	return internalID
}

// Flush waits up to timeout for buffered events.
func (c *Client) Flush(timeout time.Duration) bool {
	return c.client.Flush(timeout)
}

// Close flushes and marks the client unusable.
func (c *Client) Close(timeout time.Duration) bool {
	if c.closed.Swap(true) {
		return true
	}
	return c.client.Flush(timeout)
}

// decorate applies the client defaults and per-call options to event.
func (c *Client) decorate(event *sentry.Event, opts CaptureOptions) {
	if event.Tags == nil {
		event.Tags = make(map[string]string)
	}
	if event.Extra == nil {
		event.Extra = make(map[string]any)
	}
	if event.Contexts == nil {
		event.Contexts = make(map[string]sentry.Context)
	}

	event.Logger = firstNonEmpty(opts.Logger, c.opts.Logger)
	maps.Copy(event.Tags, c.opts.Tags)
	maps.Copy(event.Tags, opts.Tags)
	maps.Copy(event.Extra, opts.Extra)
	if opts.Culprit != "" {
		event.Transaction = opts.Culprit
	}
	if len(opts.Context) > 0 {
		event.Contexts["vars"] = sentry.Context(maps.Clone(opts.Context))
	}
}

// send hands event to sentry-go. A nil ID means the event was sampled out or
// dropped by an event processor, which is not a failure.
func (c *Client) send(event *sentry.Event) string {
	eventID := c.client.CaptureEvent(event, nil, sentry.NewScope())
	if eventID == nil {
		return ""
	}
	return string(*eventID)
}

// recoverSDKPanic converts a panic raised inside sentry-go into an error.
func recoverSDKPanic(errp *error) {
	if r := recover(); r != nil {
		*errp = fmt.Errorf("%w: %v", ErrSDKPanic, r)
	}
}

// toSentryLevel maps a Level onto sentry.Level, using fallback when unset.
func toSentryLevel(level Level, fallback sentry.Level) sentry.Level {
	switch level {
	case LevelDebug:
		return sentry.LevelDebug
	case LevelInfo:
		return sentry.LevelInfo
	case LevelWarning:
		return sentry.LevelWarning
	case LevelError:
		return sentry.LevelError
	case LevelFatal:
		return sentry.LevelFatal
	default:
		return fallback
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

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

package ecomsentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// Client is the single gateway to the remote error-tracking SDK. It applies
// environment gating, enforces the message size limit, merges the configured
// extra variables into every event and records the IDs of captured events.
//
// A Client owns its event ID ledger without synchronization: use one Client
// per request (see Fork) rather than sharing one across goroutines.
type Client struct {
	cfg    Config
	sdk    SDK
	logger *slog.Logger
	ledger []string
}

// NewClient builds a capture client from the defaults, the ECOMSENTRY_*
// environment variables and opts, in that order of precedence.
//
// When the client is enabled and the environment is allow-listed, the SDK
// handle is created immediately: the default options {logger "app", tags
// environment and runtime-version} are merged with the configured SDK
// options, the merged tags are length checked and the SDK factory runs once.
// Otherwise the client is returned without a handle and every capture is a
// no-op.
//
// Tag violations return an error wrapping ErrInvalidConfig. A factory failure
// is returned verbatim in debug mode; in production it is logged and
// ErrClientInit is returned.
func NewClient(opts ...Option) (*Client, error) {
	builder := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(builder)
		}
	}

	logger := builder.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	base, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	cfg := builder.apply(base)

	c := &Client{cfg: cfg, logger: logger}
	if !cfg.Enabled || !cfg.EnvironmentAllowed() {
		logger.Debug("error tracker disabled",
			slog.Bool("enabled", cfg.Enabled),
			slog.String("environment", cfg.Environment),
			slog.Any("enabled_environments", cfg.EnabledEnvironments),
		)
		return c, nil
	}

	sdkOpts := mergeSDKOptions(defaultSDKOptions(cfg.Environment), cfg.Options)
	if sdkOpts.Environment == "" {
		sdkOpts.Environment = cfg.Environment
	}
	if cfg.RuntimeDetection {
		sdkOpts = applyRuntimeInfo(sdkOpts, DetectRuntimeInfo(context.Background()))
	}
	if err := checkTags(sdkOpts.Tags); err != nil {
		return nil, err
	}

	factory := builder.factory
	if factory == nil {
		factory = DefaultSDKFactory
	}
	sdk, err := factory(cfg.DSN, sdkOpts)
	if err == nil && sdk == nil {
		err = errors.New("sdk factory returned no client")
	}
	if err != nil {
		if cfg.Debug {
			return nil, fmt.Errorf("ecomsentry: create sdk client: %w", err)
		}
		logger.Error("error tracker client initialization failed", slog.Any("error", err))
		return nil, ErrClientInit
	}
	c.sdk = sdk
	return c, nil
}

// Enabled reports whether captures reach the SDK.
func (c *Client) Enabled() bool {
	return c != nil && c.sdk != nil
}

// Config returns a copy of the resolved configuration.
func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg.clone()
}

// Fork returns a client sharing c's configuration, SDK handle and logger with
// an empty event ID ledger.
func (c *Client) Fork() *Client {
	if c == nil {
		return nil
	}
	return &Client{cfg: c.cfg, sdk: c.sdk, logger: c.logger}
}

// EventIDs returns the IDs of events captured through c, in call order.
func (c *Client) EventIDs() []string {
	if c == nil {
		return nil
	}
	return slices.Clone(c.ledger)
}

// LastEventID returns the most recently captured event ID, or "".
func (c *Client) LastEventID() string {
	if c == nil || len(c.ledger) == 0 {
		return ""
	}
	return c.ledger[len(c.ledger)-1]
}

// Flush waits up to timeout for the SDK to deliver buffered events. It
// reports true when the SDK does not buffer.
func (c *Client) Flush(timeout time.Duration) bool {
	if !c.Enabled() {
		return true
	}
	if f, ok := c.sdk.(SDKFlusher); ok {
		return f.Flush(timeout)
	}
	return true
}

// Close flushes pending events and shuts the SDK down when it supports it.
// Forks share the SDK, so closing any of them closes all. Captures made
// after Close report the SDK's error through finish.
func (c *Client) Close(timeout time.Duration) bool {
	if !c.Enabled() {
		return true
	}
	if cl, ok := c.sdk.(SDKCloser); ok {
		return cl.Close(timeout)
	}
	return c.Flush(timeout)
}

// CaptureException sends err to the error tracker and returns the event ID.
// It returns "" and no error when the client is disabled or the environment
// is not allow-listed.
func (c *Client) CaptureException(ctx context.Context, err error, opts CaptureOptions) (string, error) {
	if !c.Enabled() {
		EventsSuppressedTotal.WithLabelValues(kindException).Inc()
		return "", nil
	}
	opts = c.prepare(ctx, opts)
	id, sdkErr := c.sdk.CaptureException(err, opts)
	return c.finish(ctx, kindException, id, sdkErr)
}

// CaptureMessage sends message to the error tracker. params, when present,
// format message. sendStack attaches the current goroutine's stack.
//
// Messages longer than MaxMessageLength bytes are rejected with
// ErrInvalidParameter before gating is considered.
func (c *Client) CaptureMessage(ctx context.Context, message string, params []any, opts CaptureOptions, sendStack bool) (string, error) {
	if len(message) > MaxMessageLength {
		return "", fmt.Errorf("%w: message is %d bytes, limit is %d", ErrInvalidParameter, len(message), MaxMessageLength)
	}
	if !c.Enabled() {
		EventsSuppressedTotal.WithLabelValues(kindMessage).Inc()
		return "", nil
	}
	opts = c.prepare(ctx, opts)
	id, sdkErr := c.sdk.CaptureMessage(message, params, opts, sendStack)
	return c.finish(ctx, kindMessage, id, sdkErr)
}

// CaptureQuery records a database query. Validation is left to the SDK.
func (c *Client) CaptureQuery(ctx context.Context, query string, level Level, engine string) (string, error) {
	if !c.Enabled() {
		EventsSuppressedTotal.WithLabelValues(kindQuery).Inc()
		return "", nil
	}
	if level == "" {
		level = LevelInfo
	}
	id, sdkErr := c.sdk.CaptureQuery(query, level, engine)
	return c.finish(ctx, kindQuery, id, sdkErr)
}

// prepare merges the extra variables and trace tags into opts.
func (c *Client) prepare(ctx context.Context, opts CaptureOptions) CaptureOptions {
	opts.Extra = mergeExtra(c.cfg.ExtraVariables, opts.Extra)
	opts.Tags = withTraceTags(ctx, opts.Tags)
	return opts
}

// finish converts SDK failures, resolves the public ID and records it.
func (c *Client) finish(ctx context.Context, kind, internalID string, sdkErr error) (string, error) {
	if sdkErr != nil {
		CaptureFailuresTotal.WithLabelValues(kind).Inc()
		op := "capture " + kind
		if c.cfg.Debug {
			return "", newCaptureError(op, sdkErr, true)
		}
		c.logger.ErrorContext(ctx, "error tracker capture failed",
			slog.String("op", op),
			slog.Any("error", sdkErr),
		)
		return "", newCaptureError(op, sdkErr, false)
	}
	if internalID == "" {
		c.logger.DebugContext(ctx, "error tracker dropped event", slog.String("kind", kind))
		return "", nil
	}

	eventID := c.sdk.ResolvePublicID(internalID)
	c.ledger = append(c.ledger, eventID)
	EventsCapturedTotal.WithLabelValues(kind).Inc()
	c.logger.InfoContext(ctx, "error tracker event captured",
		slog.String("event_id", eventID),
		slog.String("kind", kind),
	)
	return eventID, nil
}

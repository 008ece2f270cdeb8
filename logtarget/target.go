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

package logtarget

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	ecomsentry "github.com/lesha888/ecom-sentry"
)

// LogTimeLayout formats the log_time extra field.
const LogTimeLayout = "2006-01-02 15:04:05"

// Keys of the data attached to every exported entry.
const (
	ExtraMessage = "message"
	ExtraLevel   = "level"
	ExtraLogTime = "log_time"
	TagCategory  = "category"
)

// ErrNoClient is returned by New when neither a client nor a registry was configured.
var ErrNoClient = fmt.Errorf("%w: log target has no capture client", ecomsentry.ErrInvalidConfig)

// Entry is one buffered log line.
type Entry struct {
	Text     string
	Level    string
	Category string
	Time     time.Time
}

// EntryFromSeconds builds an Entry from a Unix timestamp with fractional seconds.
func EntryFromSeconds(text, level, category string, seconds float64) Entry {
	whole, frac := math.Modf(seconds)
	return Entry{
		Text:     text,
		Level:    level,
		Category: category,
		Time:     time.Unix(int64(whole), int64(math.Round(frac*1e9))),
	}
}

// Capturer is the part of the capture client a Target uses.
type Capturer interface {
	CaptureMessage(ctx context.Context, message string, params []any, opts ecomsentry.CaptureOptions, sendStack bool) (string, error)
}

var _ Capturer = (*ecomsentry.Client)(nil)

// Target exports log entries as captured messages.
type Target struct {
	capturer Capturer
	logger   *slog.Logger
	location *time.Location
}

type options struct {
	capturer   Capturer
	registry   *ecomsentry.Registry
	clientID   string
	logger     *slog.Logger
	location   *time.Location
	hasCapture bool
}

// Option configures a Target.
type Option func(*options)

// WithClient exports through c.
func WithClient(c Capturer) Option {
	return func(o *options) {
		o.capturer = c
		o.hasCapture = true
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

// WithLogger sets the logger used for export diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLocation sets the time zone of log_time. It defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// New builds a Target. Client resolution happens here: a missing client or
// an unregistered identifier is returned as an error wrapping
// ecomsentry.ErrInvalidConfig.
func New(opts ...Option) (*Target, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	capturer := o.capturer
	switch {
	case o.hasCapture:
		if c, ok := capturer.(*ecomsentry.Client); capturer == nil || (ok && c == nil) {
			return nil, fmt.Errorf("logtarget: %w", ErrNoClient)
		}
	case o.registry != nil:
		client, err := o.registry.Resolve(o.clientID)
		if err != nil {
			return nil, fmt.Errorf("logtarget: %w", err)
		}
		capturer = client
	default:
		return nil, fmt.Errorf("logtarget: %w", ErrNoClient)
	}

	t := &Target{
		capturer: capturer,
		logger:   o.logger,
		location: o.location,
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	if t.location == nil {
		t.location = time.Local
	}
	return t, nil
}

// Export captures every entry as a message, in order. The first failure
// stops the export: earlier entries stay captured, later ones are not
// attempted, and the error is returned with the failing entry's position.
//
// When ctx carries a client (see ecomsentry.ContextWithClient) that client is
// used so the event IDs land in the request's ledger.
func (t *Target) Export(ctx context.Context, entries []Entry) error {
	if ctx == nil {
		ctx = context.Background()
	}
	capturer := t.capturer
	if c, ok := ecomsentry.ClientFromContext(ctx); ok {
		capturer = c
	}
	return t.exportWith(ctx, capturer, entries)
}

// exportWith captures entries through capturer, ignoring any client on ctx.
func (t *Target) exportWith(ctx context.Context, capturer Capturer, entries []Entry) error {
	for i, entry := range entries {
		if _, err := capturer.CaptureMessage(ctx, entry.Text, nil, t.captureOptions(entry), false); err != nil {
			t.logger.WarnContext(ctx, "log export aborted",
				slog.Int("entry", i),
				slog.Int("skipped", len(entries)-i-1),
				slog.Any("error", err),
			)
			return &ExportError{Index: i, Total: len(entries), Err: err}
		}
	}
	return nil
}

func (t *Target) captureOptions(entry Entry) ecomsentry.CaptureOptions {
	return ecomsentry.CaptureOptions{
		Extra: map[string]any{
			ExtraMessage: entry.Text,
			ExtraLevel:   entry.Level,
			ExtraLogTime: entry.Time.In(t.location).Format(LogTimeLayout),
		},
		Tags: map[string]string{
			TagCategory: entry.Category,
		},
	}
}

// ExportError reports which entry stopped an export.
type ExportError struct {
	Index int
	Total int
	Err   error
}

// Error implements error.
func (e *ExportError) Error() string {
	return fmt.Sprintf("logtarget: export entry %d of %d: %v", e.Index+1, e.Total, e.Err)
}

// Unwrap returns the capture error.
func (e *ExportError) Unwrap() error {
	return e.Err
}

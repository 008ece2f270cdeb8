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
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/lesha888/ecom-sentry/internal/sentrysdk"
	"github.com/lesha888/ecom-sentry/sentrymock"
)

const testDSN = "https://public@o1.ingest.example.invalid/1"

// newMockClient builds an enabled client backed by a fresh mock.
func newMockClient(t *testing.T, opts ...Option) (*Client, *sentrymock.SDK) {
	t.Helper()
	mock := sentrymock.New()
	base := []Option{
		WithDSN(testDSN),
		WithEnvironment("dev"),
		WithSDKFactory(mock.Factory()),
	}
	client, err := NewClient(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() returned %v", err)
	}
	return client, mock
}

// TestDisabledClientIsNoop covers enabled=false.
func TestDisabledClientIsNoop(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t, WithEnabled(false))
	if client.Enabled() {
		t.Fatal("Enabled() = true for disabled client")
	}

	id, err := client.CaptureException(context.Background(), errors.New("boom"), CaptureOptions{})
	if err != nil || id != "" {
		t.Fatalf("CaptureException() = (%q, %v), want empty id and nil", id, err)
	}
	if got := len(client.EventIDs()); got != 0 {
		t.Fatalf("ledger length = %d, want 0", got)
	}
	if mock.Constructions() != 0 || len(mock.Calls()) != 0 {
		t.Fatalf("sdk touched: constructions=%d calls=%d", mock.Constructions(), len(mock.Calls()))
	}
}

// TestEnvironmentGating ensures non allow-listed environments never reach the SDK.
func TestEnvironmentGating(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t, WithEnvironment("dev"), WithEnabledEnvironments("production"))
	ctx := context.Background()

	if id, err := client.CaptureMessage(ctx, "hello", nil, CaptureOptions{}, false); err != nil || id != "" {
		t.Fatalf("CaptureMessage() = (%q, %v), want empty id and nil", id, err)
	}
	if id, err := client.CaptureException(ctx, errors.New("x"), CaptureOptions{}); err != nil || id != "" {
		t.Fatalf("CaptureException() = (%q, %v), want empty id and nil", id, err)
	}
	if id, err := client.CaptureQuery(ctx, "SELECT 1", LevelInfo, "mysql"); err != nil || id != "" {
		t.Fatalf("CaptureQuery() = (%q, %v), want empty id and nil", id, err)
	}
	if mock.Constructions() != 0 || len(mock.Calls()) != 0 {
		t.Fatalf("sdk touched: constructions=%d calls=%d", mock.Constructions(), len(mock.Calls()))
	}
}

// TestCaptureMessageTooLong verifies the size check runs before gating.
func TestCaptureMessageTooLong(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", MaxMessageLength+1)
	for _, enabled := range []bool{true, false} {
		client, mock := newMockClient(t, WithEnabled(enabled))
		_, err := client.CaptureMessage(context.Background(), long, nil, CaptureOptions{}, false)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("enabled=%v: err = %v, want ErrInvalidParameter", enabled, err)
		}
		if len(mock.Calls()) != 0 {
			t.Fatalf("enabled=%v: sdk called %d times", enabled, len(mock.Calls()))
		}
	}

	client, _ := newMockClient(t)
	exact := strings.Repeat("b", MaxMessageLength)
	if _, err := client.CaptureMessage(context.Background(), exact, nil, CaptureOptions{}, false); err != nil {
		t.Fatalf("message of exactly %d bytes rejected: %v", MaxMessageLength, err)
	}
}

// TestLedgerAppendsInOrder checks one ID per successful capture, in call order.
func TestLedgerAppendsInOrder(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t)
	ctx := context.Background()

	var want []string
	for i := range 5 {
		var (
			id  string
			err error
		)
		switch i % 3 {
		case 0:
			id, err = client.CaptureException(ctx, errors.New("e"), CaptureOptions{})
		case 1:
			id, err = client.CaptureMessage(ctx, "m", nil, CaptureOptions{}, false)
		default:
			id, err = client.CaptureQuery(ctx, "SELECT 1", "", "")
		}
		if err != nil {
			t.Fatalf("capture %d returned %v", i, err)
		}
		want = append(want, id)
	}

	got := client.EventIDs()
	if len(got) != 5 {
		t.Fatalf("ledger length = %d, want 5", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ledger[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if client.LastEventID() != want[4] {
		t.Fatalf("LastEventID() = %q, want %q", client.LastEventID(), want[4])
	}

	calls := mock.Calls()
	for i, call := range calls {
		if public := mock.ResolvePublicID(call.InternalID); public != got[i] {
			t.Fatalf("ledger[%d] = %q, want resolved %q", i, got[i], public)
		}
	}
	if calls[2].Level != LevelInfo {
		t.Fatalf("query level = %q, want default info", calls[2].Level)
	}
}

// TestCaptureErrorDebugMode exposes the SDK message.
func TestCaptureErrorDebugMode(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t, WithDebug(true))
	sdkErr := errors.New("network unreachable")
	mock.FailAll(sdkErr)

	_, err := client.CaptureException(context.Background(), errors.New("boom"), CaptureOptions{})
	if err == nil {
		t.Fatal("CaptureException() returned nil error")
	}
	if !strings.Contains(err.Error(), "network unreachable") {
		t.Fatalf("err = %q, want SDK message", err)
	}
	if !errors.Is(err, ErrCapture) || !errors.Is(err, sdkErr) {
		t.Fatalf("err = %v, want ErrCapture wrapping the sdk error", err)
	}
	if len(client.EventIDs()) != 0 {
		t.Fatal("failed capture appended to the ledger")
	}
}

// TestCaptureErrorProductionMode hides the SDK message and logs it instead.
func TestCaptureErrorProductionMode(t *testing.T) {
	t.Parallel()

	recorder := &recordingHandler{}
	client, mock := newMockClient(t, WithDebug(false), WithLogger(slog.New(recorder)))
	mock.FailAll(errors.New("network unreachable"))

	_, err := client.CaptureMessage(context.Background(), "hello", nil, CaptureOptions{}, false)
	if err == nil {
		t.Fatal("CaptureMessage() returned nil error")
	}
	if strings.Contains(err.Error(), "network unreachable") {
		t.Fatalf("err = %q leaks the SDK message", err)
	}
	if !errors.Is(err, ErrCapture) {
		t.Fatalf("err = %v, want ErrCapture", err)
	}
	var captureErr *CaptureError
	if !errors.As(err, &captureErr) || captureErr.Op != "capture message" {
		t.Fatalf("err = %#v, want *CaptureError for capture message", err)
	}

	rec, attrs, ok := recorder.find("error tracker capture failed")
	if !ok {
		t.Fatal("no log record for the failed capture")
	}
	if rec.Level != slog.LevelError {
		t.Fatalf("log level = %v, want error", rec.Level)
	}
	logged, _ := attrs["error"].(error)
	if logged == nil || !strings.Contains(logged.Error(), "network unreachable") {
		t.Fatalf("logged error = %v, want SDK message", attrs["error"])
	}
}

// TestCaptureSuccessLogsInfo verifies the informational log line.
func TestCaptureSuccessLogsInfo(t *testing.T) {
	t.Parallel()

	recorder := &recordingHandler{}
	client, _ := newMockClient(t, WithLogger(slog.New(recorder)))
	id, err := client.CaptureQuery(context.Background(), "SELECT 1", LevelWarning, "postgres")
	if err != nil {
		t.Fatalf("CaptureQuery() returned %v", err)
	}

	rec, attrs, ok := recorder.find("error tracker event captured")
	if !ok {
		t.Fatal("no info record for the capture")
	}
	if rec.Level != slog.LevelInfo || attrs["event_id"] != id || attrs["kind"] != "query" {
		t.Fatalf("record level=%v attrs=%#v, want info with event_id %q", rec.Level, attrs, id)
	}
}

// TestExtraVariablesMerged ensures process-wide extra data reaches every event.
func TestExtraVariablesMerged(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t, WithExtraVariables(map[string]any{"region": "eu", "shared": "global"}))
	opts := CaptureOptions{Extra: map[string]any{"shared": "call"}, Tags: map[string]string{"k": "v"}}
	if _, err := client.CaptureException(context.Background(), errors.New("x"), opts); err != nil {
		t.Fatalf("CaptureException() returned %v", err)
	}

	got := mock.Calls()[0].Options
	if got.Extra["region"] != "eu" || got.Extra["shared"] != "call" {
		t.Fatalf("extra = %#v", got.Extra)
	}
	if opts.Extra["region"] != nil {
		t.Fatal("caller's extra map was mutated")
	}
}

// TestPerCallTagsNotLengthChecked preserves the default-tags-only validation.
func TestPerCallTagsNotLengthChecked(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t)
	long := strings.Repeat("k", MaxTagKeyLength+10)
	opts := CaptureOptions{Tags: map[string]string{long: strings.Repeat("v", MaxTagValueLength+10)}}
	if _, err := client.CaptureMessage(context.Background(), "tagged", nil, opts, false); err != nil {
		t.Fatalf("CaptureMessage() returned %v", err)
	}
	if _, ok := mock.Calls()[0].Options.Tags[long]; !ok {
		t.Fatal("per-call tag was not forwarded")
	}
}

// TestTraceTagsAdded correlates captures with the active span.
func TestTraceTagsAdded(t *testing.T) {
	t.Parallel()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	client, mock := newMockClient(t)
	if _, err := client.CaptureMessage(ctx, "traced", nil, CaptureOptions{}, true); err != nil {
		t.Fatalf("CaptureMessage() returned %v", err)
	}
	call := mock.Calls()[0]
	if call.Options.Tags[TraceIDTag] != traceID.String() || call.Options.Tags[SpanIDTag] != spanID.String() {
		t.Fatalf("tags = %#v, want trace correlation", call.Options.Tags)
	}
	if !call.SendStack {
		t.Fatal("sendStack not forwarded")
	}
}

// TestForkHasIndependentLedger checks per-request scoping.
func TestForkHasIndependentLedger(t *testing.T) {
	t.Parallel()

	parent, mock := newMockClient(t)
	child := parent.Fork()
	if _, err := child.CaptureMessage(context.Background(), "child", nil, CaptureOptions{}, false); err != nil {
		t.Fatalf("CaptureMessage() returned %v", err)
	}
	if len(parent.EventIDs()) != 0 || len(child.EventIDs()) != 1 {
		t.Fatalf("parent=%d child=%d, want 0 and 1", len(parent.EventIDs()), len(child.EventIDs()))
	}
	if mock.Constructions() != 1 {
		t.Fatalf("Fork rebuilt the sdk client: constructions=%d", mock.Constructions())
	}
}

// TestNewClientDefaultOptions verifies the default SDK options and user overrides.
func TestNewClientDefaultOptions(t *testing.T) {
	t.Parallel()

	_, mock := newMockClient(t,
		WithEnvironment("staging"),
		WithSDKOptions(SDKOptions{Release: "shop@1.0.0", Tags: map[string]string{"team": "checkout"}}),
	)
	got := mock.Options()
	if got.Logger != "app" {
		t.Fatalf("logger = %q, want app", got.Logger)
	}
	if got.Tags["environment"] != "staging" || got.Tags["runtime-version"] != runtime.Version() || got.Tags["team"] != "checkout" {
		t.Fatalf("tags = %#v", got.Tags)
	}
	if got.Release != "shop@1.0.0" || got.Environment != "staging" {
		t.Fatalf("options = %+v", got)
	}
	if mock.DSN() != testDSN {
		t.Fatalf("dsn = %q", mock.DSN())
	}
}

// TestNewClientRejectsLongDefaultTags covers the configuration error path.
func TestNewClientRejectsLongDefaultTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags map[string]string
	}{
		{"long key", map[string]string{strings.Repeat("k", MaxTagKeyLength+1): "v"}},
		{"long value", map[string]string{"k": strings.Repeat("v", MaxTagValueLength+1)}},
		{"long environment", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := "dev"
			if tt.tags == nil {
				env = strings.Repeat("e", MaxTagValueLength+1)
			}
			mock := sentrymock.New()
			_, err := NewClient(
				WithEnvironment(env),
				WithEnabledEnvironments(env),
				WithSDKOptions(SDKOptions{Tags: tt.tags}),
				WithSDKFactory(mock.Factory()),
			)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
			if mock.Constructions() != 0 {
				t.Fatal("sdk constructed despite invalid tags")
			}
		})
	}
}

// TestNewClientFactoryFailure covers debug and production construction errors.
func TestNewClientFactoryFailure(t *testing.T) {
	t.Parallel()

	factoryErr := errors.New("invalid dsn scheme")

	mock := sentrymock.New()
	mock.FailFactory(factoryErr)
	_, err := NewClient(WithDebug(true), WithSDKFactory(mock.Factory()))
	if !errors.Is(err, factoryErr) {
		t.Fatalf("debug err = %v, want raw factory error", err)
	}

	recorder := &recordingHandler{}
	_, err = NewClient(WithDebug(false), WithSDKFactory(mock.Factory()), WithLogger(slog.New(recorder)))
	if !errors.Is(err, ErrClientInit) || strings.Contains(err.Error(), "invalid dsn scheme") {
		t.Fatalf("production err = %v, want generic ErrClientInit", err)
	}
	if _, attrs, ok := recorder.find("error tracker client initialization failed"); !ok || attrs["error"] == nil {
		t.Fatal("factory failure was not logged")
	}
}

// TestNewClientNilSDK treats a nil handle as a construction failure.
func TestNewClientNilSDK(t *testing.T) {
	t.Parallel()

	factory := func(string, sentrysdk.Options) (sentrysdk.API, error) { return nil, nil }
	if _, err := NewClient(WithDebug(true), WithSDKFactory(factory)); err == nil {
		t.Fatal("NewClient() accepted a nil sdk")
	}
}

// TestDroppedEventNotRecorded leaves the ledger untouched when the SDK drops an event.
func TestDroppedEventNotRecorded(t *testing.T) {
	t.Parallel()

	client := &Client{cfg: DefaultConfig(), sdk: droppingSDK{}, logger: slog.New(slog.DiscardHandler)}
	id, err := client.CaptureMessage(context.Background(), "sampled", nil, CaptureOptions{}, false)
	if err != nil || id != "" {
		t.Fatalf("CaptureMessage() = (%q, %v), want empty id and nil", id, err)
	}
	if len(client.EventIDs()) != 0 {
		t.Fatal("dropped event appended to the ledger")
	}
}

// TestNilClientIsNoop guards methods on a nil *Client.
func TestNilClientIsNoop(t *testing.T) {
	t.Parallel()

	var client *Client
	if id, err := client.CaptureException(context.Background(), errors.New("x"), CaptureOptions{}); err != nil || id != "" {
		t.Fatalf("nil client CaptureException() = (%q, %v)", id, err)
	}
	if client.Fork() != nil || client.EventIDs() != nil || !client.Flush(0) || !client.Close(0) {
		t.Fatal("nil client helpers misbehaved")
	}
}

// TestCloseForwardsToSDK shuts the SDK down and surfaces later captures as failures.
func TestCloseForwardsToSDK(t *testing.T) {
	t.Parallel()

	sdk := &closingSDK{}
	client := &Client{cfg: DefaultConfig(), sdk: sdk, logger: slog.New(slog.DiscardHandler)}
	client.cfg.Debug = true
	fork := client.Fork()

	if !client.Close(time.Second) {
		t.Fatal("Close() = false, want true")
	}
	if sdk.closes != 1 {
		t.Fatalf("sdk closes = %d, want 1", sdk.closes)
	}

	_, err := fork.CaptureException(context.Background(), errors.New("late"), CaptureOptions{})
	if !errors.Is(err, sentrysdk.ErrClientClosed) {
		t.Fatalf("capture after Close err = %v, want ErrClientClosed", err)
	}
	if len(fork.EventIDs()) != 0 {
		t.Fatal("capture after Close appended to the ledger")
	}
}

// TestCloseFallsBackToFlush flushes SDKs that cannot be closed.
func TestCloseFallsBackToFlush(t *testing.T) {
	t.Parallel()

	sdk := &flushingSDK{}
	client := &Client{cfg: DefaultConfig(), sdk: sdk, logger: slog.New(slog.DiscardHandler)}
	if !client.Close(time.Second) || !client.Flush(time.Second) {
		t.Fatal("Close() or Flush() reported a timeout")
	}
	if sdk.flushes != 2 {
		t.Fatalf("sdk flushes = %d, want 2", sdk.flushes)
	}
}

// TestCloseDisabledClient reports success without building an SDK.
func TestCloseDisabledClient(t *testing.T) {
	t.Parallel()

	client, mock := newMockClient(t, WithEnabled(false))
	if !client.Close(time.Second) {
		t.Fatal("Close() = false for disabled client")
	}
	if mock.Constructions() != 0 {
		t.Fatalf("constructions = %d, want 0", mock.Constructions())
	}
}

type closingSDK struct {
	droppingSDK
	closes int
}

func (s *closingSDK) Close(time.Duration) bool {
	s.closes++
	return true
}

func (s *closingSDK) CaptureException(error, CaptureOptions) (string, error) {
	if s.closes > 0 {
		return "", sentrysdk.ErrClientClosed
	}
	return "evt", nil
}

type flushingSDK struct {
	droppingSDK
	flushes int
}

func (s *flushingSDK) Flush(time.Duration) bool {
	s.flushes++
	return true
}

type droppingSDK struct{}

func (droppingSDK) CaptureException(error, CaptureOptions) (string, error) {
	return "", nil
}

func (droppingSDK) CaptureMessage(string, []any, CaptureOptions, bool) (string, error) {
	return "", nil
}

func (droppingSDK) CaptureQuery(string, Level, string) (string, error) {
	return "", nil
}

func (droppingSDK) ResolvePublicID(id string) string {
	return id
}

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

package sentrymock

import (
	"errors"
	"testing"

	"github.com/lesha888/ecom-sentry/internal/sentrysdk"
)

// TestFactoryRecordsConstruction verifies the factory captures its inputs.
func TestFactoryRecordsConstruction(t *testing.T) {
	t.Parallel()

	mock := New()
	api, err := mock.Factory()("https://k@example.invalid/1", sentrysdk.Options{Logger: "app"})
	if err != nil {
		t.Fatalf("Factory() returned %v", err)
	}
	if api != mock {
		t.Fatalf("Factory() returned %T, want the mock itself", api)
	}
	if mock.DSN() != "https://k@example.invalid/1" || mock.Options().Logger != "app" {
		t.Fatalf("recorded dsn=%q options=%+v", mock.DSN(), mock.Options())
	}
	if mock.Constructions() != 1 {
		t.Fatalf("Constructions() = %d, want 1", mock.Constructions())
	}
}

// TestFailFactory returns the configured error.
func TestFailFactory(t *testing.T) {
	t.Parallel()

	mock := New()
	want := errors.New("bad dsn")
	mock.FailFactory(want)
	if _, err := mock.Factory()("", sentrysdk.Options{}); !errors.Is(err, want) {
		t.Fatalf("Factory() err = %v, want %v", err, want)
	}
}

// TestFailCallTargetsOneCall checks per-call failure injection and recording.
func TestFailCallTargetsOneCall(t *testing.T) {
	t.Parallel()

	mock := New()
	boom := errors.New("network unreachable")
	mock.FailCall(2, boom)

	if _, err := mock.CaptureMessage("one", nil, sentrysdk.CaptureOptions{}, false); err != nil {
		t.Fatalf("call 1 err = %v", err)
	}
	if _, err := mock.CaptureException(errors.New("two"), sentrysdk.CaptureOptions{}); !errors.Is(err, boom) {
		t.Fatalf("call 2 err = %v, want %v", err, boom)
	}
	if _, err := mock.CaptureQuery("SELECT 1", sentrysdk.LevelInfo, "sqlite"); err != nil {
		t.Fatalf("call 3 err = %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 {
		t.Fatalf("len(calls) = %d, want 3", len(calls))
	}
	if calls[1].Failed == nil || calls[1].InternalID != "" {
		t.Fatalf("call 2 = %+v, want failed without id", calls[1])
	}
	if calls[2].Kind != KindQuery || calls[2].Engine != "sqlite" {
		t.Fatalf("call 3 = %+v", calls[2])
	}
}

// TestResolvePublicIDDeterministic checks resolution is stable.
func TestResolvePublicIDDeterministic(t *testing.T) {
	t.Parallel()

	mock := New()
	id, err := mock.CaptureMessage("hi", nil, sentrysdk.CaptureOptions{}, false)
	if err != nil {
		t.Fatalf("CaptureMessage() returned %v", err)
	}
	first := mock.ResolvePublicID(id)
	if len(first) != 32 {
		t.Fatalf("public id = %q, want 32 chars", first)
	}
	if again := mock.ResolvePublicID(id); again != first {
		t.Fatalf("ResolvePublicID() = %q then %q", first, again)
	}
}

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
	"testing"
)

// TestCaptureErrorVerbosity hides the cause outside debug mode.
func TestCaptureErrorVerbosity(t *testing.T) {
	t.Parallel()

	cause := errors.New("network unreachable")
	verbose := newCaptureError("capture message", cause, true)
	quiet := newCaptureError("capture message", cause, false)

	if !errors.Is(verbose, cause) || !errors.Is(verbose, ErrCapture) {
		t.Fatalf("verbose error %v does not match cause and ErrCapture", verbose)
	}
	if errors.Is(quiet, cause) || !errors.Is(quiet, ErrCapture) {
		t.Fatalf("quiet error %v exposes the cause", quiet)
	}
	if quiet.Error() != "ecomsentry: capture message: error tracker unavailable" {
		t.Fatalf("quiet.Error() = %q", quiet.Error())
	}
}

// TestMergeSDKOptions lets user options win and merges tags.
func TestMergeSDKOptions(t *testing.T) {
	t.Parallel()

	defaults := defaultSDKOptions("staging")
	got := mergeSDKOptions(defaults, SDKOptions{
		Logger:  "checkout",
		Release: "shop@1.0.0",
		Tags:    map[string]string{"environment": "override", "team": "payments"},
	})
	if got.Logger != "checkout" || got.Release != "shop@1.0.0" {
		t.Fatalf("mergeSDKOptions() = %+v", got)
	}
	if got.Tags["environment"] != "override" || got.Tags["team"] != "payments" || got.Tags["runtime-version"] == "" {
		t.Fatalf("Tags = %v", got.Tags)
	}
	if defaults.Tags["environment"] != "staging" {
		t.Fatal("mergeSDKOptions() mutated the defaults")
	}
}

// TestContextWithClient round-trips a client.
func TestContextWithClient(t *testing.T) {
	t.Parallel()

	c := &Client{}
	got, ok := ClientFromContext(ContextWithClient(context.Background(), c))
	if !ok || got != c {
		t.Fatalf("ClientFromContext() = (%p, %v)", got, ok)
	}
	if _, ok := ClientFromContext(ContextWithClient(context.Background(), nil)); ok {
		t.Fatal("nil client stored in context")
	}
}

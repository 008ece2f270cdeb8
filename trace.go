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

	"go.opentelemetry.io/otel/trace"
)

// Tag keys used to correlate captured events with OpenTelemetry traces.
const (
	TraceIDTag = "trace_id"
	SpanIDTag  = "span_id"
)

// ExtractTraceSpan returns the hex trace and span IDs of the span context in
// ctx. ok is false when ctx carries no valid span context.
//
// It does not create spans or parse headers; upstream middleware is expected
// to have populated the span context through an OpenTelemetry propagator.
func ExtractTraceSpan(ctx context.Context) (traceID, spanID string, ok bool) {
	if ctx == nil {
		return "", "", false
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}

// withTraceTags adds trace correlation tags to tags without overwriting keys
// the caller already set. tags is copied before modification.
func withTraceTags(ctx context.Context, tags map[string]string) map[string]string {
	traceID, spanID, ok := ExtractTraceSpan(ctx)
	if !ok {
		return tags
	}
	out := make(map[string]string, len(tags)+2)
	out[TraceIDTag] = traceID
	out[SpanIDTag] = spanID
	for k, v := range tags {
		out[k] = v
	}
	return out
}

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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Capture kinds used as the "kind" metric label.
const (
	kindException = "exception"
	kindMessage   = "message"
	kindQuery     = "query"
)

var (
	// EventsCapturedTotal counts events accepted by the SDK.
	EventsCapturedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomsentry_events_captured_total",
			Help: "Events handed to the error tracker, by capture kind",
		},
		[]string{"kind"},
	)

	// CaptureFailuresTotal counts capture calls that failed in the SDK.
	CaptureFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomsentry_capture_failures_total",
			Help: "Capture calls that failed inside the error tracker SDK, by capture kind",
		},
		[]string{"kind"},
	)

	// EventsSuppressedTotal counts captures skipped because the client is
	// disabled or the environment is not allow-listed.
	EventsSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecomsentry_events_suppressed_total",
			Help: "Capture calls skipped by environment gating, by capture kind",
		},
		[]string{"kind"},
	)
)

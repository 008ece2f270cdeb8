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
	"os"
	"strconv"
	"strings"
	"sync"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const envDisablePropagatorAutoSet = "ECOMSENTRY_DISABLE_PROPAGATOR_AUTOSET"

var installPropagatorOnce sync.Once

// EnsurePropagation sets the global OpenTelemetry propagator so inbound
// requests carry their trace into captured events. Cloud Trace headers are
// read but never written; W3C trace context and baggage flow both ways.
// Setting ECOMSENTRY_DISABLE_PROPAGATOR_AUTOSET to a true value leaves the
// host's propagator alone. Only the first call has any effect.
func EnsurePropagation() {
	installPropagatorOnce.Do(func() {
		if propagatorAutoSetDisabled() {
			return
		}
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			gcppropagator.CloudTraceOneWayPropagator{},
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})
}

func propagatorAutoSetDisabled() bool {
	raw := strings.TrimSpace(os.Getenv(envDisablePropagatorAutoSet))
	if raw == "" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

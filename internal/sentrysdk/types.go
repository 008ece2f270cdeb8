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

import "time"

// Level is the severity attached to a captured event.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// CaptureOptions carries the per-event data accepted by every capture call.
type CaptureOptions struct {
	// Culprit names the function or route the event is attributed to.
	Culprit string
	// Extra holds arbitrary structured data sent alongside the event.
	Extra map[string]any
	// Tags are indexed, searchable key/value pairs.
	Tags map[string]string
	// Logger overrides the logger name configured on the client.
	Logger string
	// Context holds variables describing the state at capture time.
	Context map[string]any
	// Level overrides the default level of the capture kind.
	Level Level
}

// Options is the passthrough configuration handed to the SDK at construction.
type Options struct {
	Logger           string            `koanf:"logger"`
	Tags             map[string]string `koanf:"tags"`
	Environment      string            `koanf:"environment"`
	Release          string            `koanf:"release"`
	Dist             string            `koanf:"dist"`
	ServerName       string            `koanf:"server_name"`
	SampleRate       float64           `koanf:"sample_rate"`
	MaxBreadcrumbs   int               `koanf:"max_breadcrumbs"`
	AttachStacktrace bool              `koanf:"attach_stacktrace"`
	Debug            bool              `koanf:"debug"`
}

// API is the surface of the remote error-tracking client. Capture methods
// return an internal identifier that ResolvePublicID turns into the event ID
// exposed to callers.
type API interface {
	CaptureException(err error, opts CaptureOptions) (string, error)
	CaptureMessage(message string, params []any, opts CaptureOptions, sendStack bool) (string, error)
	CaptureQuery(query string, level Level, engine string) (string, error)
	ResolvePublicID(internalID string) string
}

// Factory builds an API bound to dsn.
type Factory func(dsn string, opts Options) (API, error)

// Flusher is implemented by API values that buffer events.
type Flusher interface {
	Flush(timeout time.Duration) bool
}

// Closer is implemented by API values that hold resources until shutdown.
// Captures after Close fail with ErrClientClosed.
type Closer interface {
	Close(timeout time.Duration) bool
}

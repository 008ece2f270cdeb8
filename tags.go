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
	"fmt"
	"maps"
	"runtime"
	"slices"
)

const (
	// MaxMessageLength is the largest message, in bytes, CaptureMessage accepts.
	MaxMessageLength = 2048
	// MaxTagKeyLength is the longest default tag key, in bytes.
	MaxTagKeyLength = 32
	// MaxTagValueLength is the longest default tag value, in bytes.
	MaxTagValueLength = 200

	defaultLoggerName = "app"

	tagEnvironment    = "environment"
	tagRuntimeVersion = "runtime-version"
)

// checkTags rejects tags whose key or value exceeds the length limits. Only
// the client's default tags go through this check; per-call tags are passed
// to the SDK untouched.
func checkTags(tags map[string]string) error {
	for _, key := range slices.Sorted(maps.Keys(tags)) {
		if len(key) > MaxTagKeyLength {
			return fmt.Errorf("%w: tag key %q is longer than %d characters", ErrInvalidConfig, key, MaxTagKeyLength)
		}
		if value := tags[key]; len(value) > MaxTagValueLength {
			return fmt.Errorf("%w: value of tag %q is longer than %d characters", ErrInvalidConfig, key, MaxTagValueLength)
		}
	}
	return nil
}

// defaultSDKOptions are the options every SDK client starts from.
func defaultSDKOptions(environment string) SDKOptions {
	return SDKOptions{
		Logger: defaultLoggerName,
		Tags: map[string]string{
			tagEnvironment:    environment,
			tagRuntimeVersion: runtime.Version(),
		},
	}
}

// mergeSDKOptions overlays user on defaults. Non-zero user fields win and tags
// are merged key by key.
func mergeSDKOptions(defaults, user SDKOptions) SDKOptions {
	out := defaults
	out.Tags = maps.Clone(defaults.Tags)
	if out.Tags == nil {
		out.Tags = make(map[string]string, len(user.Tags))
	}
	maps.Copy(out.Tags, user.Tags)

	if user.Logger != "" {
		out.Logger = user.Logger
	}
	if user.Environment != "" {
		out.Environment = user.Environment
	}
	if user.Release != "" {
		out.Release = user.Release
	}
	if user.Dist != "" {
		out.Dist = user.Dist
	}
	if user.ServerName != "" {
		out.ServerName = user.ServerName
	}
	if user.SampleRate != 0 {
		out.SampleRate = user.SampleRate
	}
	if user.MaxBreadcrumbs != 0 {
		out.MaxBreadcrumbs = user.MaxBreadcrumbs
	}
	out.AttachStacktrace = out.AttachStacktrace || user.AttachStacktrace
	out.Debug = out.Debug || user.Debug
	return out
}

// mergeExtra returns the process-wide extra variables overlaid with the
// per-call extra data. Per-call keys win.
func mergeExtra(global, call map[string]any) map[string]any {
	if len(global) == 0 && len(call) == 0 {
		return call
	}
	out := make(map[string]any, len(global)+len(call))
	maps.Copy(out, global)
	maps.Copy(out, call)
	return out
}

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

import "github.com/lesha888/ecom-sentry/internal/sentrysdk"

// Level is the severity attached to a captured event.
type Level = sentrysdk.Level

const (
	LevelDebug   = sentrysdk.LevelDebug
	LevelInfo    = sentrysdk.LevelInfo
	LevelWarning = sentrysdk.LevelWarning
	LevelError   = sentrysdk.LevelError
	LevelFatal   = sentrysdk.LevelFatal
)

// CaptureOptions carries culprit, extra data, tags, logger name and context
// variables for a single capture call.
type CaptureOptions = sentrysdk.CaptureOptions

// SDKOptions is the passthrough configuration handed to the SDK.
type SDKOptions = sentrysdk.Options

// SDK is the remote error-tracking client the Client delegates to.
type SDK = sentrysdk.API

// SDKFactory constructs an SDK for a DSN. The default is the sentry-go backed
// implementation.
type SDKFactory = sentrysdk.Factory

// SDKFlusher is implemented by SDK values that buffer events.
type SDKFlusher = sentrysdk.Flusher

// SDKCloser is implemented by SDK values that release resources on shutdown.
type SDKCloser = sentrysdk.Closer

// DefaultSDKFactory builds SDK clients on github.com/getsentry/sentry-go.
var DefaultSDKFactory SDKFactory = sentrysdk.New

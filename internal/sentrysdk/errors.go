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

import "errors"

// ErrNilException indicates CaptureException was called without an error value.
var ErrNilException = errors.New("sentrysdk: exception is nil")

// ErrClientClosed indicates a capture was attempted after Close.
var ErrClientClosed = errors.New("sentrysdk: client closed")

// ErrSDKPanic indicates the underlying SDK panicked while building or sending
// an event. The recovered value is wrapped.
var ErrSDKPanic = errors.New("sentrysdk: sdk panicked")

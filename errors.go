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
	"errors"
	"fmt"
)

// ErrInvalidConfig marks configuration errors: an unresolvable client
// identifier or a default tag that exceeds the length limits. These are fatal
// and never retried.
var ErrInvalidConfig = errors.New("ecomsentry: invalid configuration")

// ErrInvalidParameter marks input rejected before any network interaction,
// such as a message longer than MaxMessageLength bytes.
var ErrInvalidParameter = errors.New("ecomsentry: invalid parameter")

// ErrCapture is matched by every *CaptureError.
var ErrCapture = errors.New("ecomsentry: capture failed")

// ErrClientInit is returned in production mode when the SDK client could not
// be constructed. The underlying cause is written to the client's logger.
var ErrClientInit = errors.New("ecomsentry: error tracker client initialization failed")

// ErrClientNotRegistered indicates a registry lookup for an unknown client ID.
var ErrClientNotRegistered = fmt.Errorf("%w: client not registered", ErrInvalidConfig)

// CaptureError reports a failure surfaced by the SDK during a capture call.
// In debug mode the SDK message is part of Error and the cause is reachable
// through errors.Unwrap; otherwise Error is generic and the cause is only
// available to the server-side log.
type CaptureError struct {
	Op      string
	verbose bool
	cause   error
}

func newCaptureError(op string, cause error, verbose bool) *CaptureError {
	return &CaptureError{Op: op, verbose: verbose, cause: cause}
}

// Error implements error.
func (e *CaptureError) Error() string {
	if e.verbose {
		return fmt.Sprintf("ecomsentry: %s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("ecomsentry: %s: error tracker unavailable", e.Op)
}

// Unwrap exposes the SDK error in debug mode only.
func (e *CaptureError) Unwrap() error {
	if e.verbose {
		return e.cause
	}
	return nil
}

// Is reports whether target is ErrCapture.
func (e *CaptureError) Is(target error) bool {
	return target == ErrCapture
}

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

package errorhandler

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

// FatalError is a process-level error synthesized for capture by
// BeforeRequest.
type FatalError struct {
	Message string
	Code    Severity
	File    string
	Line    int
}

// Error implements error.
func (e *FatalError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s in %s:%d", e.Code, e.Message, e.File, e.Line)
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
	Stack string
	File  string
	Line  int
}

// newPanicError must be called from the deferred function that recovered v.
func newPanicError(v any) *PanicError {
	stack, frame := captureStack()
	return &PanicError{Value: v, Stack: stack, File: frame.File, Line: frame.Line}
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// location returns the frame the error is attributed to.
func (e *PanicError) location() runtime.Frame {
	return runtime.Frame{File: e.File, Line: e.Line}
}

func (e *PanicError) culprit() string {
	if e.File == "" {
		return ""
	}
	return e.File + ":" + strconv.Itoa(e.Line)
}

// asPanicError reports whether err wraps a *PanicError.
func asPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}

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
	"fmt"
	"sync"
)

// Recorder holds the last process-level error. Background work records into
// it and the next request's BeforeRequest takes the error out.
type Recorder struct {
	mu   sync.Mutex
	last *FatalError
}

// DefaultRecorder is the process-wide Recorder used when a Handler is not
// given one.
var DefaultRecorder = &Recorder{}

// Record replaces the last recorded error.
func (r *Recorder) Record(err FatalError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &err
}

// Last returns the last recorded error without clearing it.
func (r *Recorder) Last() (FatalError, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return FatalError{}, false
	}
	return *r.last, true
}

// Take returns the last recorded error and clears it.
func (r *Recorder) Take() (FatalError, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return FatalError{}, false
	}
	err := *r.last
	r.last = nil
	return err, true
}

// RecordPanic records v as a fatal error located at the panicking frame. It
// must be called from the deferred function that recovered v.
func (r *Recorder) RecordPanic(v any) FatalError {
	_, frame := captureStack()
	err := FatalError{
		Message: fmt.Sprint(v),
		Code:    SeverityFatal,
		File:    frame.File,
		Line:    frame.Line,
	}
	r.Record(err)
	return err
}

// Recover records a panic of the calling goroutine and stops it from
// crashing the process:
//
//	go func() {
//		defer recorder.Recover()
//		work()
//	}()
func (r *Recorder) Recover() {
	if v := recover(); v != nil {
		r.RecordPanic(v)
	}
}

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
	"runtime"
	"strconv"
	"strings"
)

const maxStackFrames = 64

const (
	modulePrefix  = "github.com/lesha888/ecom-sentry."
	packagePrefix = "github.com/lesha888/ecom-sentry/errorhandler."
)

// stackTracer is implemented by errors that carry their own program
// counters, such as those created by github.com/pkg/errors.
type stackTracer interface {
	StackTrace() []uintptr
}

// skipInternalFrame reports whether a frame belongs to the runtime, log/slog
// or this module and should not be presented as the error location.
func skipInternalFrame(funcName string) bool {
	return strings.HasPrefix(funcName, "runtime.") ||
		strings.HasPrefix(funcName, "log/slog.") ||
		strings.HasPrefix(funcName, packagePrefix) ||
		strings.HasPrefix(funcName, modulePrefix)
}

// captureStack returns the current goroutine's stack without leading
// internal frames, and the first remaining frame.
func captureStack() (string, runtime.Frame) {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(1, pcs)
	if n == 0 {
		return "", runtime.Frame{}
	}
	pcs = trimStackPCs(pcs[:n], skipInternalFrame)

	top, _ := runtime.CallersFrames(pcs).Next()
	return formatPCs(pcs), top
}

// errorStack prefers the stack carried by err and falls back to the current one.
func errorStack(err error) (string, runtime.Frame) {
	var st stackTracer
	if errors.As(err, &st) {
		if pcs := st.StackTrace(); len(pcs) > 0 {
			if len(pcs) > maxStackFrames {
				pcs = pcs[:maxStackFrames]
			}
			top, _ := runtime.CallersFrames(pcs).Next()
			return formatPCs(pcs), top
		}
	}
	return captureStack()
}

// trimStackPCs drops leading frames matching skip. The input is returned
// unchanged when every frame would be dropped.
func trimStackPCs(pcs []uintptr, skip func(string) bool) []uintptr {
	frames := runtime.CallersFrames(pcs)
	n := 0
	for {
		frame, more := frames.Next()
		if !skip(frame.Function) {
			break
		}
		n++
		if !more {
			return pcs
		}
	}
	return pcs[n:]
}

// formatPCs renders pcs in the layout of runtime/debug.Stack.
func formatPCs(pcs []uintptr) string {
	if len(pcs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(pcs) * 64)
	sb.WriteString(goroutineHeader())
	sb.WriteByte('\n')

	var intBuf [20]byte
	frames := runtime.CallersFrames(pcs)
	for count := 0; count < maxStackFrames; {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if frame.Function != "" && frame.Function != "runtime.goexit" {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteByte(':')
			sb.Write(strconv.AppendInt(intBuf[:0], int64(frame.Line), 10))
			if frame.Entry != 0 && frame.PC > frame.Entry {
				sb.WriteString(" +0x")
				sb.Write(strconv.AppendUint(intBuf[:0], uint64(frame.PC-frame.Entry), 16))
			}
			sb.WriteByte('\n')
			count++
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func goroutineHeader() string {
	const fallback = "goroutine 0 [running]:"

	var buf [128]byte
	n := runtime.Stack(buf[:], false)
	header, _, _ := strings.Cut(string(buf[:n]), "\n")
	if header = strings.TrimSpace(header); header == "" {
		return fallback
	}
	return header
}

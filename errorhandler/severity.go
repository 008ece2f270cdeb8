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
	"strings"
)

// Severity classifies a recorded process-level error.
type Severity int

const (
	// SeverityFatal is an unrecoverable runtime failure, such as a panic that
	// escaped every handler.
	SeverityFatal Severity = iota + 1
	SeverityParse
	SeverityCoreError
	SeverityCoreWarning
	SeverityCompileError
	SeverityCompileWarning
	SeverityStrict
	// SeverityError is a recoverable error that was already handled locally.
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityDeprecated
)

var severityNames = [...]string{
	SeverityFatal:          "fatal error",
	SeverityParse:          "parse error",
	SeverityCoreError:      "core error",
	SeverityCoreWarning:    "core warning",
	SeverityCompileError:   "compile error",
	SeverityCompileWarning: "compile warning",
	SeverityStrict:         "strict standards",
	SeverityError:          "error",
	SeverityWarning:        "warning",
	SeverityNotice:         "notice",
	SeverityDeprecated:     "deprecated",
}

// Capturable reports whether BeforeRequest forwards errors of severity s.
func (s Severity) Capturable() bool {
	switch s {
	case SeverityFatal, SeverityParse, SeverityCoreError, SeverityCoreWarning,
		SeverityCompileError, SeverityCompileWarning, SeverityStrict:
		return true
	default:
		return false
	}
}

// String returns the severity name.
func (s Severity) String() string {
	if s > 0 && int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// ParseSeverity accepts the names returned by String.
func ParseSeverity(raw string) (Severity, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, name := range severityNames {
		if name != "" && name == raw {
			return Severity(i), true
		}
	}
	return 0, false
}

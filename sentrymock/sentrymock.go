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

// Package sentrymock provides an in-memory error-tracking SDK for tests. It
// records every capture call, hands out deterministic public identifiers and
// can be told to fail construction or individual calls.
//
//	mock := sentrymock.New()
//	client, err := ecomsentry.NewClient(
//		ecomsentry.WithDSN("https://key@example.invalid/1"),
//		ecomsentry.WithSDKFactory(mock.Factory()),
//	)
package sentrymock

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lesha888/ecom-sentry/internal/sentrysdk"
)

// Kind identifies which capture method produced a Call.
type Kind string

const (
	KindException Kind = "exception"
	KindMessage   Kind = "message"
	KindQuery     Kind = "query"
)

// Call is one recorded capture attempt, successful or not.
type Call struct {
	Kind       Kind
	Err        error
	Message    string
	Params     []any
	SendStack  bool
	Query      string
	Engine     string
	Level      sentrysdk.Level
	Options    sentrysdk.CaptureOptions
	InternalID string
	Failed     error
}

// SDK is a recording implementation of the SDK API.
type SDK struct {
	mu            sync.Mutex
	dsn           string
	options       sentrysdk.Options
	constructions int
	factoryErr    error
	calls         []Call
	failures      map[int]error
	failAll       error
}

var _ sentrysdk.API = (*SDK)(nil)

// New returns an empty mock.
func New() *SDK {
	return &SDK{failures: make(map[int]error)}
}

// Factory returns a constructor that hands out m itself.
func (m *SDK) Factory() sentrysdk.Factory {
	return func(dsn string, opts sentrysdk.Options) (sentrysdk.API, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.constructions++
		if m.factoryErr != nil {
			return nil, m.factoryErr
		}
		m.dsn = dsn
		m.options = opts
		return m, nil
	}
}

// FailFactory makes the next constructions fail with err.
func (m *SDK) FailFactory(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factoryErr = err
}

// FailCall makes the n-th capture call (1-based, across all kinds) fail with err.
func (m *SDK) FailCall(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[n] = err
}

// FailAll makes every subsequent capture call fail with err. A nil err clears it.
func (m *SDK) FailAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = err
}

// DSN returns the endpoint passed to the last successful construction.
func (m *SDK) DSN() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dsn
}

// Options returns the SDK options passed to the last successful construction.
func (m *SDK) Options() sentrysdk.Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options
}

// Constructions reports how many times the factory ran.
func (m *SDK) Constructions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.constructions
}

// Calls returns a copy of the recorded calls.
func (m *SDK) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CaptureException implements sentrysdk.API.
func (m *SDK) CaptureException(err error, opts sentrysdk.CaptureOptions) (string, error) {
	return m.record(Call{Kind: KindException, Err: err, Options: opts})
}

// CaptureMessage implements sentrysdk.API.
func (m *SDK) CaptureMessage(message string, params []any, opts sentrysdk.CaptureOptions, sendStack bool) (string, error) {
	return m.record(Call{Kind: KindMessage, Message: message, Params: params, Options: opts, SendStack: sendStack})
}

// CaptureQuery implements sentrysdk.API.
func (m *SDK) CaptureQuery(query string, level sentrysdk.Level, engine string) (string, error) {
	return m.record(Call{Kind: KindQuery, Query: query, Level: level, Engine: engine})
}

// ResolvePublicID strips the dashes from the internal UUID.
func (m *SDK) ResolvePublicID(internalID string) string {
	return strings.ReplaceAll(internalID, "-", "")
}

func (m *SDK) record(call Call) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.calls) + 1
	failure := m.failAll
	if err, ok := m.failures[n]; ok {
		failure = err
	}
	if failure != nil {
		call.Failed = failure
		m.calls = append(m.calls, call)
		return "", failure
	}

	call.InternalID = uuid.NewString()
	m.calls = append(m.calls, call)
	return call.InternalID, nil
}

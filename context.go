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

import "context"

type contextKey int

const clientContextKey contextKey = iota

// ContextWithClient returns a child context carrying client, typically a
// per-request Fork installed by middleware.
func ContextWithClient(ctx context.Context, client *Client) context.Context {
	if ctx == nil || client == nil {
		return ctx
	}
	return context.WithValue(ctx, clientContextKey, client)
}

// ClientFromContext returns the client stored by ContextWithClient.
func ClientFromContext(ctx context.Context) (*Client, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(clientContextKey).(*Client)
	return c, ok && c != nil
}

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
	"sync"
)

// Registry maps component identifiers to capture clients. Adapters resolve
// their client through it when they are not handed one directly.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register stores client under id, replacing any previous entry. A nil
// client removes the entry.
func (r *Registry) Register(id string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client == nil {
		delete(r.clients, id)
		return
	}
	if r.clients == nil {
		r.clients = make(map[string]*Client)
	}
	r.clients[id] = client
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[id]
	return ok
}

// Get returns the client registered under id.
func (r *Registry) Get(id string) (*Client, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Resolve returns the client registered under id, or an error wrapping
// ErrClientNotRegistered. An empty id resolves DefaultClientID.
func (r *Registry) Resolve(id string) (*Client, error) {
	if id == "" {
		id = DefaultClientID
	}
	c, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotRegistered, id)
	}
	return c, nil
}

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

package logtarget

import (
	"context"
	"log/slog"
	"sync"
)

const (
	// DefaultExportInterval is the number of buffered entries that triggers an export.
	DefaultExportInterval = 1000
	// DefaultCategory is used when an entry carries no category.
	DefaultCategory = "application"
)

type bufferConfig struct {
	level    slog.Leveler
	interval int
	category string
}

// BufferOption configures Handler and Hook.
type BufferOption func(*bufferConfig)

// WithLevel sets the minimum level that is buffered. It defaults to slog.LevelWarn.
func WithLevel(level slog.Leveler) BufferOption {
	return func(cfg *bufferConfig) {
		cfg.level = level
	}
}

// WithExportInterval sets how many entries accumulate before an export.
// Values below 1 export every entry immediately.
func WithExportInterval(n int) BufferOption {
	return func(cfg *bufferConfig) {
		cfg.interval = n
	}
}

// WithDefaultCategory sets the category of entries that do not name one.
func WithDefaultCategory(category string) BufferOption {
	return func(cfg *bufferConfig) {
		cfg.category = category
	}
}

func buildBufferConfig(opts []BufferOption) bufferConfig {
	cfg := bufferConfig{
		level:    slog.LevelWarn,
		interval: DefaultExportInterval,
		category: DefaultCategory,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.level == nil {
		cfg.level = slog.LevelWarn
	}
	if cfg.interval < 1 {
		cfg.interval = 1
	}
	return cfg
}

// buffer collects entries and hands full batches to a Target. The lock is
// held during export so batches leave in the order they were filled.
type buffer struct {
	target   *Target
	interval int

	mu      sync.Mutex
	entries []Entry
}

func newBuffer(target *Target, interval int) *buffer {
	return &buffer{target: target, interval: interval}
}

func (b *buffer) add(ctx context.Context, entry Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry)
	if len(b.entries) < b.interval {
		return nil
	}
	return b.exportLocked(ctx)
}

func (b *buffer) flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exportLocked(ctx)
}

func (b *buffer) pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// exportLocked empties the buffer before exporting; entries after a failed
// one are dropped with the batch.
//
// An interval of 1 exports each entry with the context it was logged under,
// so a request-scoped client keeps the event ID. Larger batches mix entries
// from unrelated calls and go to the target's own client, detached from the
// cancellation of whichever call filled the buffer.
func (b *buffer) exportLocked(ctx context.Context) error {
	if len(b.entries) == 0 {
		return nil
	}
	batch := b.entries
	b.entries = nil
	if b.interval == 1 {
		return b.target.Export(ctx, batch)
	}
	return b.target.exportWith(context.WithoutCancel(ctx), b.target.capturer, batch)
}

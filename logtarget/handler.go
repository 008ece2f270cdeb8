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
	"slices"
	"strings"
)

// Handler is a slog.Handler that buffers records for a Target. Handlers
// derived through WithAttrs and WithGroup share the parent's buffer.
//
// An entry's category is the value of its "category" attribute, falling back
// to the dot-joined group path and then to the default category.
//
// With an export interval of 1 each record is captured through the client
// carried by its context (see ecomsentry.ContextWithClient). Larger intervals
// batch records across calls, so batches are captured through the Target's
// own client and request-scoped ledgers never see them.
type Handler struct {
	buf      *buffer
	level    slog.Leveler
	fallback string
	category string
	groups   []string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler returns a Handler exporting through target.
func NewHandler(target *Target, opts ...BufferOption) *Handler {
	cfg := buildBufferConfig(opts)
	return &Handler{
		buf:      newBuffer(target, cfg.interval),
		level:    cfg.level,
		fallback: cfg.category,
	}
}

// Enabled reports whether level reaches the configured threshold.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle buffers r and exports the buffer once it is full. The export error,
// if any, is returned.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}
	category := h.category
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == TagCategory {
			category = a.Value.Resolve().String()
			return false
		}
		return true
	})

	return h.buf.add(ctx, Entry{
		Text:     r.Message,
		Level:    LevelName(r.Level),
		Category: h.resolveCategory(category),
		Time:     r.Time,
	})
}

func (h *Handler) resolveCategory(category string) string {
	if category != "" {
		return category
	}
	if len(h.groups) > 0 {
		return strings.Join(h.groups, ".")
	}
	return h.fallback
}

// WithAttrs records a "category" attribute; other attributes are not exported.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := h.clone()
	for _, a := range attrs {
		if a.Key == TagCategory {
			clone.category = a.Value.Resolve().String()
		}
	}
	return clone
}

// WithGroup extends the group path used as fallback category.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

// Flush exports whatever is buffered.
func (h *Handler) Flush(ctx context.Context) error {
	return h.buf.flush(ctx)
}

// Pending returns the number of buffered entries.
func (h *Handler) Pending() int {
	return h.buf.pending()
}

func (h *Handler) clone() *Handler {
	c := *h
	c.groups = slices.Clip(h.groups)
	return &c
}

// LevelName maps a slog level to the name recorded in the level extra field.
func LevelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "trace"
	}
}

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
	"fmt"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// Hook is a logrus.Hook that buffers entries for a Target. Request scoping
// follows the same rule as Handler, using the entry's context.
//
//	logger := logrus.New()
//	logger.AddHook(logtarget.NewHook(target))
type Hook struct {
	buf      *buffer
	levels   []logrus.Level
	category string
}

var _ logrus.Hook = (*Hook)(nil)

// NewHook returns a Hook exporting through target. The level option is
// mapped onto logrus levels.
func NewHook(target *Target, opts ...BufferOption) *Hook {
	cfg := buildBufferConfig(opts)
	threshold := cfg.level.Level()

	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if logrusToSlog(l) >= threshold {
			levels = append(levels, l)
		}
	}
	return &Hook{
		buf:      newBuffer(target, cfg.interval),
		levels:   levels,
		category: cfg.category,
	}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook. The "category" field selects the category.
func (h *Hook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}
	category := h.category
	if v, ok := entry.Data[TagCategory]; ok {
		if s := fmt.Sprint(v); s != "" {
			category = s
		}
	}
	return h.buf.add(ctx, Entry{
		Text:     entry.Message,
		Level:    entry.Level.String(),
		Category: category,
		Time:     entry.Time,
	})
}

// Flush exports whatever is buffered.
func (h *Hook) Flush(ctx context.Context) error {
	return h.buf.flush(ctx)
}

// Pending returns the number of buffered entries.
func (h *Hook) Pending() int {
	return h.buf.pending()
}

func logrusToSlog(level logrus.Level) slog.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return slog.LevelError + 4
	case logrus.ErrorLevel:
		return slog.LevelError
	case logrus.WarnLevel:
		return slog.LevelWarn
	case logrus.InfoLevel:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

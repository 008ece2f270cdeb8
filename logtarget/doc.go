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

// Package logtarget forwards buffered log entries to the error tracker.
//
// A Target exports each entry as one captured message, in order and
// synchronously. It owns no buffering policy: the host logging pipeline
// decides when to call Export. Handler (for log/slog) and Hook (for logrus)
// are such hosts. They buffer entries at or above a level and export them in
// batches.
//
//	client, _ := ecomsentry.NewClient(ecomsentry.WithDSN(dsn))
//	target, err := logtarget.New(logtarget.WithClient(client))
//	if err != nil {
//		return err
//	}
//	logger := slog.New(logtarget.NewHandler(target, logtarget.WithExportInterval(100)))
package logtarget

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

// Package ecomsentry forwards application errors, log messages and queries to
// a remote error-tracking service (Sentry). It is a thin layer over the
// vendor SDK: the SDK owns transport, serialization and delivery, while this
// package owns configuration, environment gating, size limits and the record
// of event IDs produced by a unit of work.
//
// The primary entry point is [NewClient]:
//
//	client, err := ecomsentry.NewClient(
//		ecomsentry.WithDSN(os.Getenv("SENTRY_DSN")),
//		ecomsentry.WithEnvironment("production"),
//		ecomsentry.WithLogger(slog.Default()),
//	)
//	if err != nil {
//		log.Fatalf("create capture client: %v", err)
//	}
//	id, err := client.CaptureException(ctx, err, ecomsentry.CaptureOptions{})
//
// Captures are silent no-ops returning an empty event ID when the client is
// disabled or its environment is not in the allow-list. SDK failures are
// always returned to the caller as a [*CaptureError]; in debug mode it
// carries the SDK message, in production it is generic and the SDK message
// is written to the injected logger.
//
// # Configuration
//
// [LoadConfig] layers defaults, an optional YAML file and ECOMSENTRY_*
// environment variables. [NewClient] applies the environment on top of the
// defaults and then the functional options such as [WithDSN],
// [WithEnvironment], [WithEnabledEnvironments], [WithDebug] and
// [WithSDKOptions].
//
// # Subpackages
//
//   - [github.com/lesha888/ecom-sentry/logtarget] exports buffered log
//     entries (from log/slog or logrus) as captured messages.
//   - [github.com/lesha888/ecom-sentry/errorhandler] captures handled
//     exceptions and recorded fatal errors from net/http and gRPC servers.
//   - [github.com/lesha888/ecom-sentry/sentrymock] is an in-memory SDK for
//     tests.
package ecomsentry

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

// Package errorhandler reports process-level errors and unhandled request
// errors to the error tracker.
//
// A Handler has two independent entry points:
//
//   - BeforeRequest runs at the start of every request. It takes the last
//     error recorded on the Recorder and, if its severity is fatal enough,
//     captures it as a *FatalError.
//   - LogException runs when an error reaches the top of the request
//     pipeline. It captures the error first and then hands it to the
//     default exception logger. A capture failure is returned and the
//     default logger does not run.
//
// Middleware and the gRPC interceptors drive both entry points and scope one
// event ID ledger to each request.
//
//	h, err := errorhandler.New(errorhandler.WithClient(client))
//	if err != nil {
//		return err
//	}
//	mux := http.NewServeMux()
//	srv := &http.Server{Handler: errorhandler.Middleware(h)(mux)}
package errorhandler

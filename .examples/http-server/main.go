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

// Command http-server wires the capture client, the error handler middleware
// and the log target into a small HTTP service.
//
// Configuration comes from ECOMSENTRY_* environment variables and, when
// ECOMSENTRY_CONFIG names a YAML file, from that file.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	ecomsentry "github.com/lesha888/ecom-sentry"
	"github.com/lesha888/ecom-sentry/errorhandler"
	"github.com/lesha888/ecom-sentry/logtarget"
)

// main starts the HTTP server example.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := ecomsentry.LoadConfig(os.Getenv("ECOMSENTRY_CONFIG"))
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	client, err := ecomsentry.NewClient(ecomsentry.WithConfig(cfg), ecomsentry.WithLogger(logger))
	if err != nil {
		log.Fatalf("create capture client: %v", err)
	}
	defer client.Close(2 * time.Second)

	srv, sink, err := newServer(client, logger)
	if err != nil {
		log.Fatalf("wire error handling: %v", err)
	}
	defer func() { _ = sink.Flush(context.Background()) }()

	if err := http.ListenAndServe(":8080", srv); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
	}
}

// newServer registers client under the default identifier and returns the
// instrumented handler together with the log sink feeding the error tracker.
func newServer(client *ecomsentry.Client, logger *slog.Logger) (http.Handler, *logtarget.Handler, error) {
	id := client.Config().ClientID
	reg := ecomsentry.NewRegistry()
	reg.Register(id, client)

	target, err := logtarget.New(logtarget.WithRegistry(reg, id), logtarget.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	sink := logtarget.NewHandler(target, logtarget.WithExportInterval(1))
	tracked := slog.New(sink).With(slog.String("category", "orders"))

	h, err := errorhandler.New(errorhandler.WithRegistry(reg, id), errorhandler.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "0" {
			panic("order 0 does not exist")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		tracked.WarnContext(r.Context(), "order rejected: payment declined")
		w.WriteHeader(http.StatusPaymentRequired)
	})
	return errorhandler.Middleware(h)(mux), sink, nil
}

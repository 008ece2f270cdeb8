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

package errorhandler

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ecomsentry "github.com/lesha888/ecom-sentry"
)

// reportedCodes are the status codes treated as unhandled server errors.
var reportedCodes = map[codes.Code]struct{}{
	codes.Unknown:  {},
	codes.Internal: {},
	codes.DataLoss: {},
}

// shouldReport reports whether err returned by a handler is an unhandled error.
func shouldReport(err error) bool {
	if err == nil {
		return false
	}
	_, ok := reportedCodes[status.Code(err)]
	return ok
}

// UnaryServerInterceptor runs BeforeRequest for every unary RPC and sends
// panics and Unknown, Internal or DataLoss errors to LogException. A
// recovered panic is answered with codes.Internal.
func UnaryServerInterceptor(h *Handler) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		ctx = h.rpcScope(ctx, info.FullMethod)
		defer h.recoverRPC(ctx, &err)

		resp, err = handler(ctx, req)
		h.reportRPC(ctx, err)
		return resp, err
	}
}

// StreamServerInterceptor is the streaming counterpart of UnaryServerInterceptor.
func StreamServerInterceptor(h *Handler) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		ctx := h.rpcScope(ss.Context(), info.FullMethod)
		defer h.recoverRPC(ctx, &err)

		err = handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
		h.reportRPC(ctx, err)
		return err
	}
}

// ServerOptions returns the interceptors together with the otelgrpc stats
// handler, which extracts incoming trace context so captured events carry
// trace tags.
func ServerOptions(h *Handler, opts ...MiddlewareOption) []grpc.ServerOption {
	cfg := applyMiddlewareOptions(opts)
	ecomsentry.EnsurePropagation()

	serverOpts := make([]grpc.ServerOption, 0, 3)
	if cfg.enableOTel {
		var otelOpts []otelgrpc.Option
		if cfg.tracerProvider != nil {
			otelOpts = append(otelOpts, otelgrpc.WithTracerProvider(cfg.tracerProvider))
		}
		serverOpts = append(serverOpts, grpc.StatsHandler(otelgrpc.NewServerHandler(otelOpts...)))
	}
	return append(serverOpts,
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(h)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(h)),
	)
}

// rpcScope forks the client into ctx, names the method as culprit and runs
// BeforeRequest.
func (h *Handler) rpcScope(ctx context.Context, method string) context.Context {
	ctx = h.scope(ctx)
	ctx = contextWithCulprit(ctx, func() string { return method })
	if err := h.BeforeRequest(ctx); err != nil {
		h.logger.ErrorContext(ctx, "recorded error capture failed", slog.Any("error", err))
	}
	return ctx
}

func (h *Handler) reportRPC(ctx context.Context, err error) {
	if !shouldReport(err) {
		return
	}
	if lerr := h.LogException(ctx, err); lerr != nil {
		h.logger.ErrorContext(ctx, "error capture failed", slog.Any("error", lerr))
	}
}

// recoverRPC must be deferred directly by the interceptor.
func (h *Handler) recoverRPC(ctx context.Context, errp *error) {
	v := recover()
	if v == nil {
		return
	}
	if lerr := h.LogException(ctx, newPanicError(v)); lerr != nil {
		h.logger.ErrorContext(ctx, "panic capture failed", slog.Any("error", lerr))
	}
	*errp = status.Error(codes.Internal, "internal error")
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the request-scoped context.
func (s *serverStream) Context() context.Context {
	return s.ctx
}

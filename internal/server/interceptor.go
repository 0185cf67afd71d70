package server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"github.com/izihawa/beetle/pkg/metrics"
)

// unaryObserver logs each RPC and records it in the request meters.
func unaryObserver(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(start)

		status := "ok"
		if err != nil {
			status = "error"
		}
		if m != nil {
			m.Observe(info.FullMethod, status, elapsed)
		}

		if err != nil {
			slog.Warn("rpc failed", "method", info.FullMethod, "duration", elapsed, "error", err)
		} else {
			slog.Debug("rpc served", "method", info.FullMethod, "duration", elapsed)
		}
		return resp, err
	}
}

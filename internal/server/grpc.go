package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"wozamali-core/internal/handler"
	"wozamali-core/pkg/logger"
)

// SettlementServiceName is the service name reported by the gRPC health
// service for the settlement API.
const SettlementServiceName = "wozamali.settlement"

// NewGRPCServer 初始化并注册 gRPC 服务 (health only)
func NewGRPCServer() (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	return s, hs
}

// WatchHealth probes the checks every interval and publishes the result
// under both the overall ("") and the settlement service name.
func WatchHealth(ctx context.Context, hs *health.Server, checks map[string]handler.Check, interval time.Duration) {
	probe := func() {
		status := healthpb.HealthCheckResponse_SERVING
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		for name, check := range checks {
			if err := check(pctx); err != nil {
				logger.Warn("dependency unhealthy", zap.String("dependency", name), zap.Error(err))
				status = healthpb.HealthCheckResponse_NOT_SERVING
			}
		}
		hs.SetServingStatus("", status)
		hs.SetServingStatus(SettlementServiceName, status)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			probe()
		}
	}
}

package grpcserver

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// checkedService names the service a health request asks about; "" is the
// whole server.
func checkedService(req any) (string, bool) {
	r, ok := req.(*healthpb.HealthCheckRequest)
	if !ok {
		return "", false
	}
	return r.GetService(), true
}

// LoggingUnary logs each check with the service it asked about and the
// reported status. Answered checks log at debug, failed ones at warn.
func LoggingUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("dur", time.Since(start)),
		}
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			fields = append(fields, zap.String("peer", p.Addr.String()))
		}
		if svc, ok := checkedService(req); ok {
			fields = append(fields, zap.String("service", svc))
		}
		if r, ok := resp.(*healthpb.HealthCheckResponse); ok {
			fields = append(fields, zap.String("status", r.GetStatus().String()))
		}

		lvl := zap.DebugLevel
		if code != codes.OK {
			lvl = zap.WarnLevel
		}
		log.Log(lvl, "health check", fields...)
		return resp, err
	}
}

// RecoverUnary turns a panicking check into codes.Internal so the health
// port keeps serving.
func RecoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				svc, _ := checkedService(req)
				log.Error("health check panic",
					zap.Any("reason", r),
					zap.String("method", info.FullMethod),
					zap.String("service", svc),
					zap.ByteString("stack", debug.Stack()),
				)
				err = status.Error(codes.Internal, "health check failed")
			}
		}()
		return next(ctx, req)
	}
}

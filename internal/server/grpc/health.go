// Package grpcserver serves the grpc.health.v1 service for the submission sink.
package grpcserver

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported for the sink.
const ServiceName = "signup.Sink"

// Health runs a gRPC server exposing only the health service.
type Health struct {
	srv *grpc.Server
	hs  *health.Server
}

// NewHealth builds the server; both "" and ServiceName report SERVING.
func NewHealth(log *zap.Logger) *Health {
	if log == nil {
		log = zap.NewNop()
	}
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoverUnary(log),
			LoggingUnary(log),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return &Health{srv: s, hs: hs}
}

// Serve blocks serving lis until Stop.
func (h *Health) Serve(lis net.Listener) error { return h.srv.Serve(lis) }

// SetServing flips the reported status of both names.
func (h *Health) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.hs.SetServingStatus("", st)
	h.hs.SetServingStatus(ServiceName, st)
}

// Stop reports NOT_SERVING and stops the server gracefully.
func (h *Health) Stop() {
	h.hs.Shutdown()
	h.srv.GracefulStop()
}

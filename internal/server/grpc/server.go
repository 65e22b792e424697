// Package grpc exposes the portal's gRPC health endpoint so orchestrators
// can probe the server without going through the HTTP API.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service key reported for the portal API.
const ServiceName = "rpportal.Portal"

// Pinger reports whether a dependency (the database) is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type GRPCServer struct {
	address   string
	logger    logging.Logger
	jwtSecret []byte
	db        Pinger
	health    *health.Server
}

func NewGRPCServer(a string, l logging.Logger, db Pinger, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		jwtSecret: []byte(secretKey),
		db:        db,
		health:    health.NewServer(),
	}
}

// Check refreshes the serving status of ServiceName from the database
// ping and returns it.
func (s *GRPCServer) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "database ping failed", "error", err)
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus(ServiceName, st)
	return st
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	)

	grpc_health_v1.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.Check(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

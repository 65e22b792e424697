package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/common"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationKey = "authorization"

// accessTokenInterceptor attaches the caller's actor when a bearer token is
// sent. Calls without one stay anonymous; a bad token is rejected.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}
	if header == "" {
		return handler(ctx, req)
	}

	token, ok := strings.CutPrefix(header, common.AuthorizationScheme+" ")
	if !ok || token == "" {
		return nil, status.Error(codes.Unauthenticated, "malformed authorization metadata")
	}

	actor, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(auth.WithActor(ctx, actor), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "grpc call",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

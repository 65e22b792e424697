package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/rpportal/internal/logging"
	"github.com/dmitrijs2005/rpportal/internal/roles"
	"github.com/dmitrijs2005/rpportal/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// helper to build server
func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", logging.Nop{}, nil, secret)
}

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func withAuthorization(value string) context.Context {
	md := metadata.New(map[string]string{authorizationKey: value})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_NoToken_StaysAnonymous(t *testing.T) {
	s := newTestServer("secret")

	handlerCalled := false
	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		if auth.ActorFromContext(ctx) != nil {
			t.Fatal("anonymous call should carry no actor")
		}
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, testInfo, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_MalformedHeader(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withAuthorization("Token abc"), nil, testInfo, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withAuthorization("Bearer not-a-valid-jwt"), nil, testInfo, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ValidToken_SetsActor(t *testing.T) {
	secret := "super-secret"
	s := newTestServer(secret)

	token, err := auth.GenerateToken(&auth.Actor{ID: "user-123", Role: roles.Admin}, []byte(secret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	var got *auth.Actor
	h := func(ctx context.Context, req any) (any, error) {
		got = auth.ActorFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.accessTokenInterceptor(withAuthorization("Bearer "+token), nil, testInfo, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "user-123" || got.Role != roles.Admin {
		t.Fatalf("actor not propagated in context: %+v", got)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newTestServer("secret")

	wantErr := status.Error(codes.NotFound, "nope")
	h := func(ctx context.Context, req any) (any, error) { return nil, wantErr }

	_, err := s.loggingInterceptor(context.Background(), nil, testInfo, h)
	if err != wantErr {
		t.Fatalf("expected handler error, got %v", err)
	}
}

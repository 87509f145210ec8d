package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/dmitrijs2005/swapdiary/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer() *GRPCServer {
	return NewGRPCServer("", logging.NewNop(), nil, nil, testSecret)
}

func TestInterceptor_PublicMethodSkipsToken(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: diaryrpc.FullMethod(diaryrpc.MethodLogin)}

	called := false
	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: diaryrpc.FullMethod(diaryrpc.MethodListEntries)}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_ExpiredToken(t *testing.T) {
	s := newTestServer()
	tok, err := auth.GenerateToken("u1", []byte(testSecret), -time.Second)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))
	info := &grpc.UnaryServerInfo{FullMethod: diaryrpc.FullMethod(diaryrpc.MethodGallery)}

	_, err = s.accessTokenInterceptor(ctx, nil, info, func(context.Context, any) (any, error) {
		t.Fatal("handler should not be called for expired token")
		return nil, nil
	})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_ValidTokenSetsUserID(t *testing.T) {
	s := newTestServer()
	tok, err := auth.GenerateToken("u1", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AccessTokenHeaderName, tok))
	info := &grpc.UnaryServerInfo{FullMethod: diaryrpc.FullMethod(diaryrpc.MethodDeleteEntry)}

	_, err = s.accessTokenInterceptor(ctx, nil, info, func(ctx context.Context, _ any) (any, error) {
		uid, err := userIDFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", uid)
		return nil, nil
	})
	require.NoError(t, err)
}

func TestLoggingInterceptor_MapsDomainErrors(t *testing.T) {
	s := newTestServer()
	info := &grpc.UnaryServerInfo{FullMethod: diaryrpc.FullMethod(diaryrpc.MethodDeleteEntry)}

	_, err := s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, common.ErrNotOwner
	})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = s.loggingInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, common.ErrQuery
	})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, err := userIDFromContext(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

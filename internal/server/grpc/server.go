// Package grpc exposes the diary over gRPC using the hand-written service
// description in diaryrpc.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/dmitrijs2005/swapdiary/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the account side used by the handlers.
type UserService interface {
	Register(ctx context.Context, r services.Registration) (*diary.Profile, error)
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context, userID string) (*diary.Profile, error)
	LinkPartner(ctx context.Context, userID, partnerID string) (*diary.Profile, error)
	SetAvatar(ctx context.Context, userID string, img diary.Image) (*diary.Profile, error)
}

// EntryStore is the diary backend plus its gallery view.
type EntryStore interface {
	diary.Store
	ListForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.Entry, error)
	GalleryForView(ctx context.Context, viewer diary.Profile, view diary.View) ([]diary.GalleryItem, error)
}

type GRPCServer struct {
	address   string
	users     UserService
	entries   EntryStore
	logger    logging.Logger
	jwtSecret []byte
	now       diary.Clock
}

func NewGRPCServer(a string, l logging.Logger, us UserService, es EntryStore, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		entries:   es,
		jwtSecret: []byte(secretKey),
		now:       time.Now,
	}
}

// newServer builds the grpc.Server with interceptors and the Diary service.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	diaryrpc.RegisterDiaryServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}

package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	timeout     time.Duration

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.mu.Unlock()
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, rotates the token pair once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if diaryrpc.Public(method) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	in, encErr := diaryrpc.Encode(diaryrpc.RefreshRequest{RefreshToken: refresh})
	if encErr != nil {
		return encErr
	}
	out := new(structpb.Struct)
	if rerr := invoker(ctx, diaryrpc.FullMethod(diaryrpc.MethodRefreshToken), in, out, cc, opts...); rerr != nil {
		return rerr
	}
	var pair diaryrpc.TokenPair
	if derr := diaryrpc.Decode(out, &pair); derr != nil {
		return derr
	}
	s.setTokens(pair.AccessToken, pair.RefreshToken)

	return invoker(withAccessToken(ctx, pair.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Each call is bounded by
// timeout; zero selects a default.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return mapError(diaryrpc.Invoke(ctx, s.conn, method, in, out))
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	var pong diaryrpc.Pong
	if err := s.invoke(ctx, diaryrpc.MethodPing, nil, &pong); err != nil {
		return err
	}
	if pong.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, req diaryrpc.RegisterRequest) (*diary.Profile, error) {
	var p diary.Profile
	if err := s.invoke(ctx, diaryrpc.MethodRegister, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GRPCClient) Login(ctx context.Context, userName, password string) error {
	var pair diaryrpc.TokenPair
	if err := s.invoke(ctx, diaryrpc.MethodLogin, diaryrpc.LoginRequest{Username: userName, Password: password}, &pair); err != nil {
		return err
	}
	s.setTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// Logout revokes the refresh token and forgets both tokens locally, even
// when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}
	err := s.invoke(ctx, diaryrpc.MethodLogout, diaryrpc.RefreshRequest{RefreshToken: refresh}, nil)
	s.setTokens("", "")
	return err
}

func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) Profile(ctx context.Context) (*diary.Profile, error) {
	var p diary.Profile
	if err := s.invoke(ctx, diaryrpc.MethodGetProfile, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GRPCClient) LinkPartner(ctx context.Context, partnerID string) (*diary.Profile, error) {
	var p diary.Profile
	if err := s.invoke(ctx, diaryrpc.MethodLinkPartner, diaryrpc.LinkPartnerRequest{PartnerID: partnerID}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GRPCClient) SetAvatar(ctx context.Context, img diary.Image) (*diary.Profile, error) {
	var p diary.Profile
	if err := s.invoke(ctx, diaryrpc.MethodSetAvatar, diaryrpc.ImageFromDiary(&img), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GRPCClient) ListEntries(ctx context.Context) (*diaryrpc.EntryList, error) {
	var list diaryrpc.EntryList
	if err := s.invoke(ctx, diaryrpc.MethodListEntries, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *GRPCClient) CreateEntry(ctx context.Context, d diary.Draft) (*diary.Entry, error) {
	req := diaryrpc.CreateEntryRequest{Title: d.Title, Body: d.Body, Mood: d.Mood, Image: diaryrpc.ImageFromDiary(d.Image)}
	var e diary.Entry
	if err := s.invoke(ctx, diaryrpc.MethodCreateEntry, req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, entryID string) error {
	return s.invoke(ctx, diaryrpc.MethodDeleteEntry, diaryrpc.DeleteEntryRequest{ID: entryID}, nil)
}

func (s *GRPCClient) Gallery(ctx context.Context) ([]diary.GalleryItem, error) {
	var g diaryrpc.GalleryList
	if err := s.invoke(ctx, diaryrpc.MethodGallery, nil, &g); err != nil {
		return nil, err
	}
	return g.Items, nil
}

// mapError keeps domain sentinels and marks query failures, including
// timeouts and dropped connections, as ErrUnavailable too.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrQuery) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

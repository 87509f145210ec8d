package grpc

import (
	"context"

	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/dmitrijs2005/swapdiary/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return diaryrpc.Encode(diaryrpc.Pong{Status: "OK"})
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req diaryrpc.RegisterRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}

	p, err := s.users.Register(ctx, services.Registration{
		UserName:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Role:        req.Role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return diaryrpc.Encode(p)
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req diaryrpc.LoginRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(diaryrpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *GRPCServer) RefreshToken(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req diaryrpc.RefreshRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(diaryrpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken})
}

func (s *GRPCServer) Logout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req diaryrpc.RefreshRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, err
	}
	return diaryrpc.Encode(nil)
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(p)
}

func (s *GRPCServer) LinkPartner(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req diaryrpc.LinkPartnerRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.users.LinkPartner(ctx, uid, req.PartnerID)
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(p)
}

func (s *GRPCServer) SetAvatar(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req diaryrpc.Image
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.users.SetAvatar(ctx, uid, *req.ToDiary())
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(p)
}

func (s *GRPCServer) ListEntries(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	view := diary.Resolve(p.Role, now)
	entries, err := s.entries.ListForView(ctx, *p, view)
	if err != nil {
		return nil, err
	}

	return diaryrpc.Encode(diaryrpc.EntryList{EffectiveRole: view.Effective, Swapped: view.Swapped, Entries: entries, ServerTime: now})
}

func (s *GRPCServer) CreateEntry(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	var req diaryrpc.CreateEntryRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}

	e, err := s.entries.Create(ctx, *p, diary.Draft{Title: req.Title, Body: req.Body, Mood: req.Mood, Image: req.Image.ToDiary()})
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(e)
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	uid, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var req diaryrpc.DeleteEntryRequest
	if err := diaryrpc.Decode(in, &req); err != nil {
		return nil, err
	}
	if err := s.entries.Delete(ctx, req.ID, uid); err != nil {
		return nil, err
	}
	return diaryrpc.Encode(nil)
}

func (s *GRPCServer) Gallery(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.viewer(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.entries.GalleryForView(ctx, *p, diary.Resolve(p.Role, s.now()))
	if err != nil {
		return nil, err
	}
	return diaryrpc.Encode(diaryrpc.GalleryList{Items: items})
}

// viewer loads the caller's profile fresh so partner links made elsewhere
// apply immediately.
func (s *GRPCServer) viewer(ctx context.Context) (*diary.Profile, error) {
	uid, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.users.Profile(ctx, uid)
}

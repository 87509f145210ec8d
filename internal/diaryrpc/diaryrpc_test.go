package diaryrpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestEncodeDecode_EntryList(t *testing.T) {
	created := time.Date(2026, 10, 2, 4, 0, 0, 0, time.UTC)
	want := EntryList{
		EffectiveRole: diary.RoleMitsuha,
		Swapped:       true,
		Entries: []diary.Entry{{
			ID: "e-1", AuthorID: "u-2", AuthorRole: diary.RoleMitsuha, Title: "t", Body: "b", Preview: "b",
			Mood: diary.MoodMoon, Date: "2", Weekday: "Fri", Month: "Oct", Time: "09:30", CreatedAt: created,
		}},
	}

	s, err := Encode(want)
	require.NoError(t, err)
	assert.Equal(t, "mitsuha", s.Fields["effectiveRole"].GetStringValue())

	var got EntryList
	require.NoError(t, Decode(s, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_ImageBytes(t *testing.T) {
	s, err := Encode(CreateEntryRequest{Title: "t", Body: "b", Image: &Image{ContentType: "image/png", Data: []byte{0, 1, 2}}})
	require.NoError(t, err)

	var back CreateEntryRequest
	require.NoError(t, Decode(s, &back))
	assert.Equal(t, []byte{0, 1, 2}, back.Image.Data)
	assert.Equal(t, &diary.Image{ContentType: "image/png", Data: []byte{0, 1, 2}}, back.Image.ToDiary())
}

func TestEncode_NilAndNonObject(t *testing.T) {
	s, err := Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Fields)

	_, err = Encode([]string{"not", "an", "object"})
	require.Error(t, err)
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: x", common.ErrValidation), codes.InvalidArgument},
		{common.ErrRoleRequired, codes.InvalidArgument},
		{common.ErrSelfPartner, codes.InvalidArgument},
		{common.ErrNotOwner, codes.PermissionDenied},
		{common.ErrNotFound, codes.NotFound},
		{common.ErrAlreadyExists, codes.AlreadyExists},
		{common.ErrTokenExpired, codes.Unauthenticated},
		{fmt.Errorf("%w: db", common.ErrQuery), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), tt.err.Error())
	}
}

func TestFromStatus(t *testing.T) {
	err := FromStatus(status.Error(codes.PermissionDenied, "not yours"))
	require.ErrorIs(t, err, common.ErrNotOwner)
	assert.Contains(t, err.Error(), "not yours")

	require.ErrorIs(t, FromStatus(status.Error(codes.Unavailable, "")), common.ErrQuery)

	plain := errors.New("plain")
	assert.Same(t, plain, FromStatus(plain))

	internal := status.Error(codes.Internal, "x")
	assert.Equal(t, internal, FromStatus(internal))
}

func TestPublic(t *testing.T) {
	assert.True(t, Public(FullMethod(MethodLogin)))
	assert.True(t, Public("/swapdiary.v1.Diary/Ping"))
	assert.False(t, Public(FullMethod(MethodListEntries)))
}

// echoServer answers Ping and fails every other call with NotFound.
type echoServer struct{ DiaryServer }

func (echoServer) Ping(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return Encode(Pong{Status: "OK " + in.Fields["who"].GetStringValue()})
}

func (echoServer) DeleteEntry(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, ToStatus(common.ErrNotFound)
}

func TestInvoke_OverBufconn(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterDiaryServer(srv, echoServer{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pong Pong
	require.NoError(t, Invoke(ctx, conn, MethodPing, map[string]string{"who": "taki"}, &pong))
	assert.Equal(t, "OK taki", pong.Status)

	err = Invoke(ctx, conn, MethodDeleteEntry, DeleteEntryRequest{ID: "x"}, nil)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDecode_ShapeMismatch(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"title": 42.0})
	require.NoError(t, err)

	var req CreateEntryRequest
	require.ErrorIs(t, Decode(s, &req), common.ErrValidation)
}

package client

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	list    *diaryrpc.EntryList
	err     error
	created []diary.Draft
	deleted []string
}

func (b *fakeBackend) ListEntries(context.Context) (*diaryrpc.EntryList, error) {
	return b.list, b.err
}

func (b *fakeBackend) CreateEntry(_ context.Context, d diary.Draft) (*diary.Entry, error) {
	b.created = append(b.created, d)
	return &diary.Entry{ID: "x", Title: d.Title}, nil
}

func (b *fakeBackend) DeleteEntry(_ context.Context, id string) error {
	b.deleted = append(b.deleted, id)
	return b.err
}

var owner = diary.Profile{ID: "u1", Role: diary.RoleTaki}

func TestRemoteStore_ListRecordsServerView(t *testing.T) {
	b := &fakeBackend{list: &diaryrpc.EntryList{EffectiveRole: diary.RoleMitsuha, Swapped: true, Entries: []diary.Entry{{ID: "a"}}}}
	s := NewRemoteStore(b, owner)

	_, ok := s.ServerView()
	assert.False(t, ok)

	entries, err := s.List(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	v, ok := s.ServerView()
	require.True(t, ok)
	assert.Equal(t, diary.View{Own: diary.RoleTaki, Effective: diary.RoleMitsuha, Swapped: true}, v)
}

func TestRemoteStore_ListErrorPassesThrough(t *testing.T) {
	s := NewRemoteStore(&fakeBackend{err: common.ErrQuery}, owner)
	_, err := s.List(context.Background(), owner)
	require.ErrorIs(t, err, common.ErrQuery)
}

func TestRemoteStore_RejectsForeignProfiles(t *testing.T) {
	b := &fakeBackend{}
	s := NewRemoteStore(b, owner)
	other := diary.Profile{ID: "u2", Role: diary.RoleMitsuha}

	_, err := s.List(context.Background(), other)
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = s.Create(context.Background(), other, diary.Draft{Title: "t", Body: "b"})
	require.ErrorIs(t, err, common.ErrValidation)

	require.ErrorIs(t, s.Delete(context.Background(), "e1", "u2"), common.ErrNotOwner)
	assert.Empty(t, b.deleted)
}

func TestRemoteStore_CreateValidatesLocally(t *testing.T) {
	b := &fakeBackend{}
	s := NewRemoteStore(b, owner)

	_, err := s.Create(context.Background(), owner, diary.Draft{Title: "", Body: "b"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, b.created)

	e, err := s.Create(context.Background(), owner, diary.Draft{Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, "t", e.Title)
	require.NoError(t, s.Delete(context.Background(), "x", owner.ID))
	assert.Equal(t, []string{"x"}, b.deleted)
}

func TestRemoteStore_NowFollowsServerClock(t *testing.T) {
	local := time.Date(2026, time.October, 2, 18, 0, 0, 0, time.UTC)
	server := local.Add(2 * time.Hour)
	b := &fakeBackend{list: &diaryrpc.EntryList{EffectiveRole: diary.RoleMitsuha, Swapped: true, ServerTime: server}}
	s := NewRemoteStore(b, owner, WithLocalClock(func() time.Time { return local }))

	assert.Equal(t, local, s.Now(), "no offset before the first listing")

	_, err := s.List(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, server.Equal(s.Now()))

	// a reply without a timestamp keeps the last known offset
	b.list = &diaryrpc.EntryList{EffectiveRole: diary.RoleMitsuha, Swapped: true}
	_, err = s.List(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, server.Equal(s.Now()))
}

// Package diarytest holds the behavioural checks every diary.Store backend
// must pass. Backend packages call RunStoreSuite from their own tests.
package diarytest

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clock is a settable clock shared by a store under test and the suite.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// EvenDay and OddDay are mid-morning instants in the diary zone.
var (
	EvenDay = time.Date(2026, time.October, 2, 4, 0, 0, 0, time.UTC)
	OddDay  = time.Date(2026, time.October, 15, 4, 0, 0, 0, time.UTC)
)

// Factory builds a fresh, empty store driven by clock.
type Factory func(t *testing.T, clock diary.Clock) diary.Store

var (
	taki     = diary.Profile{ID: "taki-1", DisplayName: "Taki", Role: diary.RoleTaki}
	mitsuha  = diary.Profile{ID: "mitsuha-1", DisplayName: "Mitsuha", Role: diary.RoleMitsuha}
	stranger = diary.Profile{ID: "mitsuha-2", DisplayName: "Other", Role: diary.RoleMitsuha}
)

// RunStoreSuite exercises the Store contract against a backend.
func RunStoreSuite(t *testing.T, newStore Factory) {
	t.Run("create then list round trip", func(t *testing.T) {
		clock := NewClock(EvenDay)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		body := strings.Repeat("b", diary.PreviewLength+10)
		created, err := s.Create(ctx, taki, diary.Draft{Title: "Station", Body: body, Mood: diary.MoodRain})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)

		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, created.ID, got[0].ID)
		assert.Equal(t, strings.Repeat("b", diary.PreviewLength)+"...", got[0].Preview)
		assert.Equal(t, body, got[0].Body)
		assert.Equal(t, diary.MoodRain, got[0].Mood)
		assert.Equal(t, "2", got[0].Date)
		assert.Equal(t, "Oct", got[0].Month)
	})

	t.Run("empty title or body is rejected", func(t *testing.T) {
		s := newStore(t, NewClock(EvenDay).Now)
		ctx := context.Background()

		_, err := s.Create(ctx, taki, diary.Draft{Title: "", Body: "x"})
		require.ErrorIs(t, err, common.ErrValidation)
		_, err = s.Create(ctx, taki, diary.Draft{Title: "x", Body: ""})
		require.ErrorIs(t, err, common.ErrValidation)

		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("newest first", func(t *testing.T) {
		clock := NewClock(EvenDay)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		for _, title := range []string{"first", "second", "third"} {
			_, err := s.Create(ctx, taki, diary.Draft{Title: title, Body: title})
			require.NoError(t, err)
			clock.Advance(time.Minute)
		}

		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "third", got[0].Title)
		assert.Equal(t, "second", got[1].Title)
		assert.Equal(t, "first", got[2].Title)
	})

	t.Run("author role is never the swapped role", func(t *testing.T) {
		s := newStore(t, NewClock(OddDay).Now)
		ctx := context.Background()

		created, err := s.Create(ctx, taki, diary.Draft{Title: "odd", Body: "day"})
		require.NoError(t, err)
		assert.Equal(t, diary.RoleTaki, created.AuthorRole)
		assert.Equal(t, taki.ID, created.AuthorID)

		// on the odd day taki views mitsuha's role, so the new page is hidden
		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		for _, e := range got {
			assert.NotEqual(t, created.ID, e.ID)
		}
	})

	t.Run("odd day without partner shows the other role", func(t *testing.T) {
		clock := NewClock(EvenDay)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		_, err := s.Create(ctx, taki, diary.Draft{Title: "mine", Body: "x"})
		require.NoError(t, err)
		_, err = s.Create(ctx, mitsuha, diary.Draft{Title: "hers", Body: "x"})
		require.NoError(t, err)
		_, err = s.Create(ctx, stranger, diary.Draft{Title: "someone else", Body: "x"})
		require.NoError(t, err)

		clock.Set(OddDay)
		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, e := range got {
			assert.Equal(t, diary.RoleMitsuha, e.AuthorRole)
		}
	})

	t.Run("odd day with partner shows only the partner", func(t *testing.T) {
		clock := NewClock(EvenDay)
		s := newStore(t, clock.Now)
		ctx := context.Background()

		_, err := s.Create(ctx, mitsuha, diary.Draft{Title: "hers", Body: "x"})
		require.NoError(t, err)
		_, err = s.Create(ctx, stranger, diary.Draft{Title: "someone else", Body: "x"})
		require.NoError(t, err)

		clock.Set(OddDay)
		linked := taki
		linked.PartnerID = mitsuha.ID
		got, err := s.List(ctx, linked)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "hers", got[0].Title)
	})

	t.Run("even day shows only own identity", func(t *testing.T) {
		s := newStore(t, NewClock(EvenDay).Now)
		ctx := context.Background()

		_, err := s.Create(ctx, mitsuha, diary.Draft{Title: "hers", Body: "x"})
		require.NoError(t, err)
		_, err = s.Create(ctx, stranger, diary.Draft{Title: "same role", Body: "x"})
		require.NoError(t, err)

		got, err := s.List(ctx, mitsuha)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "hers", got[0].Title)
	})

	t.Run("delete by non owner is refused", func(t *testing.T) {
		s := newStore(t, NewClock(EvenDay).Now)
		ctx := context.Background()

		created, err := s.Create(ctx, taki, diary.Draft{Title: "keep", Body: "x"})
		require.NoError(t, err)

		err = s.Delete(ctx, created.ID, mitsuha.ID)
		require.ErrorIs(t, err, common.ErrNotOwner)

		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, created.ID, got[0].ID)
	})

	t.Run("delete unknown entry", func(t *testing.T) {
		s := newStore(t, NewClock(EvenDay).Now)
		err := s.Delete(context.Background(), "does-not-exist", taki.ID)
		require.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("image entry create and delete", func(t *testing.T) {
		s := newStore(t, NewClock(EvenDay).Now)
		ctx := context.Background()

		img := &diary.Image{Name: "comet.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
		created, err := s.Create(ctx, taki, diary.Draft{Title: "sky", Body: "x", Image: img})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ImageRef)

		got, err := s.List(ctx, taki)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].HasImage())

		require.NoError(t, s.Delete(ctx, created.ID, taki.ID))

		got, err = s.List(ctx, taki)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

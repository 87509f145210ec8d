package diary

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// flipClock alternates between an even and an odd day on every read.
type flipClock struct {
	mu    sync.Mutex
	reads int
}

func (c *flipClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return istDay(2+c.reads%2, 6)
}

func newWatchedSession(t *testing.T, p Profile, clock *stepClock) (*SwapWatcher, *[]Notice) {
	t.Helper()
	s, err := NewSession(p, nil, clock.Now)
	require.NoError(t, err)

	var mu sync.Mutex
	notices := &[]Notice{}
	w := NewSwapWatcher(s, func(n Notice) {
		mu.Lock()
		*notices = append(*notices, n)
		mu.Unlock()
	}, logging.NewNop())
	return w, notices
}

func TestSwapWatcher_NoticeOnlyOnTransitions(t *testing.T) {
	clock := &stepClock{now: istDay(2, 6)}
	w, notices := newWatchedSession(t, Profile{ID: "u", Role: RoleTaki}, clock)
	ctx := context.Background()

	view, fired := w.Check(ctx)
	assert.False(t, view.Swapped)
	assert.False(t, fired, "even day on first render shows nothing")

	_, fired = w.Check(ctx)
	assert.False(t, fired)

	// midnight rollover in the diary zone
	clock.Set(istDay(2, 19))
	view, fired = w.Check(ctx)
	assert.True(t, view.Swapped)
	assert.True(t, fired)

	_, fired = w.Check(ctx)
	assert.False(t, fired, "unchanged state stays quiet")

	clock.Set(istDay(4, 6))
	view, fired = w.Check(ctx)
	assert.False(t, view.Swapped)
	assert.True(t, fired)

	require.Len(t, *notices, 2)
	assert.Equal(t, "It's an odd day. Viewing Mitsuha's diary.", (*notices)[0].Message)
	assert.Equal(t, "It's an even day. Back to your own diary (Taki).", (*notices)[1].Message)
}

func TestSwapWatcher_OddDayAtStartupNotifies(t *testing.T) {
	clock := &stepClock{now: istDay(15, 6)}
	w, notices := newWatchedSession(t, Profile{ID: "u", Role: RoleMitsuha, PartnerID: "p"}, clock)

	_, fired := w.Check(context.Background())
	assert.True(t, fired)
	require.Len(t, *notices, 1)
	assert.Equal(t, "It's an odd day. Viewing your partner's diary.", (*notices)[0].Message)
	assert.Equal(t, RoleTaki, (*notices)[0].View.Effective)
}

func TestSwapWatcher_RunStopsOnCancel(t *testing.T) {
	clock := &stepClock{now: istDay(3, 6)}
	w, _ := newWatchedSession(t, Profile{ID: "u", Role: RoleTaki}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestSwapWatcher_RunWhileProfileChanges(t *testing.T) {
	clock := &flipClock{}
	s, err := NewSession(Profile{ID: "u", Role: RoleTaki}, nil, clock.Now)
	require.NoError(t, err)

	var mu sync.Mutex
	var messages []string
	w := NewSwapWatcher(s, func(n Notice) {
		mu.Lock()
		messages = append(messages, n.Message)
		mu.Unlock()
	}, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, time.Millisecond)
		close(done)
	}()

	for i := 0; i < 200; i++ {
		s.LinkPartner(fmt.Sprintf("p-%d", i))
		s.SetAvatar(fmt.Sprintf("avatar-%d", i))
		_ = s.View()
		if i%20 == 0 {
			time.Sleep(time.Millisecond)
		}
	}
	time.Sleep(5 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "p-199", s.Profile().PartnerID)
	assert.Equal(t, "avatar-199", s.Profile().AvatarRef)

	mu.Lock()
	defer mu.Unlock()
	for _, m := range messages {
		assert.Contains(t, []string{
			"It's an odd day. Viewing Mitsuha's diary.",
			"It's an odd day. Viewing your partner's diary.",
			"It's an even day. Back to your own diary (Taki).",
		}, m)
	}
}

func TestSwapWatcher_ObserveUsesGivenView(t *testing.T) {
	clock := &stepClock{now: istDay(2, 6)}
	w, notices := newWatchedSession(t, Profile{ID: "u", Role: RoleTaki}, clock)
	ctx := context.Background()

	// the local clock says even, the supplied view says swapped
	assert.True(t, w.Observe(ctx, View{Own: RoleTaki, Effective: RoleMitsuha, Swapped: true}))
	assert.False(t, w.Observe(ctx, View{Own: RoleTaki, Effective: RoleMitsuha, Swapped: true}))

	_, fired := w.Check(ctx)
	assert.True(t, fired, "a later local check still reports its own transition")

	require.Len(t, *notices, 2)
	assert.Equal(t, "It's an odd day. Viewing Mitsuha's diary.", (*notices)[0].Message)
	assert.Equal(t, "It's an even day. Back to your own diary (Taki).", (*notices)[1].Message)
}

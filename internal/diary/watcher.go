package diary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/logging"
)

// DefaultCheckInterval is how often a running watcher re-evaluates the day,
// enough to notice a midnight rollover while the app stays open.
const DefaultCheckInterval = time.Minute

// Notice is raised once each time the swap state flips.
type Notice struct {
	View    View
	Message string
	At      time.Time
}

// SwapWatcher remembers the last rendered swap state for one session and
// raises a Notice only on transitions. The state before the first check
// counts as "not swapped", so opening the app on an odd day raises a notice
// and opening it on an even day does not.
type SwapWatcher struct {
	mu      sync.Mutex
	session *Session
	swapped bool
	notify  func(Notice)
	logger  logging.Logger
}

func NewSwapWatcher(s *Session, notify func(Notice), logger logging.Logger) *SwapWatcher {
	return &SwapWatcher{
		session: s,
		notify:  notify,
		logger:  logger.With("module", "swap_watcher"),
	}
}

// Check resolves today's view and raises a notice if the swap state differs
// from the previous check. It returns the view and whether a notice fired.
func (w *SwapWatcher) Check(ctx context.Context) (View, bool) {
	now := w.session.Now()
	view := Resolve(w.session.Profile().Role, now)
	return view, w.observe(ctx, view, now)
}

// Observe feeds a view resolved elsewhere, such as the one a server applied
// to a listing, through the same transition logic as Check.
func (w *SwapWatcher) Observe(ctx context.Context, view View) bool {
	return w.observe(ctx, view, w.session.Now())
}

func (w *SwapWatcher) observe(ctx context.Context, view View, at time.Time) bool {
	// held through notify so concurrent observers report transitions in order
	w.mu.Lock()
	defer w.mu.Unlock()

	if view.Swapped == w.swapped {
		return false
	}
	w.swapped = view.Swapped

	n := Notice{View: view, Message: noticeMessage(w.session.Profile(), view), At: at}
	w.logger.Info(ctx, "swap state changed", "swapped", view.Swapped, "effective_role", view.Effective)
	if w.notify != nil {
		w.notify(n)
	}
	return true
}

// Run re-checks every interval until ctx is done. Callers render the
// initial state with Check before starting it.
func (w *SwapWatcher) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func noticeMessage(p Profile, v View) string {
	if !v.Swapped {
		return fmt.Sprintf("It's an even day. Back to your own diary (%s).", v.Own.DisplayName())
	}
	whose := v.Effective.DisplayName()
	if p.HasPartner() {
		whose = "your partner"
	}
	return fmt.Sprintf("It's an odd day. Viewing %s's diary.", whose)
}

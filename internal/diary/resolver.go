package diary

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/swapdiary/internal/timex"
)

// Clock returns the current instant. Stores and watchers take one so tests
// can pin the calendar day.
type Clock func() time.Time

// View is the outcome of the day-parity rule for one viewer on one day.
type View struct {
	Own       Role
	Effective Role
	Swapped   bool
}

// ResolveEffectiveRole applies the body-swap rule: on an even day of the
// month (in the diary zone) the viewer sees their own role, on an odd day
// the other one. The host time zone of today is irrelevant.
func ResolveEffectiveRole(own Role, today time.Time) (Role, bool) {
	day := timex.InDiaryZone(today).Day()
	if day%2 == 0 {
		return own, false
	}
	return own.Other(), true
}

// Resolve wraps ResolveEffectiveRole into a View.
func Resolve(own Role, now time.Time) View {
	effective, swapped := ResolveEffectiveRole(own, now)
	return View{Own: own, Effective: effective, Swapped: swapped}
}

// UntilNextShift is the time left before the next midnight in the diary
// zone, when the swap state may flip.
func UntilNextShift(now time.Time) time.Duration {
	local := timex.InDiaryZone(now)
	next := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, timex.DiaryZone)
	return next.Sub(local)
}

// ShiftCountdown renders UntilNextShift as "Timeline shift in 3h 12m".
func ShiftCountdown(now time.Time) string {
	d := UntilNextShift(now)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("Timeline shift in %dh %dm", h, m)
}

package diary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istDay(day, hour int) time.Time {
	// built in UTC so the host zone never leaks in
	return time.Date(2026, time.October, day, hour, 0, 0, 0, time.UTC)
}

func TestOther_IsInvolutive(t *testing.T) {
	for _, r := range Roles {
		assert.NotEqual(t, r, r.Other())
		assert.Equal(t, r, r.Other().Other())
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Mitsuha ")
	require.NoError(t, err)
	assert.Equal(t, RoleMitsuha, r)

	_, err = ParseRole("tessie")
	require.Error(t, err)
}

func TestResolveEffectiveRole_DayParity(t *testing.T) {
	tests := []struct {
		name        string
		own         Role
		at          time.Time
		wantRole    Role
		wantSwapped bool
	}{
		{name: "taki even day", own: RoleTaki, at: istDay(2, 6), wantRole: RoleTaki},
		{name: "taki odd day", own: RoleTaki, at: istDay(3, 6), wantRole: RoleMitsuha, wantSwapped: true},
		{name: "mitsuha even day", own: RoleMitsuha, at: istDay(2, 6), wantRole: RoleMitsuha},
		{name: "mitsuha odd day", own: RoleMitsuha, at: istDay(15, 6), wantRole: RoleTaki, wantSwapped: true},
		// 19:00 UTC on the 2nd is 00:30 on the 3rd in UTC+5:30
		{name: "diary zone rolls over before UTC", own: RoleTaki, at: istDay(2, 19), wantRole: RoleMitsuha, wantSwapped: true},
		// 18:00 UTC on the 2nd is still 23:30 on the 2nd
		{name: "just before diary midnight", own: RoleTaki, at: istDay(2, 18), wantRole: RoleTaki},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, swapped := ResolveEffectiveRole(tt.own, tt.at)
			assert.Equal(t, tt.wantRole, role)
			assert.Equal(t, tt.wantSwapped, swapped)

			again, againSwapped := ResolveEffectiveRole(tt.own, tt.at)
			assert.Equal(t, role, again)
			assert.Equal(t, swapped, againSwapped)
		})
	}
}

func TestResolveEffectiveRole_IgnoresHostZone(t *testing.T) {
	at := istDay(3, 6)
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	r1, s1 := ResolveEffectiveRole(RoleTaki, at)
	r2, s2 := ResolveEffectiveRole(RoleTaki, at.In(ny))
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s2)
}

func TestUntilNextShift(t *testing.T) {
	// 12:00 UTC is 17:30 in the diary zone, 6h30m to midnight
	at := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 6*time.Hour+30*time.Minute, UntilNextShift(at))
	assert.Equal(t, "Timeline shift in 6h 30m", ShiftCountdown(at))
}

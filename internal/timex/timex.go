// Package timex provides the time helpers shared by config loading and the
// diary domain: a JSON-friendly duration and the diary's fixed time zone.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Diary dates are always computed in UTC+5:30, independent of the host zone.
const diaryZoneOffset = 5*60*60 + 30*60

// DiaryZone is the fixed zone all calendar labels and day parity use.
var DiaryZone = time.FixedZone("IST", diaryZoneOffset)

// InDiaryZone converts t to DiaryZone.
func InDiaryZone(t time.Time) time.Time {
	return t.In(DiaryZone)
}

// Duration wraps time.Duration so JSON can carry either "90s" style strings
// or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

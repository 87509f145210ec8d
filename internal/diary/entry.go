package diary

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/timex"
)

// PreviewLength is the number of body characters kept in Entry.Preview.
const PreviewLength = 60

// Moods offered by the editor. Any string is accepted; these drive MoodIcon.
const (
	MoodSun   = "sun"
	MoodCloud = "cloud"
	MoodRain  = "cloud-rain"
	MoodMoon  = "moon"
)

// DefaultMood is used when a draft carries no mood.
const DefaultMood = MoodSun

var (
	weekdayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	monthLabels   = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// Entry is one diary page. Display labels are derived from CreatedAt in the
// diary zone once, at creation, and stored as is.
type Entry struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_uid"`
	AuthorRole Role      `json:"author_role"`
	Title      string    `json:"title"`
	Body       string    `json:"full"`
	Preview    string    `json:"preview"`
	Mood       string    `json:"mood"`
	ImageRef   string    `json:"image,omitempty"`
	Date       string    `json:"date"`
	Weekday    string    `json:"day"`
	Month      string    `json:"month"`
	Time       string    `json:"time"`
	CreatedAt  time.Time `json:"-"`
}

type entryJSON Entry

// MarshalJSON stores CreatedAt as epoch milliseconds under "timestamp".
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		entryJSON
		Timestamp int64 `json:"timestamp"`
	}{entryJSON(e), e.CreatedAt.UnixMilli()})
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var aux struct {
		entryJSON
		Timestamp int64 `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*e = Entry(aux.entryJSON)
	e.CreatedAt = time.UnixMilli(aux.Timestamp).UTC()
	return nil
}

// HasImage reports whether the entry references a stored image.
func (e Entry) HasImage() bool {
	return e.ImageRef != ""
}

// Image is a raw picture attached to a draft.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// Draft carries the user-entered fields of a new entry.
type Draft struct {
	Title string
	Body  string
	Mood  string
	Image *Image
}

// Validate rejects drafts without a title or body.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if strings.TrimSpace(d.Body) == "" {
		return fmt.Errorf("%w: body is required", common.ErrValidation)
	}
	if d.Image != nil && len(d.Image.Data) == 0 {
		return fmt.Errorf("%w: image is empty", common.ErrValidation)
	}
	return nil
}

// NewEntry stamps a draft with the author's own identity and role. The role
// being viewed at the time plays no part.
func NewEntry(id string, author Profile, d Draft, createdAt time.Time, imageRef string) Entry {
	mood := d.Mood
	if mood == "" {
		mood = DefaultMood
	}

	e := Entry{
		ID:         id,
		AuthorID:   author.ID,
		AuthorRole: author.Role,
		Title:      d.Title,
		Body:       d.Body,
		Preview:    MakePreview(d.Body),
		Mood:       mood,
		ImageRef:   imageRef,
		CreatedAt:  createdAt,
	}
	e.Date, e.Weekday, e.Month, e.Time = DisplayLabels(createdAt)
	return e
}

// MakePreview keeps the first PreviewLength characters of body and appends
// "..." when something was cut.
func MakePreview(body string) string {
	if utf8.RuneCountInString(body) <= PreviewLength {
		return body
	}
	return string([]rune(body)[:PreviewLength]) + "..."
}

// DisplayLabels returns day of month, weekday, month and HH:MM of t in the
// diary zone.
func DisplayLabels(t time.Time) (date, weekday, month, clock string) {
	local := timex.InDiaryZone(t)
	date = strconv.Itoa(local.Day())
	weekday = weekdayLabels[local.Weekday()]
	month = monthLabels[local.Month()-1]
	clock = fmt.Sprintf("%02d:%02d", local.Hour(), local.Minute())
	return date, weekday, month, clock
}

// MoodIcon picks a display icon for a mood tag by substring match.
func MoodIcon(mood string) string {
	switch {
	case strings.Contains(mood, "rain"):
		return "cloud-rain"
	case strings.Contains(mood, "cloud"):
		return "cloud"
	case strings.Contains(mood, "moon"):
		return "moon"
	default:
		return "sun"
	}
}

// SortNewestFirst orders entries by CreatedAt descending, keeping the input
// order for equal timestamps.
func SortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}

// CalendarDays returns the distinct "Mon D" markers of entries, in the order
// they first appear.
func CalendarDays(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	days := make([]string, 0, len(entries))
	for _, e := range entries {
		key := e.Month + " " + e.Date
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, key)
	}
	return days
}

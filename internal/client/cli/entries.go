package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/swapdiary/internal/client/localstore"
	"github.com/dmitrijs2005/swapdiary/internal/diary"
	"github.com/dmitrijs2005/swapdiary/internal/filex"
	"github.com/dmitrijs2005/swapdiary/internal/netx"
)

// List re-checks the swap state, then prints the entries visible today.
// A failed query is reported as such and never shown as an empty diary.
// In a cloud session the notice follows the view the server filtered by.
func (a *App) List(ctx context.Context) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}

	a.mu.Lock()
	watcher := a.watcher
	remote := a.remote
	a.mu.Unlock()
	view := s.View()
	if watcher != nil && remote == nil {
		view, _ = watcher.Check(ctx)
	}

	entries, err := s.Entries(ctx)
	if err != nil {
		a.reportError("Could not list entries", err)
		return err
	}
	if remote != nil {
		if rv, ok := remote.ServerView(); ok {
			view = rv
			if watcher != nil {
				watcher.Observe(ctx, rv)
			}
		}
	}

	a.printf("== %s's diary%s ==\n", view.Effective.DisplayName(), swappedSuffix(view))
	if len(entries) == 0 {
		a.println("No entries yet.")
		return nil
	}
	for _, e := range entries {
		a.printf("[%s] %s %s %s %s  (%s) %s\n", e.ID, e.Weekday, e.Month, e.Date, e.Time, diary.MoodIcon(e.Mood), e.Title)
		a.printf("    %s\n", e.Preview)
		if e.HasImage() {
			a.println("    [picture]")
		}
	}
	a.printf("Days with entries: %s\n", strings.Join(diary.CalendarDays(entries), ", "))
	return nil
}

func swappedSuffix(v diary.View) string {
	if v.Swapped {
		return " (swapped)"
	}
	return ""
}

// Add prompts for a new entry. The author is always the session's own
// profile, whatever diary is shown today.
func (a *App) Add(ctx context.Context) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}

	title, err := getSimpleText(a.reader, "Title", a.writer())
	if err != nil {
		return err
	}
	body, err := getMultiline(a.reader, "What happened today?", a.writer())
	if err != nil {
		return err
	}
	mood, err := getSimpleText(a.reader, "Mood (sun, cloud, cloud-rain, moon; empty for sun)", a.writer())
	if err != nil {
		return err
	}
	picture, err := getSimpleText(a.reader, "Picture file (optional)", a.writer())
	if err != nil {
		return err
	}

	draft := diary.Draft{Title: title, Body: body, Mood: mood}
	if picture != "" {
		img, err := filex.ReadImage(picture)
		if err != nil {
			a.reportError("Could not attach picture", err)
			return err
		}
		draft.Image = img
	}

	e, err := s.Write(ctx, draft)
	if err != nil {
		a.reportError("Could not save entry", err)
		return err
	}
	a.printf("Saved entry %s\n", e.ID)
	return nil
}

// Delete removes one of the session's own entries.
func (a *App) Delete(ctx context.Context, args []string) error {
	s := a.currentSession()
	if s == nil {
		return nil
	}

	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		if id, err = getSimpleText(a.reader, "Entry ID", a.writer()); err != nil {
			return err
		}
	}

	if err := s.Remove(ctx, id); err != nil {
		a.reportError("Could not delete entry", err)
		return err
	}
	a.println("Deleted.")
	return nil
}

// Gallery lists the pictures visible today.
func (a *App) Gallery(ctx context.Context) error {
	items, err := a.galleryItems(ctx)
	if err != nil {
		a.reportError("Could not load gallery", err)
		return err
	}
	if len(items) == 0 {
		a.println("No pictures yet.")
		return nil
	}
	for _, it := range items {
		a.printf("[%s] %s\n", it.EntryID, it.CreatedAt.Format("2006-01-02 15:04"))
	}
	a.println("Use 'save <id> <file>' to download a picture.")
	return nil
}

func (a *App) galleryItems(ctx context.Context) ([]diary.GalleryItem, error) {
	s := a.currentSession()
	if s == nil {
		return nil, nil
	}
	if !s.Profile().IsGuest() {
		return a.api.Gallery(ctx)
	}
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return diary.Gallery(entries), nil
}

// Save writes the picture of a visible entry to a file.
func (a *App) Save(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: save <id> <file>")
		return nil
	}
	id, path := args[0], args[1]

	items, err := a.galleryItems(ctx)
	if err != nil {
		a.reportError("Could not load gallery", err)
		return err
	}

	var ref string
	for _, it := range items {
		if it.EntryID == id {
			ref = it.ImageRef
			break
		}
	}
	if ref == "" {
		a.println("No picture for that entry today.")
		return nil
	}

	data, err := fetchPicture(ctx, ref)
	if err != nil {
		a.printf("Could not download picture: %v\n", err)
		return err
	}
	if err := filex.WriteFile(path, data); err != nil {
		a.printf("Could not write %s: %v\n", path, err)
		return err
	}
	a.printf("Saved picture to %s\n", path)
	return nil
}

// fetchPicture resolves an image reference: inline data URLs for guest
// entries, presigned URLs for cloud ones.
func fetchPicture(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "data:") {
		_, data, err := localstore.DecodeDataURL(ref)
		return data, err
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, errors.New("picture is not reachable")
	}
	data, _, err := netx.DownloadPresignedURL(ctx, ref, filex.MaxImageBytes)
	return data, err
}

// Countdown prints the time left until the next possible swap.
func (a *App) Countdown(context.Context) error {
	a.println(diary.ShiftCountdown(a.now()))
	if s := a.currentSession(); s != nil {
		v := s.View()
		a.printf("Today you are writing as %s; %s's diary is shown.\n", s.Profile().Role.DisplayName(), v.Effective.DisplayName())
	}
	return nil
}

func describeProfile(p diary.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", p.DisplayName, p.Role.DisplayName())
	if p.Email != "" {
		fmt.Fprintf(&b, " <%s>", p.Email)
	}
	if p.HasPartner() {
		fmt.Fprintf(&b, ", partner %s", p.PartnerID)
	}
	return b.String()
}

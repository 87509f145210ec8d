package diary

// Filter selects which entries a viewer may list today. Exactly one of
// AuthorID or AuthorRole is set.
type Filter struct {
	AuthorID   string
	AuthorRole Role
}

// Coarse reports whether the filter falls back to matching by role alone.
// That happens only on a swapped day with no linked partner and may expose
// entries of unrelated accounts sharing the role.
func (f Filter) Coarse() bool {
	return f.AuthorID == ""
}

// Matches applies the filter to a single entry.
func (f Filter) Matches(e Entry) bool {
	if f.Coarse() {
		return e.AuthorRole == f.AuthorRole
	}
	return e.AuthorID == f.AuthorID
}

// FilterFor builds the visibility filter for viewer under view:
// own entries by identity when not swapped, the partner's entries by
// identity when swapped and linked, the effective role otherwise.
func FilterFor(viewer Profile, view View) Filter {
	if !view.Swapped {
		return Filter{AuthorID: viewer.ID}
	}
	if viewer.HasPartner() {
		return Filter{AuthorID: viewer.PartnerID}
	}
	return Filter{AuthorRole: view.Effective}
}

// Apply filters entries in place order.
func (f Filter) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

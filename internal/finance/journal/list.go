package journal

import (
	"sort"
	"strings"
	"time"
)

// ApplyFilter narrows and orders an entry list in memory. Free-text matches
// entry number, reference and description, case-insensitively.
func ApplyFilter(entries []Entry, f Filter) []Entry {
	out := make([]Entry, 0, len(entries))
	q := strings.ToLower(strings.TrimSpace(f.Query))
	for _, e := range entries {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.EntryNumber), q) &&
			!strings.Contains(strings.ToLower(e.Reference), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			continue
		}
		if f.Status != "" && e.Status() != f.Status {
			continue
		}
		if f.Source != "" && e.SourceType != f.Source {
			continue
		}
		out = append(out, e)
	}
	sortEntries(out, f.SortBy)
	return out
}

// sortEntries orders the list; ties fall back to newest id first so the
// ordering is stable across requests.
func sortEntries(entries []Entry, by string) {
	less := func(i, j int) bool {
		if entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].EntryDate.After(entries[j].EntryDate)
	}
	switch by {
	case "date_asc":
		less = func(i, j int) bool {
			if entries[i].EntryDate.Equal(entries[j].EntryDate) {
				return entries[i].ID < entries[j].ID
			}
			return entries[i].EntryDate.Before(entries[j].EntryDate)
		}
	case "number_desc":
		less = func(i, j int) bool {
			if entries[i].EntryNumber == entries[j].EntryNumber {
				return entries[i].ID > entries[j].ID
			}
			return entries[i].EntryNumber > entries[j].EntryNumber
		}
	case "amount_desc":
		less = func(i, j int) bool {
			if entries[i].TotalDebit == entries[j].TotalDebit {
				return entries[i].ID > entries[j].ID
			}
			return entries[i].TotalDebit > entries[j].TotalDebit
		}
	case "amount_asc":
		less = func(i, j int) bool {
			if entries[i].TotalDebit == entries[j].TotalDebit {
				return entries[i].ID < entries[j].ID
			}
			return entries[i].TotalDebit < entries[j].TotalDebit
		}
	}
	sort.SliceStable(entries, less)
}

// ComputeStats derives the dashboard counters. "This month" means the
// calendar month containing now, judged on PostedAt.
func ComputeStats(entries []Entry, now time.Time) Stats {
	st := Stats{Total: len(entries)}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for _, e := range entries {
		switch e.Status() {
		case StatusDraft:
			st.Drafts++
		case StatusPosted:
			if e.PostedAt != nil && !e.PostedAt.Before(monthStart) {
				st.PostedThisMonth++
				st.DebitsThisMonth += e.TotalDebit
			}
		}
	}
	return st
}

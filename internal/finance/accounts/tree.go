package accounts

import (
	"sort"
	"strings"
)

// rootKey groups accounts without a parent.
const rootKey int64 = 0

// Tree is the parent/child index of the chart of accounts.
type Tree struct {
	children map[int64][]Account
	byID     map[int64]Account
}

// NewTree builds the child index, each child list sorted by code.
func NewTree(all []Account) *Tree {
	t := &Tree{
		children: make(map[int64][]Account),
		byID:     make(map[int64]Account, len(all)),
	}
	for _, a := range all {
		t.byID[a.ID] = a
		key := rootKey
		if a.ParentID != nil {
			key = *a.ParentID
		}
		t.children[key] = append(t.children[key], a)
	}
	for _, list := range t.children {
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	}
	return t
}

// Children returns the direct children of an account, or the roots when id
// is zero.
func (t *Tree) Children(id int64) []Account {
	return t.children[id]
}

// IndentLevel walks the parent chain and returns the traversal depth. The
// parent graph is not guaranteed acyclic, so traversal tracks visited nodes
// and stops instead of looping.
func (t *Tree) IndentLevel(a Account) int {
	level := 0
	current := a
	visited := make(map[int64]bool)
	for current.ParentID != nil && !visited[*current.ParentID] {
		visited[*current.ParentID] = true
		parent, ok := t.byID[*current.ParentID]
		if !ok {
			break
		}
		current = parent
		level++
	}
	return level
}

// PossibleParents lists active accounts of the given type that could parent
// the account being edited. The account itself is excluded so it cannot be
// made its own parent.
func PossibleParents(all []Account, typeID, excludeID int64) []Account {
	out := make([]Account, 0)
	for _, a := range all {
		if a.TypeID != typeID || !a.IsActive {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// SortBy selects the in-group ordering for grouped listings.
type SortBy string

const (
	SortByCode    SortBy = "code"
	SortByName    SortBy = "name"
	SortByBalance SortBy = "balance"
)

// StatusFilter narrows listings by active state.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

// Filter captures the account listing controls.
type Filter struct {
	Query  string
	TypeID int64
	Status StatusFilter
	SortBy SortBy
}

// TypeGroup is one ordered bucket of the grouped listing.
type TypeGroup struct {
	Type     AccountType
	Accounts []Account
}

// GroupByType applies free-text search, type and status filters, then
// partitions accounts into one bucket per account type ordered by
// DisplayOrder. Balance sorting is descending; code and name ascending.
func GroupByType(all []Account, types []AccountType, f Filter) []TypeGroup {
	filtered := make([]Account, 0, len(all))
	query := strings.ToLower(strings.TrimSpace(f.Query))
	for _, a := range all {
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Code), query) &&
			!strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		if f.TypeID != 0 && a.TypeID != f.TypeID {
			continue
		}
		switch f.Status {
		case StatusActive:
			if !a.IsActive {
				continue
			}
		case StatusInactive:
			if a.IsActive {
				continue
			}
		}
		filtered = append(filtered, a)
	}

	byType := make(map[int64][]Account)
	for _, a := range filtered {
		byType[a.TypeID] = append(byType[a.TypeID], a)
	}

	ordered := append([]AccountType(nil), types...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].DisplayOrder < ordered[j].DisplayOrder })

	groups := make([]TypeGroup, 0, len(ordered))
	for _, t := range ordered {
		bucket := byType[t.ID]
		sortAccounts(bucket, f.SortBy)
		groups = append(groups, TypeGroup{Type: t, Accounts: bucket})
	}
	return groups
}

func sortAccounts(list []Account, by SortBy) {
	switch by {
	case SortByName:
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	case SortByBalance:
		sort.Slice(list, func(i, j int) bool { return list[i].CurrentBalance > list[j].CurrentBalance })
	default:
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	}
}

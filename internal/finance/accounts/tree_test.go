package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func testTypes() []AccountType {
	return []AccountType{
		{ID: 1, Name: TypeAsset, NormalBalance: NormalDebit, DisplayOrder: 1},
		{ID: 2, Name: TypeLiability, NormalBalance: NormalCredit, DisplayOrder: 2},
		{ID: 3, Name: TypeEquity, NormalBalance: NormalCredit, DisplayOrder: 3},
		{ID: 4, Name: TypeRevenue, NormalBalance: NormalCredit, DisplayOrder: 4},
		{ID: 5, Name: TypeExpense, NormalBalance: NormalDebit, DisplayOrder: 5},
	}
}

func TestTreeChildrenSortedByCode(t *testing.T) {
	accts := []Account{
		{ID: 1, Code: "1000", Name: "Cash", TypeID: 1, IsActive: true},
		{ID: 2, Code: "1200", Name: "AR", TypeID: 1, ParentID: ptr(1), IsActive: true},
		{ID: 3, Code: "1100", Name: "Bank", TypeID: 1, ParentID: ptr(1), IsActive: true},
	}
	tree := NewTree(accts)
	children := tree.Children(1)
	require.Len(t, children, 2)
	require.Equal(t, "1100", children[0].Code)
	require.Equal(t, "1200", children[1].Code)

	roots := tree.Children(0)
	require.Len(t, roots, 1)
	require.Equal(t, "1000", roots[0].Code)
}

func TestIndentLevelDepth(t *testing.T) {
	accts := []Account{
		{ID: 1, Code: "1000", TypeID: 1},
		{ID: 2, Code: "1100", TypeID: 1, ParentID: ptr(1)},
		{ID: 3, Code: "1110", TypeID: 1, ParentID: ptr(2)},
	}
	tree := NewTree(accts)
	require.Equal(t, 0, tree.IndentLevel(accts[0]))
	require.Equal(t, 1, tree.IndentLevel(accts[1]))
	require.Equal(t, 2, tree.IndentLevel(accts[2]))
}

func TestIndentLevelTerminatesOnCycle(t *testing.T) {
	// A -> B -> A corrupt parent chain must not loop forever.
	accts := []Account{
		{ID: 1, Code: "1000", TypeID: 1, ParentID: ptr(2)},
		{ID: 2, Code: "1100", TypeID: 1, ParentID: ptr(1)},
	}
	tree := NewTree(accts)
	level := tree.IndentLevel(accts[0])
	require.GreaterOrEqual(t, level, 0)
	require.LessOrEqual(t, level, len(accts))
}

func TestIndentLevelMissingParent(t *testing.T) {
	accts := []Account{{ID: 1, Code: "1000", TypeID: 1, ParentID: ptr(99)}}
	tree := NewTree(accts)
	require.Equal(t, 0, tree.IndentLevel(accts[0]))
}

func TestPossibleParentsExcludesSelfAndOtherTypes(t *testing.T) {
	accts := []Account{
		{ID: 1, Code: "1000", TypeID: 1, IsActive: true},
		{ID: 2, Code: "1100", TypeID: 1, IsActive: true},
		{ID: 3, Code: "2000", TypeID: 2, IsActive: true},
		{ID: 4, Code: "1200", TypeID: 1, IsActive: false},
	}
	parents := PossibleParents(accts, 1, 2)
	require.Len(t, parents, 1)
	require.Equal(t, int64(1), parents[0].ID)
}

func TestGroupByTypeFiltersAndOrder(t *testing.T) {
	accts := []Account{
		{ID: 1, Code: "1000", Name: "Cash", TypeID: 1, IsActive: true, CurrentBalance: 50},
		{ID: 2, Code: "1100", Name: "Bank", TypeID: 1, IsActive: true, CurrentBalance: 200},
		{ID: 3, Code: "2000", Name: "Payables", TypeID: 2, IsActive: true},
		{ID: 4, Code: "4000", Name: "Sales", TypeID: 4, IsActive: false, Description: "main revenue"},
	}
	types := testTypes()

	groups := GroupByType(accts, types, Filter{})
	require.Len(t, groups, 5)
	require.Equal(t, TypeAsset, groups[0].Type.Name)
	require.Len(t, groups[0].Accounts, 2)
	require.Equal(t, TypeExpense, groups[4].Type.Name)
	require.Empty(t, groups[4].Accounts)

	// Free-text search hits the description too.
	groups = GroupByType(accts, types, Filter{Query: "main revenue"})
	require.Len(t, groups[3].Accounts, 1)
	require.Equal(t, "4000", groups[3].Accounts[0].Code)

	// Status filter.
	groups = GroupByType(accts, types, Filter{Status: StatusInactive})
	total := 0
	for _, g := range groups {
		total += len(g.Accounts)
	}
	require.Equal(t, 1, total)

	// Balance sort is descending.
	groups = GroupByType(accts, types, Filter{SortBy: SortByBalance})
	require.Equal(t, "1100", groups[0].Accounts[0].Code)
	require.Equal(t, "1000", groups[0].Accounts[1].Code)
}

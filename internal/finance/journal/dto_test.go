package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLineInputNormalize(t *testing.T) {
	l := LineInput{AccountID: 1, Debit: 100, Credit: 40}.Normalize()
	require.Equal(t, 100.0, l.Debit)
	require.Zero(t, l.Credit)

	l = LineInput{AccountID: 1, Debit: 40, Credit: 100}.Normalize()
	require.Zero(t, l.Debit)
	require.Equal(t, 100.0, l.Credit)

	l = LineInput{AccountID: 1, Debit: -5, Credit: -5}.Normalize()
	require.Zero(t, l.Debit)
	require.Zero(t, l.Credit)
}

func TestLineInputCountable(t *testing.T) {
	require.False(t, LineInput{Debit: 100}.Countable())
	require.False(t, LineInput{AccountID: 1}.Countable())
	require.True(t, LineInput{AccountID: 1, Credit: 100}.Countable())
}

func TestDraftInputValidate(t *testing.T) {
	base := DraftInput{
		EntryDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Office rent",
		Lines: []LineInput{
			{AccountID: 1, Debit: 500},
			{AccountID: 2, Credit: 500},
		},
	}
	require.NoError(t, base.Validate())

	missing := base
	missing.Description = "   "
	require.ErrorIs(t, missing.Validate(), ErrMissingHeader)

	missing = base
	missing.EntryDate = time.Time{}
	require.ErrorIs(t, missing.Validate(), ErrMissingHeader)

	short := base
	short.Lines = []LineInput{{AccountID: 1, Debit: 500}, {Debit: 500}}
	require.ErrorIs(t, short.Validate(), ErrTooFewLines)
}

func TestDraftInputBalanced(t *testing.T) {
	in := DraftInput{
		EntryDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description: "Rent",
		Lines: []LineInput{
			{AccountID: 1, Debit: 500},
			{AccountID: 2, Credit: 500},
		},
	}
	require.True(t, in.Balanced())
	require.NoError(t, in.ValidateForPosting())

	in.Lines[1].Credit = 500.004
	require.True(t, in.Balanced(), "sub-epsilon drift still posts")

	in.Lines[1].Credit = 499
	require.False(t, in.Balanced())
	require.ErrorIs(t, in.ValidateForPosting(), ErrUnbalanced)

	zero := DraftInput{
		EntryDate:   in.EntryDate,
		Description: "Empty",
		Lines:       []LineInput{{AccountID: 1}, {AccountID: 2}},
	}
	require.False(t, zero.Balanced(), "all-zero lines never balance")
}

func TestDraftInputValidLinesKeepsOrder(t *testing.T) {
	in := DraftInput{Lines: []LineInput{
		{AccountID: 3, Credit: 10},
		{AccountID: 0, Debit: 99},
		{AccountID: 1, Debit: 10},
	}}
	lines := in.ValidLines()
	require.Len(t, lines, 2)
	require.Equal(t, int64(3), lines[0].AccountID)
	require.Equal(t, int64(1), lines[1].AccountID)
}

func TestEntryStatus(t *testing.T) {
	now := time.Now()
	require.Equal(t, StatusDraft, Entry{}.Status())
	require.Equal(t, StatusPosted, Entry{IsPosted: true}.Status())
	require.Equal(t, StatusVoided, Entry{IsPosted: true, VoidedAt: &now}.Status())
	require.True(t, Entry{IsPosted: true}.CountsForLedger())
	require.False(t, Entry{IsPosted: true, VoidedAt: &now}.CountsForLedger())
}

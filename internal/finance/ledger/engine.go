package ledger

import "sort"

// movement converts a line's debit/credit into the signed balance effect for
// the owning account: debit-normal accounts grow with debits, credit-normal
// with credits.
func movement(l PostedLine) float64 {
	if l.NormalBalance == "credit" {
		return l.Credit - l.Debit
	}
	return l.Debit - l.Credit
}

// sortLines fixes the display order: entry date ascending, then line order,
// then entry id so reposted same-day entries stay deterministic.
func sortLines(lines []PostedLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if a.EntryID != b.EntryID {
			return a.EntryID < b.EntryID
		}
		return a.LineOrder < b.LineOrder
	})
}

// BuildSingle renders the ledger for one account. The running balance starts
// at the account's opening balance and each line moves it per the account's
// normal-balance rule.
func BuildSingle(opening float64, lines []PostedLine) ([]Row, Summary) {
	sortLines(lines)
	rows := make([]Row, 0, len(lines))
	sum := Summary{OpeningBalance: opening}
	balance := opening
	for _, l := range lines {
		balance += movement(l)
		rows = append(rows, lineRow(l, balance))
		sum.TotalDebits += l.Debit
		sum.TotalCredits += l.Credit
	}
	sum.NetMovement = sum.TotalDebits - sum.TotalCredits
	sum.ClosingBalance = balance
	sum.LineCount = len(lines)
	return rows, sum
}

// BuildAll renders every account's ledger as consecutive sections ordered by
// account code, each introduced by a header row showing the account's opening
// balance. Each section's running balance starts from that opening balance.
func BuildAll(lines []PostedLine) ([]Row, Summary) {
	sortLines(lines)

	byAccount := map[int64][]PostedLine{}
	headers := map[int64]PostedLine{}
	for _, l := range lines {
		byAccount[l.AccountID] = append(byAccount[l.AccountID], l)
		headers[l.AccountID] = l
	}
	accountIDs := make([]int64, 0, len(byAccount))
	for id := range byAccount {
		accountIDs = append(accountIDs, id)
	}
	sort.Slice(accountIDs, func(i, j int) bool {
		return headers[accountIDs[i]].AccountCode < headers[accountIDs[j]].AccountCode
	})

	rows := make([]Row, 0, len(lines)+len(accountIDs))
	var sum Summary
	for _, id := range accountIDs {
		h := headers[id]
		rows = append(rows, Row{
			IsHeader:       true,
			AccountID:      id,
			AccountCode:    h.AccountCode,
			AccountName:    h.AccountName,
			RunningBalance: h.OpeningBalance,
		})
		balance := h.OpeningBalance
		for _, l := range byAccount[id] {
			balance += movement(l)
			rows = append(rows, lineRow(l, balance))
			sum.TotalDebits += l.Debit
			sum.TotalCredits += l.Credit
		}
	}
	sum.NetMovement = sum.TotalDebits - sum.TotalCredits
	sum.LineCount = len(lines)
	return rows, sum
}

func lineRow(l PostedLine, balance float64) Row {
	return Row{
		Date:           l.EntryDate,
		EntryID:        l.EntryID,
		EntryNumber:    l.EntryNumber,
		Reference:      l.Reference,
		Description:    l.Description,
		AccountID:      l.AccountID,
		AccountCode:    l.AccountCode,
		AccountName:    l.AccountName,
		Debit:          l.Debit,
		Credit:         l.Credit,
		RunningBalance: balance,
	}
}

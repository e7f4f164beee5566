package variance

import (
	"math"
	"sort"
)

// Compare matches current and previous amounts by account code and derives
// the change, percentage and direction per line and per section total.
func Compare(current, previous []Amount) Result {
	type pair struct {
		cur, prev Amount
		hasCur    bool
	}
	lookup := map[string]*pair{}
	var codes []string
	for _, a := range current {
		lookup[a.AccountCode] = &pair{cur: a, hasCur: true}
		codes = append(codes, a.AccountCode)
	}
	for _, a := range previous {
		p, ok := lookup[a.AccountCode]
		if !ok {
			lookup[a.AccountCode] = &pair{cur: Amount{AccountCode: a.AccountCode, AccountName: a.AccountName, Section: a.Section, Inverse: a.Inverse}, prev: a}
			codes = append(codes, a.AccountCode)
			continue
		}
		p.prev = a
	}
	sort.Strings(codes)

	var res Result
	type sectionSum struct {
		cur, prev float64
		inverse   bool
	}
	sections := map[string]*sectionSum{}
	var sectionOrder []string
	for _, code := range codes {
		p := lookup[code]
		line := diff(p.cur.AccountCode, p.cur.AccountName, p.cur.Section, p.cur.Inverse, p.cur.Amount, p.prev.Amount)
		if !p.hasCur {
			line.Current = 0
		}
		res.Lines = append(res.Lines, line)

		s, ok := sections[p.cur.Section]
		if !ok {
			s = &sectionSum{inverse: p.cur.Inverse}
			sections[p.cur.Section] = s
			sectionOrder = append(sectionOrder, p.cur.Section)
		}
		s.cur += p.cur.Amount
		s.prev += p.prev.Amount
	}
	sort.Strings(sectionOrder)
	for _, name := range sectionOrder {
		s := sections[name]
		res.Sections = append(res.Sections, diff("", "Total "+name, name, s.inverse, s.cur, s.prev))
	}
	return res
}

// diff applies the variance rules to one matched pair. Pct is undefined when
// the previous amount is zero; Favorable inverts for expense lines.
func diff(code, name, section string, inverse bool, cur, prev float64) Line {
	change := cur - prev
	line := Line{
		AccountCode: code,
		AccountName: name,
		Section:     section,
		Current:     cur,
		Previous:    prev,
		Change:      change,
	}
	if prev != 0 {
		line.Pct = change / math.Abs(prev) * 100
		line.HasPct = true
	}
	if inverse {
		line.Favorable = change < 0
	} else {
		line.Favorable = change > 0
	}
	return line
}

package rule

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// MaxCount is the largest neighbor count a set can hold. No topology comes
// close; the bound keeps expanded sets small.
const MaxCount = 1<<16 - 1

type interval struct{ lo, hi int }

// CountSet is an immutable set of non-negative neighbor counts stored as
// sorted, non-overlapping inclusive intervals.
type CountSet struct {
	spans []interval
}

// Counts builds a set from individual values. Values outside [0, MaxCount]
// are ignored.
func Counts(values ...int) CountSet {
	var b setBuilder
	for _, v := range values {
		if v >= 0 && v <= MaxCount {
			b.add(v, v)
		}
	}
	return b.build()
}

// Range builds the inclusive set [lo, hi] clipped to [0, MaxCount]. It is
// empty when lo > hi.
func Range(lo, hi int) CountSet {
	var b setBuilder
	lo = max(lo, 0)
	hi = min(hi, MaxCount)
	if lo <= hi {
		b.add(lo, hi)
	}
	return b.build()
}

// Union returns the set of values in either s or o.
func (s CountSet) Union(o CountSet) CountSet {
	var b setBuilder
	b.spans = append(append(b.spans, s.spans...), o.spans...)
	return b.build()
}

// Contains reports whether n is in the set.
func (s CountSet) Contains(n int) bool {
	for _, sp := range s.spans {
		if n < sp.lo {
			return false
		}
		if n <= sp.hi {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no members.
func (s CountSet) Empty() bool { return len(s.spans) == 0 }

// Len returns the number of members.
func (s CountSet) Len() int {
	n := 0
	for _, sp := range s.spans {
		n += sp.hi - sp.lo + 1
	}
	return n
}

// Counts expands the set into ascending values.
func (s CountSet) Counts() []int {
	out := make([]int, 0, s.Len())
	for _, sp := range s.spans {
		for v := sp.lo; v <= sp.hi; v++ {
			out = append(out, v)
		}
	}
	return out
}

// Table returns a lookup of length size where table[n] reports membership.
func (s CountSet) Table(size int) []bool {
	table := make([]bool, size)
	for _, sp := range s.spans {
		for v := sp.lo; v <= sp.hi && v < size; v++ {
			table[v] = true
		}
	}
	return table
}

// Equal reports whether both sets have the same members.
func (s CountSet) Equal(o CountSet) bool { return slices.Equal(s.spans, o.spans) }

// String renders the set canonically, e.g. "0-6,9".
func (s CountSet) String() string {
	parts := make([]string, 0, len(s.spans))
	for _, sp := range s.spans {
		if sp.lo == sp.hi {
			parts = append(parts, strconv.Itoa(sp.lo))
			continue
		}
		parts = append(parts, strconv.Itoa(sp.lo)+"-"+strconv.Itoa(sp.hi))
	}
	return strings.Join(parts, ",")
}

type setBuilder struct {
	spans []interval
}

func (b *setBuilder) add(lo, hi int) { b.spans = append(b.spans, interval{lo, hi}) }

// build sorts and merges overlapping or adjacent intervals.
func (b *setBuilder) build() CountSet {
	if len(b.spans) == 0 {
		return CountSet{}
	}
	spans := slices.Clone(b.spans)
	slices.SortFunc(spans, func(a, c interval) int { return cmp.Compare(a.lo, c.lo) })
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.lo <= last.hi+1 {
			if sp.hi > last.hi {
				last.hi = sp.hi
			}
			continue
		}
		merged = append(merged, sp)
	}
	return CountSet{spans: merged}
}

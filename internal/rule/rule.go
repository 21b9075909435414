// Package rule describes survival/birth/decay rules for the 3D automaton and
// parses them from the "survive/birth/states/neighborhood" text form.
package rule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Neighborhood selects which adjacent cells contribute to a neighbor count.
type Neighborhood byte

const (
	// Moore counts all 26 cells sharing a face, edge or corner. Written as "M".
	Moore Neighborhood = 'M'
	// VonNeumann counts the 6 cells sharing a face. Written as "N".
	VonNeumann Neighborhood = 'N'
)

// Known reports whether n is one of the supported topologies.
func (n Neighborhood) Known() bool { return n == Moore || n == VonNeumann }

// Size returns the number of candidate neighbors, or 0 for unknown tags.
func (n Neighborhood) Size() int {
	switch n {
	case Moore:
		return 26
	case VonNeumann:
		return 6
	default:
		return 0
	}
}

func (n Neighborhood) String() string {
	if n == 0 {
		return ""
	}
	return string(rune(n))
}

// MaxStateLimit is the highest state a uint8 cell can hold.
const MaxStateLimit = 255

var (
	ErrEmptySurvive = errors.New("survive set is empty")
	ErrEmptyBirth   = errors.New("birth set is empty")
	ErrMaxState     = errors.New("max state out of range")
	ErrNeighborhood = errors.New("unknown neighborhood")
)

// Spec is an immutable, parsed rule.
type Spec struct {
	survive CountSet
	birth   CountSet
	max     int
	nb      Neighborhood
	src     string
}

// New builds a Spec from its components. The result is not validated; use
// Validate or Usable before driving a session with it.
func New(survive, birth CountSet, maxState int, nb Neighborhood) Spec {
	return Spec{survive: survive, birth: birth, max: maxState, nb: nb}
}

// Survive returns the neighbor counts at which a state-1 cell stays alive.
func (s Spec) Survive() CountSet { return s.survive }

// Birth returns the neighbor counts at which a dead cell is born.
func (s Spec) Birth() CountSet { return s.birth }

// MaxState returns the state assigned to newborn cells.
func (s Spec) MaxState() int { return s.max }

// Neighborhood returns the counting topology.
func (s Spec) Neighborhood() Neighborhood { return s.nb }

// NumStates returns MaxState+1, the third field of the rule string.
func (s Spec) NumStates() int { return s.max + 1 }

// Validate reports why the spec cannot drive a running session.
func (s Spec) Validate() error {
	switch {
	case s.survive.Empty():
		return ErrEmptySurvive
	case s.birth.Empty():
		return ErrEmptyBirth
	case s.max < 1 || s.max > MaxStateLimit:
		return fmt.Errorf("%w: %d", ErrMaxState, s.max)
	case !s.nb.Known():
		return fmt.Errorf("%w: %q", ErrNeighborhood, s.nb.String())
	}
	return nil
}

// Usable reports whether spec may drive a running session.
func Usable(spec Spec) bool { return spec.Validate() == nil }

// String returns the text the spec was parsed from, or a canonical rendering
// for specs built with New.
func (s Spec) String() string {
	if s.src != "" {
		return s.src
	}
	var b strings.Builder
	b.WriteString(s.survive.String())
	b.WriteByte('/')
	b.WriteString(s.birth.String())
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(s.NumStates()))
	b.WriteByte('/')
	b.WriteString(s.nb.String())
	return b.String()
}

// Equal reports whether two specs describe the same rule, ignoring source text.
func (s Spec) Equal(o Spec) bool {
	return s.max == o.max && s.nb == o.nb && s.survive.Equal(o.survive) && s.birth.Equal(o.birth)
}

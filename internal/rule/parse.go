package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax is matched by every *ParseError via errors.Is.
var ErrSyntax = errors.New("malformed rule")

// ParseError reports why a rule string was rejected.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rule %q: %s", e.Input, e.Reason)
}

// Is lets errors.Is(err, ErrSyntax) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrSyntax }

var rulePattern = regexp.MustCompile(`^[0-9,-]+/[0-9,-]+/[0-9]+/[MN]+$`)

// Parse reads a rule of the form "survive/birth/numStates/neighborhood", for
// example "4/4/5/M" or "0-6,1,3/1,3/2/N". Only syntax is checked: a parsed
// Spec may still fail Validate (numStates of 0, for instance).
//
// Count tokens are single integers or inclusive ranges "A-B"; a range with
// A > B is rejected, as is any count above MaxCount. Only the first
// neighborhood letter is significant.
func Parse(text string) (Spec, error) {
	if !rulePattern.MatchString(text) {
		return Spec{}, &ParseError{Input: text, Reason: "does not match survive/birth/states/neighborhood"}
	}
	fields := strings.Split(text, "/")

	survive, err := parseCounts(fields[0])
	if err != nil {
		return Spec{}, &ParseError{Input: text, Reason: "survive: " + err.Error()}
	}
	birth, err := parseCounts(fields[1])
	if err != nil {
		return Spec{}, &ParseError{Input: text, Reason: "birth: " + err.Error()}
	}
	states, err := strconv.Atoi(fields[2])
	if err != nil || states > MaxStateLimit+1 {
		return Spec{}, &ParseError{Input: text, Reason: fmt.Sprintf("states: %q out of range", fields[2])}
	}

	return Spec{
		survive: survive,
		birth:   birth,
		max:     states - 1,
		nb:      Neighborhood(fields[3][0]),
		src:     text,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for presets and tests.
func MustParse(text string) Spec {
	spec, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return spec
}

func parseCounts(field string) (CountSet, error) {
	var b setBuilder
	for _, tok := range strings.Split(field, ",") {
		lo, hi, isRange := strings.Cut(tok, "-")
		a, err := parseCount(lo)
		if err != nil {
			return CountSet{}, fmt.Errorf("token %q: %w", tok, err)
		}
		if !isRange {
			b.add(a, a)
			continue
		}
		z, err := parseCount(hi)
		if err != nil {
			return CountSet{}, fmt.Errorf("token %q: %w", tok, err)
		}
		if a > z {
			return CountSet{}, fmt.Errorf("token %q: range start exceeds end", tok)
		}
		b.add(a, z)
	}
	return b.build(), nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty count")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errors.New("not a count")
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > MaxCount {
		return 0, fmt.Errorf("count exceeds %d", MaxCount)
	}
	return v, nil
}

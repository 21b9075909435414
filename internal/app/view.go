package app

import "cube-ca/internal/core"

// pickCell maps a cursor position on the slice view to the cell under it.
func pickCell(mx, my, scale, n, z int) (core.Seed, bool) {
	if scale <= 0 || mx < 0 || my < 0 {
		return core.Seed{}, false
	}
	s := core.Seed{X: mx / scale, Y: my / scale, Z: z}
	return s, s.In(n)
}

// clampSlice keeps z inside [0, n).
func clampSlice(z, n int) int {
	if z < 0 {
		return 0
	}
	if z >= n {
		return n - 1
	}
	return z
}

// presetForKey returns the preset bound to the 1-based digit key.
func presetForKey(names []string, digit int) (string, bool) {
	if digit < 1 || digit > len(names) {
		return "", false
	}
	return names[digit-1], true
}

// ruleField is the line editor used to type a rule while editing. It only
// accepts characters that can appear in a rule.
type ruleField struct {
	active bool
	buf    []rune
}

func (f *ruleField) begin(current string) {
	f.active = true
	f.buf = append(f.buf[:0], []rune(current)...)
}

func (f *ruleField) cancel() {
	f.active = false
	f.buf = f.buf[:0]
}

func (f *ruleField) insert(chars []rune) {
	for _, r := range chars {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '-', r == '/':
			f.buf = append(f.buf, r)
		case r == 'm' || r == 'M':
			f.buf = append(f.buf, 'M')
		case r == 'n' || r == 'N':
			f.buf = append(f.buf, 'N')
		}
	}
}

func (f *ruleField) backspace() {
	if len(f.buf) > 0 {
		f.buf = f.buf[:len(f.buf)-1]
	}
}

func (f *ruleField) text() string { return string(f.buf) }

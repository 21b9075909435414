// Package seedfile reads and writes seed lists as plain text, one "x y z"
// triple per line.
package seedfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"cube-ca/internal/core"
)

// Load reads seeds from r. Lines that do not hold exactly three integers, or
// whose coordinates fall outside [0, gridSize), are skipped. Duplicate seeds
// keep their first position. Only read errors are returned.
func Load(r io.Reader, gridSize int) ([]core.Seed, error) {
	var seeds []core.Seed
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s, ok := parseLine(sc.Text())
		if !ok || !s.In(gridSize) {
			continue
		}
		seeds = append(seeds, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("seedfile: %w", err)
	}
	return core.DedupeSeeds(seeds), nil
}

func parseLine(line string) (core.Seed, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return core.Seed{}, false
	}
	var v [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return core.Seed{}, false
		}
		v[i] = n
	}
	return core.Seed{X: v[0], Y: v[1], Z: v[2]}, true
}

// Save writes one "x y z" line per seed.
func Save(w io.Writer, seeds []core.Seed) error {
	bw := bufio.NewWriter(w)
	for _, s := range seeds {
		if _, err := bw.WriteString(s.String() + "\n"); err != nil {
			return fmt.Errorf("seedfile: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("seedfile: %w", err)
	}
	return nil
}

// LoadFile is Load on the named file.
func LoadFile(path string, gridSize int) ([]core.Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seedfile: %w", err)
	}
	defer f.Close()
	return Load(f, gridSize)
}

// SaveFile writes seeds to the named file, replacing it.
func SaveFile(path string, seeds []core.Seed) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("seedfile: %w", err)
	}
	if err := Save(f, seeds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Package geo groups records by the region of their institution.
package geo

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/combine/internal/domain/model"
)

// ErrParseRegions marks a malformed region lookup document.
var ErrParseRegions = errors.New("parse region lookup failed")

//go:embed regions.yaml
var defaultRegions []byte

// Lookup maps an institution, exactly as stored, to a region code.
type Lookup map[string]string

// RegionCount is one row of the aggregation.
type RegionCount struct {
	Region string
	Count  int
}

// Default returns the built-in institution to state lookup.
func Default() Lookup {
	l, err := ParseLookup(strings.NewReader(string(defaultRegions)))
	if err != nil {
		panic("embedded regions.yaml: " + err.Error())
	}
	return l
}

// ParseLookup reads a YAML mapping of institution to region.
// Blank keys or values are skipped.
func ParseLookup(r io.Reader) (Lookup, error) {
	raw := map[string]string{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrParseRegions, err)
	}
	out := make(Lookup, len(raw))
	for inst, region := range raw {
		inst, region = strings.TrimSpace(inst), strings.TrimSpace(region)
		if inst == "" || region == "" {
			continue
		}
		out[inst] = region
	}
	return out, nil
}

// LoadLookup reads a lookup file, or returns Default when path is empty.
func LoadLookup(path string) (Lookup, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseRegions, err)
	}
	defer func() { _ = f.Close() }()
	return ParseLookup(f)
}

// Aggregate counts records per mapped region. Records whose institution has no
// entry are dropped silently.
func Aggregate(subset []model.Record, lookup Lookup) map[string]int {
	out := make(map[string]int)
	for i := range subset {
		region, ok := lookup[subset[i].Institution]
		if !ok {
			continue
		}
		out[region]++
	}
	return out
}

// Sorted returns the aggregation ordered by region code.
func Sorted(counts map[string]int) []RegionCount {
	out := make([]RegionCount, 0, len(counts))
	for region, n := range counts {
		out = append(out, RegionCount{Region: region, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

// Package stations provides the CSV-backed station registry used to
// resolve station names to coordinates and aliases. The engine itself
// never looks up stations; callers use this to feed coordinate-based
// collaborators (weather, maps) and pass the results through.
package stations

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Station is one row of the stations file.
type Station struct {
	Name      string
	Latitude  float64
	Longitude float64
	// Aliases are the alternate spellings the providers use for the same
	// station, pipe-separated in the CSV.
	Aliases []string
}

// Index holds the loaded registry keyed by lowercase name and alias.
type Index struct {
	byName map[string]*Station
	all    []*Station
}

// LoadFile reads a stations CSV from disk. Expected columns:
// name,lat,lon,aliases with a header row; the aliases column may hold
// several names separated by "|".
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stations: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load reads a stations CSV from r. Rows with missing or unparsable
// coordinates are skipped: the file is community-maintained and partial
// data must not block startup.
func Load(r io.Reader) (*Index, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idx := &Index{byName: map[string]*Station{}}
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stations: read csv: %w", err)
		}
		if first {
			first = false
			continue
		}
		if len(row) < 3 {
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		st := &Station{
			Name:      strings.TrimSpace(row[0]),
			Latitude:  lat,
			Longitude: lon,
		}
		if len(row) > 3 {
			for _, a := range strings.Split(row[3], "|") {
				if a = strings.TrimSpace(a); a != "" {
					st.Aliases = append(st.Aliases, a)
				}
			}
		}

		idx.all = append(idx.all, st)
		idx.byName[strings.ToLower(st.Name)] = st
		for _, a := range st.Aliases {
			idx.byName[strings.ToLower(a)] = st
		}
	}
	return idx, nil
}

// Lookup resolves a station by name or alias, case-insensitively.
func (idx *Index) Lookup(name string) (*Station, bool) {
	st, ok := idx.byName[strings.ToLower(strings.TrimSpace(name))]
	return st, ok
}

// Names returns every alternate name known for a station, including the
// canonical one, or nil when the station is unknown.
func (idx *Index) Names(name string) []string {
	st, ok := idx.Lookup(name)
	if !ok {
		return nil
	}
	names := make([]string, 0, 1+len(st.Aliases))
	names = append(names, st.Name)
	names = append(names, st.Aliases...)
	return names
}

// Len returns the number of loaded stations.
func (idx *Index) Len() int { return len(idx.all) }

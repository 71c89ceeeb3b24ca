package geocode

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/appraisal-comps/internal/appraisal"
	"github.com/appraisal-comps/internal/normalize"
)

// Coordinate is one geocoding result.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Cache maps normalized addresses to coordinates. A key mapped to nil means
// the geocoder was asked and found nothing; the address still counts as
// geocoded and is not re-requested.
type Cache struct {
	entries map[string]*Coordinate
}

// LoadCache reads the geocode cache file. A missing file yields an empty
// cache, meaning every address needs geocoding.
func LoadCache(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Cache{entries: make(map[string]*Coordinate)}, nil
		}
		return nil, fmt.Errorf("failed to read geocode cache %s: %w", path, err)
	}

	entries := make(map[string]*Coordinate)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse geocode cache %s: %w", path, err)
	}
	return &Cache{entries: entries}, nil
}

// Has reports whether the normalized address has been geocoded, null results
// included.
func (c *Cache) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Lookup returns the coordinate for a raw address, normalizing it first.
func (c *Cache) Lookup(raw string) (*Coordinate, bool) {
	coord, ok := c.entries[normalize.AddressKey(raw)]
	return coord, ok
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Missing returns the sorted set of normalized addresses in the dataset that
// the cache has no entry for. An empty result means geocoding can be
// skipped.
func (c *Cache) Missing(ds *appraisal.Dataset) []string {
	needed := make(map[string]bool)
	add := func(raw string) {
		if key := normalize.AddressKey(raw); key != "" {
			needed[key] = true
		}
	}

	for _, a := range ds.Appraisals {
		add(a.Subject.Address)
		for _, comp := range a.Comps {
			add(comp.Address)
		}
		for _, prop := range a.Properties {
			add(prop.Address)
		}
	}

	var missing []string
	for key := range needed {
		if !c.Has(key) {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// WriteMissing writes the missing-address set as a JSON array for the
// external geocoder to consume.
func WriteMissing(path string, missing []string) error {
	data, err := json.MarshalIndent(missing, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode missing addresses: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write missing addresses %s: %w", path, err)
	}
	return nil
}

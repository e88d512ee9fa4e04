package glyph

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// WeightedID is one entry of an item catalog.
type WeightedID struct {
	ID     string `toml:"id" json:"id"`
	Weight int    `toml:"weight" json:"weight"`
}

// Catalog is an immutable weighted list of symbolic ids. Entries with
// weight 0 are kept (they still show up in the legend) but are never
// picked.
type Catalog struct {
	entries    []WeightedID
	cumulative []int
	total      int
}

// NewCatalog builds a catalog. It fails on negative weights or when no
// entry has a positive weight.
func NewCatalog(entries []WeightedID) (*Catalog, error) {
	c := &Catalog{
		entries:    append([]WeightedID(nil), entries...),
		cumulative: make([]int, len(entries)),
	}
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if e.Weight < 0 {
			return nil, fmt.Errorf("catalog entry %q has negative weight %d", e.ID, e.Weight)
		}
		c.total += e.Weight
		c.cumulative[i] = c.total
	}
	if c.total == 0 {
		return nil, fmt.Errorf("catalog has no entry with positive weight")
	}
	return c, nil
}

// Pick draws one id with probability proportional to its weight.
func (c *Catalog) Pick(rng *rand.Rand) string {
	r := rng.IntN(c.total)
	i := sort.Search(len(c.cumulative), func(i int) bool { return c.cumulative[i] > r })
	return c.entries[i].ID
}

// IDs returns every cataloged id in declaration order, zero weights included.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

// Entries returns a copy of the catalog entries.
func (c *Catalog) Entries() []WeightedID {
	return append([]WeightedID(nil), c.entries...)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// NewRand returns a generator seeded deterministically from seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

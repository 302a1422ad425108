package catalog

import "sync/atomic"

// Catalog is a read-only snapshot of sites shared by concurrent requests.
// Replace swaps the whole snapshot; readers never observe a partial update.
type Catalog struct {
	snapshot atomic.Pointer[[]Site]
}

// New creates a catalog over the given sites. Insertion order is preserved
// and is the ranking tie-break order.
func New(sites []Site) *Catalog {
	c := &Catalog{}
	c.Replace(sites)
	return c
}

// Sites returns the current snapshot. Callers must not mutate it.
func (c *Catalog) Sites() []Site {
	return *c.snapshot.Load()
}

// Len returns the number of sites in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.Sites())
}

// Replace atomically installs a new snapshot.
func (c *Catalog) Replace(sites []Site) {
	if sites == nil {
		sites = []Site{}
	}
	c.snapshot.Store(&sites)
}

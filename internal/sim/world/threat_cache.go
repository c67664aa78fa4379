package world

// CacheEntry is a lightweight per-agent snapshot used for cheap pre-filtering
// before any exact geometry or line-of-sight work. Entries may be one tick
// stale; consumers must re-resolve the agent by ID before acting on it and
// treat a miss as "skip".
type CacheEntry struct {
	ID   string
	X, Y float64
	Z    float64

	Role    Role
	Clan    int
	Hostile bool
	Dead    bool
	Bandit  bool
}

// ThreatCache is the process-wide spatial index of agent positions and
// hostility metadata. The host world rebuilds it continuously; the decision
// core reads it. Single-threaded by design: the scheduler owns it.
type ThreatCache struct {
	entries []CacheEntry
	byID    map[string]*Agent
}

func NewThreatCache() *ThreatCache {
	return &ThreatCache{byID: map[string]*Agent{}}
}

// Rebuild refreshes the snapshot from the authoritative agent map. Iteration
// order follows the given enumeration order; tie-breaks downstream are
// "first encountered" on purpose.
func (c *ThreatCache) Rebuild(agents []*Agent) {
	c.entries = c.entries[:0]
	clear(c.byID)
	for _, a := range agents {
		c.byID[a.ID] = a
		c.entries = append(c.entries, CacheEntry{
			ID:      a.ID,
			X:       a.Pos.X,
			Y:       a.Pos.Y,
			Z:       a.Pos.Z,
			Role:    a.Role,
			Clan:    a.Clan,
			Hostile: a.Hostile,
			Dead:    a.Dead,
			Bandit:  a.Brain != nil,
		})
	}
}

// Resolve maps a cached ID back to the live agent. A nil result means the
// agent was removed since the snapshot; callers skip the entry.
func (c *ThreatCache) Resolve(id string) *Agent {
	return c.byID[id]
}

// Scan visits every entry inside the axis-aligned box of half-width r around
// p; callers do their own exact distance math. Visiting order is snapshot
// order.
func (c *ThreatCache) Scan(p Vec3, r float64, visit func(e *CacheEntry)) {
	for i := range c.entries {
		e := &c.entries[i]
		if e.X > p.X+r || e.X < p.X-r || e.Y > p.Y+r || e.Y < p.Y-r {
			continue
		}
		visit(e)
	}
}

// AgentsAtCell returns live agents whose position floors to the given cell.
// Used by the line-of-fire walk.
func (c *ThreatCache) AgentsAtCell(cell GridPos) []*Agent {
	var out []*Agent
	for i := range c.entries {
		e := &c.entries[i]
		if (Vec3{X: e.X, Y: e.Y, Z: e.Z}).Grid() == cell {
			if a := c.byID[e.ID]; a != nil {
				out = append(out, a)
			}
		}
	}
	return out
}

// Len reports the snapshot size.
func (c *ThreatCache) Len() int { return len(c.entries) }

package world

// Tools are the breaching implements an agent carries. They gate the
// unbarricade branch of the collision resolver.
type Tools struct {
	Crowbar bool
	Torch   bool
}

// VisTier is the host's coarse visibility/update tier for an agent. Beyond
// TierLight the scheduler parks the agent in a passive, non-updating state.
type VisTier int

const (
	TierFull VisTier = iota
	TierLight
	TierDistant
)

// Agent is one simulated character. Players and undirected rivals are fed by
// the host world and carry no Brain; bandits own exactly one Brain for the
// span of their "active hostile" lifetime.
type Agent struct {
	ID   string
	Role Role

	Pos     Vec3
	Heading float64 // radians, ground plane

	Health float64 // 0..1
	Dead   bool

	Clan             int
	Hostile          bool // generic-hostile (undirected threats)
	HostileToPlayers bool

	Loadout Loadout
	Tools   Tools

	// Movement / stance flags (host-written, read by the selectors).
	Running   bool
	Sprinting bool
	Sneaking  bool
	Crawling  bool
	Asleep    bool
	Climbing  bool
	Bumped    bool
	Prone     bool
	Aiming    bool

	Teleporting bool
	Tier        VisTier
	Passive     bool // parked beyond the light tier; scheduler skips entirely

	// Collision bookkeeping for this tick. Collided is set by the host when
	// movement was blocked; WallStartEnded gates the second phase of a high
	// fence climb.
	Collided       bool
	WallStartEnded bool

	// NearThreat is refreshed by the staggered proximity probe.
	NearThreat bool

	// InCombat is set while a combat-ladder task is in flight; shove/retreat
	// branches consult it.
	InCombat bool

	Brain *Brain
}

// Facing reports whether the agent's heading points at p within the given
// cosine tolerance.
func (a *Agent) Facing(p Vec3, dotMin float64) bool {
	return facingDot(a.Pos, a.Heading, p) >= dotMin
}

// Alive is false for dead or missing agents.
func (a *Agent) Alive() bool { return a != nil && !a.Dead }

// Bandit reports whether this agent is currently driven by the decision core.
func (a *Agent) Bandit() bool { return a != nil && a.Brain != nil }

package world

import "marauder.ai/internal/sim/tasks"

// ObstacleKind classifies blocking geometry for the collision resolver.
// Classification order in the resolver follows this declaration order.
type ObstacleKind int

const (
	ObstacleLowFence ObstacleKind = iota
	ObstacleHighFence
	ObstacleWindow
	ObstacleDoor
	ObstacleDoorDouble
	ObstacleGarageDoor
	ObstacleDestructible
	ObstacleStructural // wall-adjacent structural block; never attacked
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleLowFence:
		return "LOW_FENCE"
	case ObstacleHighFence:
		return "HIGH_FENCE"
	case ObstacleWindow:
		return "WINDOW"
	case ObstacleDoor:
		return "DOOR"
	case ObstacleDoorDouble:
		return "DOOR_DOUBLE"
	case ObstacleGarageDoor:
		return "GARAGE_DOOR"
	case ObstacleDestructible:
		return "DESTRUCTIBLE"
	case ObstacleStructural:
		return "STRUCTURAL"
	default:
		return "UNKNOWN"
	}
}

func (k ObstacleKind) isDoor() bool {
	return k == ObstacleDoor || k == ObstacleDoorDouble || k == ObstacleGarageDoor
}

// Obstacle is the read-only view of one blocking object in a cell. The host
// geometry owns the state; the core only inspects it and emits tasks whose
// handlers mutate it through the host.
type Obstacle interface {
	ObstacleID() string
	Kind() ObstacleKind
	Cell() GridPos

	// Doors/windows.
	IsOpen() bool
	Locked() bool
	Obstructed() bool
	Passable() bool
	SoundKey() string // door sound property; open sound is SoundKey()+"Open"

	// Barricades.
	Barricaded() bool
	BarricadePlanks() int
	BarricadeMetal() bool
	// BarricadeFacing reports whether the barricade is mounted on the side
	// the given position is on; unbarricading is only possible from there.
	BarricadeFacing(p Vec3) bool
}

// Geometry is the synchronous, read-only world/grid collaborator. All calls
// are assumed cheap enough to issue several times per agent per tick.
type Geometry interface {
	// ObjectsAt lists obstacles occupying the cell, possibly empty.
	ObjectsAt(p GridPos) []Obstacle
	// LightAt is the local light level in 0..1.
	LightAt(p GridPos) float64
	// ClearSight reports an unobstructed line of sight between two points.
	ClearSight(from, to Vec3) bool
	// Indoors reports whether the cell is inside a building.
	Indoors(p GridPos) bool
	// NearCuttableVegetation reports tall grass/bushes adjacent to the cell.
	NearCuttableVegetation(p GridPos) bool
}

// Visuals receives stance/animation notifications. It is never queried for
// decisions.
type Visuals interface {
	SetActionTag(agentID, tag string)
	SetMoving(agentID string, moving bool)
	SetAiming(agentID string, aiming bool)
	CancelAction(agentID string)
}

// WeaponActions is the ranged-ballistics collaborator. Each operation returns
// zero or more tasks to enqueue; the core never steps trajectories itself.
type WeaponActions interface {
	Switch(a *Agent, slot tasks.WeaponSlot) []*tasks.Task
	Aim(a *Agent, targetID string) []*tasks.Task
	Rack(a *Agent) []*tasks.Task
	Fire(a *Agent, targetID string) []*tasks.Task
	Reload(a *Agent) []*tasks.Task
	Resupply(a *Agent) []*tasks.Task
}

// Sounds plays keyed world sounds. Nil-safe no-op wiring is acceptable.
type Sounds interface {
	Play(agentID, key string)
}

// NopVisuals / NopSounds are the default collaborators when the host does not
// attach real ones.
type NopVisuals struct{}

func (NopVisuals) SetActionTag(string, string) {}
func (NopVisuals) SetMoving(string, bool)      {}
func (NopVisuals) SetAiming(string, bool)      {}
func (NopVisuals) CancelAction(string)         {}

type NopSounds struct{}

func (NopSounds) Play(string, string) {}

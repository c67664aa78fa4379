package world

import (
	"math"

	"marauder.ai/internal/sim/tasks"
)

// Vec3 is a world-space position. X/Y are the ground plane, Z is the floor
// level (coarse, integer-valued in practice).
type Vec3 struct{ X, Y, Z float64 }

// GridPos is a map cell.
type GridPos struct{ X, Y, Z int }

func (v Vec3) Grid() GridPos {
	return GridPos{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y)), Z: int(math.Floor(v.Z))}
}

func (p GridPos) Center() Vec3 {
	return Vec3{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5, Z: float64(p.Z)}
}

func dist2D(a, b Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func distSq2D(a, b Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func manhattan2D(a, b Vec3) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

func v3ToTask(v Vec3) tasks.Vec3 { return tasks.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func v3FromTask(v tasks.Vec3) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// Role is the closed set of things the decision core can reason about. The
// core switches on roles and capability queries, never on concrete types.
type Role int

const (
	RolePlayer Role = iota // live human
	RoleBandit             // hostile agent driven by this core
	RoleRival              // undirected threat / rival-faction agent without a brain
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "PLAYER"
	case RoleBandit:
		return "BANDIT"
	case RoleRival:
		return "RIVAL"
	default:
		return "UNKNOWN"
	}
}

// facingDot returns the dot product between the heading vector at from and
// the unit vector toward p (1 = dead ahead, -1 = directly behind).
func facingDot(from Vec3, heading float64, p Vec3) float64 {
	dx := p.X - from.X
	dy := p.Y - from.Y
	d := math.Sqrt(dx*dx + dy*dy)
	if d == 0 {
		return 1
	}
	return (math.Cos(heading)*dx + math.Sin(heading)*dy) / d
}

// angleDiff returns the absolute smallest difference between two headings.
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return math.Abs(d)
}

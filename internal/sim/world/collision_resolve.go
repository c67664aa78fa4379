package world

import (
	"math"
	"sort"

	"marauder.ai/internal/sim/tasks"
)

// ResolveCollision turns a blocked-movement event into the single corrective
// action needed: face the obstacle, open it, climb it, breach it, or destroy
// it. It runs only when the agent registered a collision this tick and has no
// other action task in flight, inspects the agent's cell and the cell ahead,
// and handles at most one obstacle per tick (first classified match wins).
// Branches may prepend a weapon-switch task before the primary action.
func (s *Sim) ResolveCollision(a *Agent) []*tasks.Task {
	if !a.Collided || a.Brain == nil {
		return nil
	}
	if a.Brain.HasActionTask() {
		return nil
	}

	cur := a.Pos.Grid()
	ahead := GridPos{
		X: cur.X + int(math.Round(math.Cos(a.Heading))),
		Y: cur.Y + int(math.Round(math.Sin(a.Heading))),
		Z: cur.Z,
	}

	var found []Obstacle
	for _, cell := range []GridPos{cur, ahead} {
		found = append(found, s.geo.ObjectsAt(cell)...)
	}
	// Classification order decides, not cell order: a low fence underfoot is
	// handled before a barricaded door ahead.
	sort.SliceStable(found, func(i, j int) bool { return found[i].Kind() < found[j].Kind() })

	for _, o := range found {
		if ts := s.resolveObstacle(a, o); len(ts) > 0 {
			return ts
		}
	}
	return nil
}

func (s *Sim) resolveObstacle(a *Agent, o Obstacle) []*tasks.Task {
	switch o.Kind() {
	case ObstacleLowFence:
		return s.resolveLowFence(a, o)
	case ObstacleHighFence:
		return s.resolveHighFence(a, o)
	case ObstacleWindow:
		return s.resolveWindow(a, o)
	case ObstacleDoor, ObstacleDoorDouble, ObstacleGarageDoor:
		return s.resolveDoor(a, o)
	case ObstacleDestructible:
		return s.destroyTasks(a, o)
	default:
		// Structural blocks are never attacked.
		return nil
	}
}

func (s *Sim) resolveLowFence(a *Agent, o Obstacle) []*tasks.Task {
	if !a.Facing(o.Cell().Center(), s.tun.Collision.FaceDotMin) {
		return []*tasks.Task{s.faceTask(o)}
	}
	return []*tasks.Task{s.newTask(tasks.KindClimbFence, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.Remaining = s.tun.Collision.ClimbDuration
		t.Anim = "ClimbFence"
	})}
}

func (s *Sim) resolveHighFence(a *Agent, o Obstacle) []*tasks.Task {
	if !a.Facing(o.Cell().Center(), s.tun.Collision.FaceDotMin) {
		return []*tasks.Task{s.faceTask(o)}
	}
	// Two-phase climb: the success phase is gated on the start phase having
	// ended, which the host flags on the agent.
	if !a.WallStartEnded {
		return []*tasks.Task{s.newTask(tasks.KindClimbWallStart, func(t *tasks.Task) {
			t.ObstacleID = o.ObstacleID()
			t.Remaining = s.tun.Collision.ClimbDuration
			t.Anim = "ClimbWallStart"
		})}
	}
	return []*tasks.Task{s.newTask(tasks.KindClimbWallSuccess, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.Remaining = s.tun.Collision.ClimbDuration
		t.Anim = "ClimbWallSuccess"
	})}
}

func (s *Sim) resolveWindow(a *Agent, o Obstacle) []*tasks.Task {
	if o.Barricaded() {
		return s.breachBarricade(a, o)
	}
	if o.Passable() {
		return []*tasks.Task{s.newTask(tasks.KindClimbWindow, func(t *tasks.Task) {
			t.ObstacleID = o.ObstacleID()
			t.Remaining = s.tun.Collision.ClimbDuration
			t.Anim = "ClimbWindow"
		})}
	}
	if !o.IsOpen() {
		return []*tasks.Task{s.newTask(tasks.KindSmashWindow, func(t *tasks.Task) {
			t.ObstacleID = o.ObstacleID()
			t.Remaining = s.tun.Collision.SmashDuration
			t.Sound = "SmashWindow"
		})}
	}
	return nil
}

func (s *Sim) resolveDoor(a *Agent, o Obstacle) []*tasks.Task {
	if o.Barricaded() {
		// Only from the barricade's own side; from the other side the door
		// itself is the obstacle.
		if !o.BarricadeFacing(a.Pos) {
			return s.destroyTasks(a, o)
		}
		return s.breachBarricade(a, o)
	}
	if o.IsOpen() {
		return nil
	}
	if o.Locked() || o.Obstructed() {
		return s.destroyTasks(a, o)
	}
	return []*tasks.Task{s.newTask(tasks.KindOpenDoor, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.Remaining = 10
		t.Sound = o.SoundKey() + "Open"
	})}
}

// breachBarricade picks between tool-based unbarricading and destroying by
// force. Metal barricades need a torch, wooden ones a crowbar; without the
// tool (or with unbarricading disabled) the agent destroys instead.
func (s *Sim) breachBarricade(a *Agent, o Obstacle) []*tasks.Task {
	tool := a.Tools.Crowbar
	if o.BarricadeMetal() {
		tool = a.Tools.Torch
	}
	if !s.cfg.AllowUnbarricade || !tool {
		return s.destroyTasks(a, o)
	}
	planks := o.BarricadePlanks()
	if planks < 1 {
		planks = 1
	}
	return []*tasks.Task{s.newTask(tasks.KindUnbarricade, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.Remaining = s.tun.Collision.UnbarricadePerPlank * float64(planks)
		t.Anim = "Unbarricade"
		t.Sound = "Unbarricade"
	})}
}

// destroyTasks attacks the obstacle with the melee weapon, switching to it
// first when something else is equipped.
func (s *Sim) destroyTasks(a *Agent, o Obstacle) []*tasks.Task {
	var out []*tasks.Task
	if a.Loadout.Melee != nil && a.Loadout.Equipped != tasks.SlotMelee {
		out = append(out, s.weapons.Switch(a, tasks.SlotMelee)...)
	}
	out = append(out, s.newTask(tasks.KindDestroy, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.Remaining = s.tun.Collision.DestroyDuration
		t.Sound = "HitObstacle"
		t.EnduranceDelta = -0.05
	}))
	return out
}

func (s *Sim) faceTask(o Obstacle) *tasks.Task {
	return s.newTask(tasks.KindFace, func(t *tasks.Task) {
		t.ObstacleID = o.ObstacleID()
		t.TargetPos = v3ToTask(o.Cell().Center())
		t.Remaining = 8
	})
}

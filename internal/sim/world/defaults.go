package world

import (
	"math"

	"marauder.ai/internal/sim/tasks"
)

// Locomotion speeds in map units per reference frame.
const (
	walkSpeed = 0.04
	runSpeed  = 0.08
	backSpeed = 0.02
	turnRate  = 0.15 // radians per reference frame
	arriveEps = 0.3
	alignEps  = 0.1
)

// RegisterDefaultHandlers wires the built-in handlers for every task kind the
// selectors emit, mutating agent and grid state on completion. Hosts with
// their own animation/ballistics layers replace any subset of these.
func RegisterDefaultHandlers(s *Sim, g *Grid) {
	r := s.Handlers()

	move := HandlerFuncs{Working: stepToward}
	r.Register(tasks.KindMove, move)
	r.Register(tasks.KindEscape, HandlerFuncs{Working: stepTowardRun})
	r.Register(tasks.KindSuppressRetreat, HandlerFuncs{Working: stepTowardBack})

	r.Register(tasks.KindFace, HandlerFuncs{Working: turnToward})

	r.Register(tasks.KindClimbFence, climbHandler(g, nil))
	r.Register(tasks.KindClimbWallStart, HandlerFuncs{
		Start: func(_ *Sim, a *Agent, _ *tasks.Task) bool { a.Climbing = true; return false },
		Complete: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			a.Climbing = false
			a.WallStartEnded = true
			return true
		},
	})
	r.Register(tasks.KindClimbWallSuccess, climbHandler(g, func(a *Agent) {
		a.WallStartEnded = false
	}))
	r.Register(tasks.KindClimbWindow, climbHandler(g, nil))

	r.Register(tasks.KindSmashWindow, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, t *tasks.Task) bool {
			if o := g.Obstacle(t.ObstacleID); o != nil {
				o.Smashed = true
			}
			a.Collided = false
			return true
		},
	})
	r.Register(tasks.KindUnbarricade, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, t *tasks.Task) bool {
			if o := g.Obstacle(t.ObstacleID); o != nil {
				o.Planks = 0
			}
			return true
		},
	})
	r.Register(tasks.KindOpenDoor, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, t *tasks.Task) bool {
			if o := g.Obstacle(t.ObstacleID); o != nil {
				o.Open = true
			}
			a.Collided = false
			return true
		},
	})
	r.Register(tasks.KindDestroy, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, t *tasks.Task) bool {
			g.RemoveObstacle(t.ObstacleID)
			a.Collided = false
			return true
		},
	})

	r.Register(tasks.KindHeal, HandlerFuncs{
		Complete: func(s *Sim, a *Agent, _ *tasks.Task) bool {
			a.Health = math.Min(1, a.Health+0.35)
			s.Context().EndBite(a.ID)
			return true
		},
	})
	r.Register(tasks.KindShove, HandlerFuncs{
		Complete: func(s *Sim, a *Agent, t *tasks.Task) bool {
			if target := s.cache.Resolve(t.TargetID); target.Alive() {
				target.Bumped = true
			}
			return true
		},
	})
	r.Register(tasks.KindMelee, HandlerFuncs{
		Complete: func(s *Sim, a *Agent, t *tasks.Task) bool {
			target := s.cache.Resolve(t.TargetID)
			if !target.Alive() {
				return true
			}
			target.Health -= 0.15
			if target.Health <= 0 {
				target.Health = 0
				target.Dead = true
				s.Context().EndBite(target.ID)
				return true
			}
			if target.Role == RolePlayer && dist2D(a.Pos, target.Pos) < s.tun.Combat.ShoveRange {
				s.Context().StartBite(target.ID, a.ID, s.CurrentTick())
				if target.Brain != nil {
					target.Brain.Infection++
				}
			}
			return true
		},
	})

	r.Register(tasks.KindSwitchWeapon, HandlerFuncs{
		Complete: func(s *Sim, a *Agent, t *tasks.Task) bool {
			a.Loadout.Equipped = t.Slot
			a.Aiming = false
			s.visuals.SetAiming(a.ID, false)
			return true
		},
	})
	r.Register(tasks.KindAim, HandlerFuncs{
		Complete: func(s *Sim, a *Agent, _ *tasks.Task) bool {
			a.Aiming = true
			s.visuals.SetAiming(a.ID, true)
			return true
		},
	})
	r.Register(tasks.KindRack, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			if w := a.Loadout.Current(); w != nil {
				w.Racked = true
			}
			return true
		},
	})
	r.Register(tasks.KindFire, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			w := a.Loadout.Current()
			if w == nil || w.Rounds <= 0 {
				return true
			}
			w.Rounds--
			if w.ReloadKind == ReloadSingle {
				w.Racked = false
			}
			return true
		},
	})
	r.Register(tasks.KindReload, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			w := a.Loadout.Current()
			if w == nil || !w.Ranged || w.Spare <= 0 {
				return true
			}
			n := 1
			if w.ReloadKind == ReloadMagazine {
				n = w.MagSize - w.Rounds
			}
			if n > w.Spare {
				n = w.Spare
			}
			w.Rounds += n
			w.Spare -= n
			return true
		},
	})
	r.Register(tasks.KindResupply, HandlerFuncs{
		Complete: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			for _, w := range []*Weapon{a.Loadout.Primary, a.Loadout.Secondary} {
				if w != nil && w.Ranged {
					w.Spare += w.MagSize * 2
				}
			}
			return true
		},
	})
}

// RegisterDefaultPrograms wires the built-in background behaviors. Only
// patrol ships by default; hosts register their own scripted programs.
func RegisterDefaultPrograms(s *Sim) {
	s.Programs().Register("patrol", "", patrolStep)
}

// patrolStep wanders: pick a waypoint a few units out, biased by the agent's
// visual seed so packs fan out instead of stacking.
func patrolStep(s *Sim, a *Agent) ProgramResult {
	idx := (a.Brain.VisualSeed + int64(s.CurrentTick())) % 5
	if idx < 0 {
		idx += 5
	}
	turn := float64(idx-2) * 0.6
	h := a.Heading + turn
	wp := Vec3{
		X: a.Pos.X + math.Cos(h)*4,
		Y: a.Pos.Y + math.Sin(h)*4,
	}
	t := s.newTask(tasks.KindMove, func(t *tasks.Task) {
		t.TargetPos = v3ToTask(wp)
		t.Remaining = 160
		t.Anim = "Walk"
	})
	return ProgramResult{OK: true, Tasks: []*tasks.Task{t}}
}

func stepToward(s *Sim, a *Agent, t *tasks.Task) bool {
	return moveStep(s, a, t, walkSpeed)
}

func stepTowardRun(s *Sim, a *Agent, t *tasks.Task) bool {
	return moveStep(s, a, t, runSpeed)
}

func stepTowardBack(s *Sim, a *Agent, t *tasks.Task) bool {
	// Backward walk keeps the heading pointed at the crowd.
	target := v3FromTask(t.TargetPos)
	d := dist2D(a.Pos, target)
	if d < arriveEps {
		return true
	}
	step := backSpeed * s.frameStep()
	if step > d {
		step = d
	}
	a.Pos.X += (target.X - a.Pos.X) / d * step
	a.Pos.Y += (target.Y - a.Pos.Y) / d * step
	return false
}

func moveStep(s *Sim, a *Agent, t *tasks.Task, speed float64) bool {
	target := v3FromTask(t.TargetPos)
	d := dist2D(a.Pos, target)
	if d < arriveEps {
		return true
	}
	a.Heading = math.Atan2(target.Y-a.Pos.Y, target.X-a.Pos.X)
	step := speed * s.frameStep()
	if step > d {
		step = d
	}
	a.Pos.X += math.Cos(a.Heading) * step
	a.Pos.Y += math.Sin(a.Heading) * step
	return false
}

func turnToward(s *Sim, a *Agent, t *tasks.Task) bool {
	target := v3FromTask(t.TargetPos)
	want := math.Atan2(target.Y-a.Pos.Y, target.X-a.Pos.X)
	if angleDiff(a.Heading, want) < alignEps {
		a.Heading = want
		return true
	}
	step := turnRate * s.frameStep()
	d := math.Mod(want-a.Heading+3*math.Pi, 2*math.Pi) - math.Pi
	if math.Abs(d) <= step {
		a.Heading = want
		return true
	}
	if d > 0 {
		a.Heading += step
	} else {
		a.Heading -= step
	}
	return false
}

// climbHandler crosses the obstacle cell on completion.
func climbHandler(g *Grid, after func(a *Agent)) HandlerFuncs {
	return HandlerFuncs{
		Start: func(_ *Sim, a *Agent, _ *tasks.Task) bool {
			a.Climbing = true
			return false
		},
		Complete: func(_ *Sim, a *Agent, t *tasks.Task) bool {
			a.Climbing = false
			a.Collided = false
			a.Pos.X += math.Cos(a.Heading) * 1.0
			a.Pos.Y += math.Sin(a.Heading) * 1.0
			if after != nil {
				after(a)
			}
			return true
		},
	}
}

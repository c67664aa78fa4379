package world

import (
	"math"

	"marauder.ai/internal/sim/tasks"
)

// Combat branch names, used for decision events and metrics.
const (
	BranchEscape   = "escape"
	BranchShove    = "shove"
	BranchSwitch   = "switch"
	BranchMelee    = "melee"
	BranchRetreat  = "retreat"
	BranchHeal     = "heal"
	BranchFire     = "fire"
	BranchReload   = "reload"
	BranchResupply = "resupply"
)

// SelectCombatTasks walks the priority ladder and returns the chosen branch
// plus the tasks it emits. Exactly one branch fires per tick; a branch whose
// task kind is already in flight is chosen but emits nothing (re-entrant
// suppression). Crawling or sleeping agents never fight.
func (s *Sim) SelectCombatTasks(a *Agent) (branch string, out []*tasks.Task) {
	if a.Crawling || a.Asleep || a.Brain == nil {
		return "", nil
	}

	as := s.AssessThreat(a)
	cmb := s.tun.Combat

	// 1. Escape: badly outnumbered. Clears everything queued and flees along
	// the accumulated enemy heading.
	if as.EnemiesNear >= as.FriendliesNear+cmb.EscapeMargin {
		if a.Brain.HasTaskKind(tasks.KindEscape) {
			return BranchEscape, nil
		}
		a.Brain.ClearTasks()
		return BranchEscape, []*tasks.Task{s.escapeTask(a, as)}
	}

	engage := cmb.MeleeOutdoor
	if s.geo.Indoors(a.Pos.Grid()) {
		engage = cmb.MeleeIndoor
	}

	// 2. Shove: point-blank non-damaging push.
	if as.Target != nil && as.TargetDist < cmb.ShoveRange &&
		!as.Target.Prone && !as.Target.Climbing && !as.Target.Bumped {
		if a.Brain.HasTaskKind(tasks.KindShove) {
			return BranchShove, nil
		}
		return BranchShove, []*tasks.Task{s.newTask(tasks.KindShove, func(t *tasks.Task) {
			t.TargetID = as.Target.ID
			t.Remaining = 20
			t.Anim = "Shove"
			t.EnduranceDelta = -0.01
		})}
	}

	// 3. Weapon switch: wrong tool for the engagement range.
	if as.Target != nil {
		want := tasks.SlotNone
		if as.TargetDist < engage && a.Loadout.Melee != nil {
			want = tasks.SlotMelee
		} else if rs := a.Loadout.BestRanged(); rs != tasks.SlotNone {
			want = rs
		}
		if want != tasks.SlotNone && want != a.Loadout.Equipped {
			if a.Brain.HasTaskKind(tasks.KindSwitchWeapon) {
				return BranchSwitch, nil
			}
			return BranchSwitch, s.weapons.Switch(a, want)
		}
	}

	// 4. Melee strike.
	if as.Target != nil && a.Loadout.Equipped == tasks.SlotMelee {
		w := a.Loadout.Melee
		if w != nil && as.TargetDist < engage && as.TargetDist <= w.MaxRange {
			if a.Brain.HasTaskKind(tasks.KindMelee) {
				return BranchMelee, nil
			}
			// Crowded fights favor the moving-pose strike.
			anim := "AttackStand"
			if as.EnemiesClose > as.FriendliesClose {
				anim = "AttackRun"
			}
			return BranchMelee, []*tasks.Task{s.newTask(tasks.KindMelee, func(t *tasks.Task) {
				t.TargetID = as.Target.ID
				t.Remaining = 30
				t.Anim = anim
				t.Sound = "MeleeSwing"
				t.EnduranceDelta = -0.02
			})}
		}
	}

	// 5. Suppressive retreat: slow backward walk out of a close crowd.
	if as.EnemiesClose >= cmb.RetreatCrowd && !a.InCombat && !a.Bumped {
		if a.Brain.HasTaskKind(tasks.KindSuppressRetreat) {
			return BranchRetreat, nil
		}
		back := Vec3{
			X: a.Pos.X - math.Cos(a.Heading)*cmb.BackwardRadius,
			Y: a.Pos.Y - math.Sin(a.Heading)*cmb.BackwardRadius,
			Z: a.Pos.Z,
		}
		return BranchRetreat, []*tasks.Task{s.newTask(tasks.KindSuppressRetreat, func(t *tasks.Task) {
			t.TargetPos = v3ToTask(back)
			t.Remaining = 90
			t.Anim = "WalkBack"
		})}
	}

	// 6. Self-heal when hurt and nothing urgent is in reach.
	if a.Health < cmb.HealThreshold && (as.Target == nil || as.TargetDist >= engage) && !a.Brain.HasActionTask() {
		if a.Brain.HasTaskKind(tasks.KindHeal) {
			return BranchHeal, nil
		}
		return BranchHeal, []*tasks.Task{s.newTask(tasks.KindHeal, func(t *tasks.Task) {
			t.Remaining = 150
			t.Anim = "Bandage"
		})}
	}

	// 7. Fire, with rack/aim/reload sub-steps inserted first as needed.
	if as.Target != nil && a.Loadout.Equipped != tasks.SlotMelee {
		if w := a.Loadout.Current(); w != nil && w.Ranged {
			if b, ts, ok := s.fireBranch(a, w, as); ok {
				return b, ts
			}
		}
	}

	// 8. Peacetime reload: empty magazine, spare rounds, no fight on.
	if as.Target == nil && !a.InCombat {
		if w := a.Loadout.Current(); w != nil && w.Ranged && w.Rounds <= 0 && w.Spare > 0 {
			if a.Brain.HasTaskKind(tasks.KindReload) {
				return BranchReload, nil
			}
			return BranchReload, s.weapons.Reload(a)
		}
	}

	// 9. Resupply: effectively unarmed or out of ammunition everywhere.
	if a.Loadout.Unarmed() || a.Loadout.NeedsResupply() {
		if a.Brain.HasTaskKind(tasks.KindResupply) {
			return BranchResupply, nil
		}
		return BranchResupply, s.weapons.Resupply(a)
	}

	return "", nil
}

// fireBranch emits the next sub-step toward a clear shot: reload, rack, aim,
// then fire. ok=false means the ranged path does not apply this tick and the
// ladder continues.
func (s *Sim) fireBranch(a *Agent, w *Weapon, as Assessment) (string, []*tasks.Task, bool) {
	if as.TargetDist > w.MaxRange+s.tun.Combat.FireRangeBuffer {
		return "", nil, false
	}
	if w.Rounds <= 0 {
		if w.Spare <= 0 {
			return "", nil, false
		}
		if a.Brain.HasTaskKind(tasks.KindReload) {
			return BranchFire, nil, true
		}
		return BranchFire, s.weapons.Reload(a), true
	}
	if !w.Racked {
		if a.Brain.HasTaskKind(tasks.KindRack) {
			return BranchFire, nil, true
		}
		return BranchFire, s.weapons.Rack(a), true
	}
	if !a.Aiming {
		if a.Brain.HasTaskKind(tasks.KindAim) {
			return BranchFire, nil, true
		}
		return BranchFire, s.weapons.Aim(a, as.Target.ID), true
	}
	if !s.ClearLineOfFire(a, as.Target) {
		// Friendly or bystander in the lane: hold fire this tick.
		return BranchFire, nil, true
	}
	if a.Brain.HasTaskKind(tasks.KindFire) {
		return BranchFire, nil, true
	}
	return BranchFire, s.weapons.Fire(a, as.Target.ID), true
}

// escapeTask builds the flee movement. The leg is longer when the agent
// would otherwise be firing, so shooters break contact properly.
func (s *Sim) escapeTask(a *Agent, as Assessment) *tasks.Task {
	heading := a.Heading + math.Pi
	if as.HasRetreat {
		heading = as.RetreatHeading
	}
	leg := 10.0
	dur := 200.0
	if w := a.Loadout.Current(); w != nil && w.Ranged && w.Loaded() && w.Racked {
		leg = 15
		dur = 300
	}
	dest := Vec3{
		X: a.Pos.X + math.Cos(heading)*leg,
		Y: a.Pos.Y + math.Sin(heading)*leg,
		Z: a.Pos.Z,
	}
	return s.newTask(tasks.KindEscape, func(t *tasks.Task) {
		t.TargetPos = v3ToTask(dest)
		t.Remaining = dur
		t.Anim = "Run"
	})
}

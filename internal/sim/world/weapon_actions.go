package world

import (
	"fmt"

	"marauder.ai/internal/sim/tasks"
)

// DefaultWeaponActions is the in-repo stand-in for the external ballistics
// collaborator. It only emits tasks; the matching default handlers apply the
// weapon-state changes. No trajectory stepping happens here.
type DefaultWeaponActions struct {
	nextID uint64
}

func NewDefaultWeaponActions() *DefaultWeaponActions { return &DefaultWeaponActions{} }

func (p *DefaultWeaponActions) task(k tasks.Kind, fill func(t *tasks.Task)) *tasks.Task {
	p.nextID++
	t := &tasks.Task{TaskID: fmt.Sprintf("W%06d", p.nextID), Kind: k, State: tasks.StateNew}
	if fill != nil {
		fill(t)
	}
	return t
}

func (p *DefaultWeaponActions) Switch(a *Agent, slot tasks.WeaponSlot) []*tasks.Task {
	if a.Loadout.Slot(slot) == nil || a.Loadout.Equipped == slot {
		return nil
	}
	return []*tasks.Task{p.task(tasks.KindSwitchWeapon, func(t *tasks.Task) {
		t.Slot = slot
		t.Remaining = 15
		t.Anim = "SwitchWeapon"
	})}
}

func (p *DefaultWeaponActions) Aim(a *Agent, targetID string) []*tasks.Task {
	return []*tasks.Task{p.task(tasks.KindAim, func(t *tasks.Task) {
		t.TargetID = targetID
		t.Remaining = 12
		t.Anim = "Aim"
	})}
}

func (p *DefaultWeaponActions) Rack(a *Agent) []*tasks.Task {
	return []*tasks.Task{p.task(tasks.KindRack, func(t *tasks.Task) {
		t.Remaining = 20
		t.Anim = "Rack"
		t.Sound = "RackWeapon"
	})}
}

func (p *DefaultWeaponActions) Fire(a *Agent, targetID string) []*tasks.Task {
	return []*tasks.Task{p.task(tasks.KindFire, func(t *tasks.Task) {
		t.TargetID = targetID
		t.Remaining = 10
		t.Anim = "Fire"
		t.Sound = "GunShot"
	})}
}

func (p *DefaultWeaponActions) Reload(a *Agent) []*tasks.Task {
	w := a.Loadout.Current()
	if w == nil || !w.Ranged {
		return nil
	}
	dur := 80.0
	if w.ReloadKind == ReloadSingle {
		dur = 35 // one round per task
	}
	return []*tasks.Task{p.task(tasks.KindReload, func(t *tasks.Task) {
		t.Remaining = dur
		t.Anim = "Reload"
		t.Sound = "Reload"
		t.MaxHearDist = 10
	})}
}

func (p *DefaultWeaponActions) Resupply(a *Agent) []*tasks.Task {
	return []*tasks.Task{p.task(tasks.KindResupply, func(t *tasks.Task) {
		t.Remaining = 60
		t.Anim = "Search"
	})}
}

package world

import "marauder.ai/internal/sim/tasks"

// ReloadKind distinguishes magazine swaps from single-round loading (tube or
// break-action weapons reload one round per task).
type ReloadKind int

const (
	ReloadMagazine ReloadKind = iota
	ReloadSingle
)

// Weapon is one loadout slot. Melee weapons leave the ammo fields zeroed.
type Weapon struct {
	Name     string
	Ranged   bool
	MaxRange float64

	Rounds     int // remaining in magazine/tube
	MagSize    int
	Spare      int // rounds carried outside the weapon
	ReloadKind ReloadKind
	Racked     bool // round chambered / action cycled
}

func (w *Weapon) Empty() bool  { return w == nil || w.Rounds <= 0 }
func (w *Weapon) Loaded() bool { return w != nil && w.Rounds > 0 }

// Loadout is the agent's weapon set, one weapon per slot.
type Loadout struct {
	Primary   *Weapon
	Secondary *Weapon
	Melee     *Weapon

	Equipped tasks.WeaponSlot
}

func (l *Loadout) Slot(s tasks.WeaponSlot) *Weapon {
	switch s {
	case tasks.SlotPrimary:
		return l.Primary
	case tasks.SlotSecondary:
		return l.Secondary
	case tasks.SlotMelee:
		return l.Melee
	default:
		return nil
	}
}

// Current returns the equipped weapon, nil when bare-handed.
func (l *Loadout) Current() *Weapon { return l.Slot(l.Equipped) }

// BestRanged picks the preferred ranged slot: primary first, then secondary.
// Only slots with either loaded rounds or spare ammunition qualify.
func (l *Loadout) BestRanged() tasks.WeaponSlot {
	if w := l.Primary; w != nil && w.Ranged && (w.Rounds > 0 || w.Spare > 0) {
		return tasks.SlotPrimary
	}
	if w := l.Secondary; w != nil && w.Ranged && (w.Rounds > 0 || w.Spare > 0) {
		return tasks.SlotSecondary
	}
	return tasks.SlotNone
}

// Unarmed reports whether no slot holds a usable weapon.
func (l *Loadout) Unarmed() bool {
	return l.Melee == nil && l.BestRanged() == tasks.SlotNone
}

// NeedsResupply reports whether a carried ranged weapon has neither loaded
// rounds nor spare ammunition.
func (l *Loadout) NeedsResupply() bool {
	for _, w := range []*Weapon{l.Primary, l.Secondary} {
		if w != nil && w.Ranged && w.Rounds <= 0 && w.Spare <= 0 {
			return true
		}
	}
	return false
}

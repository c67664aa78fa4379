package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"marauder.ai/internal/sim/tasks"
	"marauder.ai/internal/sim/tuning"
	"marauder.ai/internal/sim/world"
)

func newSim(t *testing.T) (*world.Sim, *world.Grid) {
	t.Helper()
	g := world.NewGrid(0.15)
	s, err := world.New(world.SimConfig{ID: "t", TickRateHz: 60, AllowUnbarricade: true},
		tuning.Default(), g, world.NewDefaultWeaponActions())
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	world.RegisterDefaultHandlers(s, g)
	world.RegisterDefaultPrograms(s)
	return s, g
}

func TestLoadAndApplyShippedScenario(t *testing.T) {
	sc, err := Load(filepath.Join("..", "..", "..", "configs", "scenario.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "farmstead" {
		t.Fatalf("name = %q", sc.Name)
	}

	s, g := newSim(t)
	if err := sc.Apply(s, g); err != nil {
		t.Fatalf("apply: %v", err)
	}

	p := s.Agent("player_1")
	if p == nil || p.Role != world.RolePlayer {
		t.Fatalf("player_1 missing or misrolled: %+v", p)
	}

	b := s.Agent("bandit_1")
	if b == nil || !b.HostileToPlayers || !b.Tools.Crowbar {
		t.Fatalf("bandit_1 misread: %+v", b)
	}
	if b.Loadout.Primary == nil || !b.Loadout.Primary.Ranged || b.Loadout.Primary.ReloadKind != world.ReloadSingle {
		t.Fatalf("bandit_1 shotgun misread: %+v", b.Loadout.Primary)
	}
	if b.Loadout.Melee == nil {
		t.Fatalf("bandit_1 melee slot missing")
	}

	if o := g.Obstacle("door_front"); o == nil || !o.Locked() {
		t.Fatalf("door_front misread")
	}
	if o := g.Obstacle("win_south"); o == nil || !o.Barricaded() || o.BarricadePlanks() != 3 {
		t.Fatalf("win_south barricade misread")
	}

	// Bandit-role agents gain brains on the first tick.
	s.StepOnce(nil, nil)
	if b.Brain == nil {
		t.Fatalf("bandit_1 should banditize at tick 0")
	}
	if b.Brain.ProgramName != "patrol" {
		t.Fatalf("program = %q, want patrol", b.Brain.ProgramName)
	}
	if r := s.Agent("rival_1"); r.Brain != nil {
		t.Fatalf("rival agents must stay brainless")
	}
}

func TestApplyRejectsUnknowns(t *testing.T) {
	dir := t.TempDir()

	write := func(body string) Scenario {
		t.Helper()
		p := filepath.Join(dir, "s.yaml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		sc, err := Load(p)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		return sc
	}

	s, g := newSim(t)
	bad := write("agents:\n  - { id: a1, role: WIZARD }\n")
	if err := bad.Apply(s, g); err == nil {
		t.Fatalf("unknown role accepted")
	}

	bad = write("obstacles:\n  - { id: o1, kind: MOAT, x: 1, y: 1 }\n")
	if err := bad.Apply(s, g); err == nil {
		t.Fatalf("unknown obstacle kind accepted")
	}

	bad = write("agents:\n  - { id: a1, role: BANDIT, weapons: [ { slot: BACKPACK, name: x } ] }\n")
	if err := bad.Apply(s, g); err == nil {
		t.Fatalf("unknown weapon slot accepted")
	}
}

func TestApplyDefaultsHealthAndSlots(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "s.yaml")
	body := `
agents:
  - id: a1
    role: RIVAL
    x: 2
    y: 3
    weapons:
      - { slot: SECONDARY, name: pistol, ranged: true, max_range: 9, rounds: 7 }
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sc, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	s, g := newSim(t)
	if err := sc.Apply(s, g); err != nil {
		t.Fatalf("apply: %v", err)
	}
	a := s.Agent("a1")
	if a.Health != 1 {
		t.Fatalf("health should default to full, got %v", a.Health)
	}
	if a.Loadout.Secondary == nil || a.Loadout.Slot(tasks.SlotSecondary).Name != "pistol" {
		t.Fatalf("secondary slot misread: %+v", a.Loadout)
	}
}

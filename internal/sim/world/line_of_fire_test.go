package world

import "testing"

func TestLineOfFireClearLane(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 10.5, 0.5)
	s.rebuild()

	if !s.ClearLineOfFire(a, target) {
		t.Fatalf("empty lane should be clear")
	}
}

func TestLineOfFireHumanInLaneBlocks(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 10.5, 0.5)
	addPlayer(s, "bystander", 5.5, 0.5)
	s.rebuild()

	if s.ClearLineOfFire(a, target) {
		t.Fatalf("human in the lane should block the shot")
	}
}

func TestLineOfFireNegativeRowBystanderBlocks(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, -0.5)
	target := addPlayer(s, "p1", 10.5, -0.5)
	addPlayer(s, "bystander", 5.5, -0.5)
	s.rebuild()

	// Cell indexing floors; negative fractional rows must land in the same
	// cells the lane walk visits.
	if s.ClearLineOfFire(a, target) {
		t.Fatalf("negative-row bystander should block the shot")
	}
}

func TestLineOfFireGraceZone(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 20.5, 0.5)
	// Inside the first two steps of the walk: assumed to be point-blank
	// clutter the shooter fires past.
	addRivalAt(s, "close_r", 2.5, 0.5)
	s.rebuild()

	if !s.ClearLineOfFire(a, target) {
		t.Fatalf("first two lane steps must be exempt")
	}
}

func TestLineOfFireDestinationBlockGuard(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 20.5, 0.5)
	// Off the lane but inside the 5x5 block around the target cell.
	addPlayer(s, "nearby", 22.5, 2.5)
	s.rebuild()

	if s.ClearLineOfFire(a, target) {
		t.Fatalf("human near the destination should hold the shot")
	}
}

func TestLineOfFireAffiliatedDoesNotBlock(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 10.5, 0.5)

	mate := &Agent{ID: "mate", Role: RoleBandit, Pos: Vec3{X: 5.5, Y: 0.5}, Health: 1, Clan: a.Clan, Brain: newBrain(2)}
	s.AddAgent(mate)
	s.rebuild()

	if !s.ClearLineOfFire(a, target) {
		t.Fatalf("same-clan bandit in the lane is assumed to clear it")
	}

	// A rival-clan body in the same spot blocks.
	mate.Clan = 9
	s.rebuild()
	if s.ClearLineOfFire(a, target) {
		t.Fatalf("other-clan agent in the lane should block")
	}
}

func TestLineOfFireDeadBodiesIgnored(t *testing.T) {
	s, _ := newTestSim(t, 0.8)
	a := addBrained(s, "b1", 0.5, 0.5)
	target := addPlayer(s, "p1", 10.5, 0.5)
	corpse := addPlayer(s, "corpse", 5.5, 0.5)
	corpse.Dead = true
	s.rebuild()

	if !s.ClearLineOfFire(a, target) {
		t.Fatalf("dead bodies must not hold fire")
	}
}

func addRivalAt(s *Sim, id string, x, y float64) *Agent {
	a := &Agent{ID: id, Role: RoleRival, Pos: Vec3{X: x, Y: y}, Health: 1, Hostile: true, Clan: 9}
	s.AddAgent(a)
	return a
}

func TestBresenhamExcludesStartIncludesEnd(t *testing.T) {
	cells := bresenham(GridPos{X: 0, Y: 0}, GridPos{X: 3, Y: 0})
	if len(cells) != 3 {
		t.Fatalf("cells = %v", cells)
	}
	for i, c := range cells {
		if c.X != i+1 || c.Y != 0 {
			t.Fatalf("cells = %v", cells)
		}
	}

	if got := bresenham(GridPos{X: 2, Y: 2}, GridPos{X: 2, Y: 2}); len(got) != 0 {
		t.Fatalf("degenerate line should be empty, got %v", got)
	}
}

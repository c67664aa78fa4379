package world

import "testing"

func TestGridClearSight(t *testing.T) {
	g := NewGrid(0.5)
	from := Vec3{X: 0.5, Y: 0.5}
	to := Vec3{X: 6.5, Y: 0.5}

	if !g.ClearSight(from, to) {
		t.Fatalf("open ground should be clear")
	}

	g.SetBlocker(GridPos{X: 3, Y: 0}, true)
	if g.ClearSight(from, to) {
		t.Fatalf("blocker cell should break the line")
	}
}

func TestGridClearSightDoorsAndWindows(t *testing.T) {
	g := NewGrid(0.5)
	from := Vec3{X: 0.5, Y: 0.5}
	to := Vec3{X: 6.5, Y: 0.5}

	door := &GridObstacle{ID: "d1", K: ObstacleDoor, At: GridPos{X: 3, Y: 0}}
	g.AddObstacle(door)
	if g.ClearSight(from, to) {
		t.Fatalf("closed door should block sight")
	}
	door.Open = true
	if !g.ClearSight(from, to) {
		t.Fatalf("open door should not block sight")
	}

	g.AddObstacle(&GridObstacle{ID: "w1", K: ObstacleWindow, At: GridPos{X: 4, Y: 0}})
	if !g.ClearSight(from, to) {
		t.Fatalf("windows are transparent even when closed")
	}
}

func TestGridLightDefaultsAndOverrides(t *testing.T) {
	g := NewGrid(0.2)
	p := GridPos{X: 3, Y: 3}
	if got := g.LightAt(p); got != 0.2 {
		t.Fatalf("default light = %v", got)
	}
	g.SetLight(p, 0.9)
	if got := g.LightAt(p); got != 0.9 {
		t.Fatalf("override light = %v", got)
	}
}

func TestGridVegetationNeighborhood(t *testing.T) {
	g := NewGrid(0.5)
	g.SetVegetation(GridPos{X: 5, Y: 5}, true)

	if !g.NearCuttableVegetation(GridPos{X: 4, Y: 4}) {
		t.Fatalf("adjacent cell should count as near vegetation")
	}
	if g.NearCuttableVegetation(GridPos{X: 7, Y: 5}) {
		t.Fatalf("two cells out is not near")
	}
}

func TestGridObstaclePassability(t *testing.T) {
	w := &GridObstacle{ID: "w", K: ObstacleWindow}
	if w.Passable() {
		t.Fatalf("closed window passable")
	}
	w.Smashed = true
	if !w.Passable() {
		t.Fatalf("smashed window should be passable")
	}
	w.Planks = 2
	if w.Passable() {
		t.Fatalf("barricaded window should not be passable")
	}

	d := &GridObstacle{ID: "d", K: ObstacleDoor, Open: true}
	if !d.Passable() {
		t.Fatalf("open door should be passable")
	}
}

func TestGridRemoveObstacle(t *testing.T) {
	g := NewGrid(0.5)
	cell := GridPos{X: 2, Y: 2}
	g.AddObstacle(&GridObstacle{ID: "x", K: ObstacleDestructible, At: cell})

	if len(g.ObjectsAt(cell)) != 1 {
		t.Fatalf("obstacle not registered")
	}
	g.RemoveObstacle("x")
	if g.Obstacle("x") != nil || len(g.ObjectsAt(cell)) != 0 {
		t.Fatalf("obstacle not removed")
	}
	g.RemoveObstacle("x") // second delete is a no-op
}

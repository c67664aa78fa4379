package world

// ClearLineOfFire walks a coarse rasterized line from the agent to the target
// cell by cell and reports whether firing is safe. Any live human the agent is
// not affiliated with, or any unaffiliated hostile rival, standing on a cell
// beyond the second step of the line — or anywhere in the 5x5 block around the
// destination — blocks the shot.
func (s *Sim) ClearLineOfFire(a *Agent, target *Agent) bool {
	from := a.Pos.Grid()
	to := target.Pos.Grid()

	step := 0
	for _, cell := range bresenham(from, to) {
		step++
		if step <= 2 {
			continue
		}
		if s.cellBlocksFire(a, target, cell) {
			return false
		}
	}
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			cell := GridPos{X: to.X + dx, Y: to.Y + dy, Z: to.Z}
			if s.cellBlocksFire(a, target, cell) {
				return false
			}
		}
	}
	return true
}

func (s *Sim) cellBlocksFire(a, target *Agent, cell GridPos) bool {
	for _, o := range s.cache.AgentsAtCell(cell) {
		if o.ID == a.ID || o.ID == target.ID || !o.Alive() {
			continue
		}
		switch o.Role {
		case RolePlayer:
			// Humans block unless the shooter is not hostile to them at all
			// (then they are not in this fight and still must not be hit).
			return true
		case RoleBandit, RoleRival:
			if o.Clan == a.Clan && o.Role == a.Role {
				continue // affiliated, assumed to clear the lane
			}
			if o.Hostile || o.Clan != a.Clan {
				return true
			}
		}
	}
	return false
}

// bresenham rasterizes the 2D grid line from a to b, excluding the start cell.
func bresenham(a, b GridPos) []GridPos {
	var cells []GridPos

	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		cells = append(cells, GridPos{X: x, Y: y, Z: a.Z})
	}
	return cells
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package world

// Grid is the in-repo reference implementation of the Geometry collaborator:
// a flat cell map with obstacles, per-cell light, sight blockers, and
// indoor/vegetation flags. The production host supplies its own geometry;
// this one backs cmd/server scenarios and the test suite.
type Grid struct {
	defaultLight float64

	light      map[GridPos]float64
	blockers   map[GridPos]bool
	indoor     map[GridPos]bool
	vegetation map[GridPos]bool

	obstacles map[string]*GridObstacle
	byCell    map[GridPos][]*GridObstacle
}

func NewGrid(defaultLight float64) *Grid {
	return &Grid{
		defaultLight: defaultLight,
		light:        map[GridPos]float64{},
		blockers:     map[GridPos]bool{},
		indoor:       map[GridPos]bool{},
		vegetation:   map[GridPos]bool{},
		obstacles:    map[string]*GridObstacle{},
		byCell:       map[GridPos][]*GridObstacle{},
	}
}

// GridObstacle is one blocking object. It implements Obstacle.
type GridObstacle struct {
	ID string
	K  ObstacleKind
	At GridPos
	HP float64

	Open     bool
	Lock     bool
	Obstruct bool
	Smashed  bool
	Sound    string

	Planks int
	Metal  bool
	// BarricadeNormal points from the obstacle cell toward the side the
	// barricade is mounted on.
	BarricadeNormal Vec3
}

func (o *GridObstacle) ObstacleID() string { return o.ID }
func (o *GridObstacle) Kind() ObstacleKind { return o.K }
func (o *GridObstacle) Cell() GridPos      { return o.At }
func (o *GridObstacle) IsOpen() bool       { return o.Open }
func (o *GridObstacle) Locked() bool       { return o.Lock }
func (o *GridObstacle) Obstructed() bool   { return o.Obstruct }

func (o *GridObstacle) Passable() bool {
	if o.Barricaded() {
		return false
	}
	switch o.K {
	case ObstacleWindow:
		return o.Open || o.Smashed
	case ObstacleDoor, ObstacleDoorDouble, ObstacleGarageDoor:
		return o.Open
	default:
		return false
	}
}

func (o *GridObstacle) SoundKey() string {
	if o.Sound != "" {
		return o.Sound
	}
	return "Door"
}

func (o *GridObstacle) Barricaded() bool     { return o.Planks > 0 }
func (o *GridObstacle) BarricadePlanks() int { return o.Planks }
func (o *GridObstacle) BarricadeMetal() bool { return o.Metal }

func (o *GridObstacle) BarricadeFacing(p Vec3) bool {
	c := o.At.Center()
	dx := p.X - c.X
	dy := p.Y - c.Y
	return dx*o.BarricadeNormal.X+dy*o.BarricadeNormal.Y > 0
}

// AddObstacle registers the obstacle at its cell.
func (g *Grid) AddObstacle(o *GridObstacle) {
	g.obstacles[o.ID] = o
	g.byCell[o.At] = append(g.byCell[o.At], o)
}

func (g *Grid) Obstacle(id string) *GridObstacle { return g.obstacles[id] }

// RemoveObstacle deletes a destroyed obstacle.
func (g *Grid) RemoveObstacle(id string) {
	o, ok := g.obstacles[id]
	if !ok {
		return
	}
	delete(g.obstacles, id)
	cell := g.byCell[o.At]
	for i, v := range cell {
		if v == o {
			g.byCell[o.At] = append(cell[:i], cell[i+1:]...)
			break
		}
	}
}

func (g *Grid) SetLight(p GridPos, v float64)   { g.light[p] = v }
func (g *Grid) SetBlocker(p GridPos, v bool)    { g.blockers[p] = v }
func (g *Grid) SetIndoors(p GridPos, v bool)    { g.indoor[p] = v }
func (g *Grid) SetVegetation(p GridPos, v bool) { g.vegetation[p] = v }

// Geometry implementation.

func (g *Grid) ObjectsAt(p GridPos) []Obstacle {
	cell := g.byCell[p]
	if len(cell) == 0 {
		return nil
	}
	out := make([]Obstacle, len(cell))
	for i, o := range cell {
		out[i] = o
	}
	return out
}

func (g *Grid) LightAt(p GridPos) float64 {
	if v, ok := g.light[p]; ok {
		return v
	}
	return g.defaultLight
}

// ClearSight walks the rasterized line between the two points; explicit
// blockers and closed unsmashed doors block, windows do not.
func (g *Grid) ClearSight(from, to Vec3) bool {
	for _, cell := range bresenham(from.Grid(), to.Grid()) {
		if cell == to.Grid() {
			break
		}
		if g.blockers[cell] {
			return false
		}
		for _, o := range g.byCell[cell] {
			if o.K.isDoor() && !o.Open {
				return false
			}
		}
	}
	return true
}

func (g *Grid) Indoors(p GridPos) bool { return g.indoor[p] }

func (g *Grid) NearCuttableVegetation(p GridPos) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if g.vegetation[GridPos{X: p.X + dx, Y: p.Y + dy, Z: p.Z}] {
				return true
			}
		}
	}
	return false
}

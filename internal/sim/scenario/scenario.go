// Package scenario loads a YAML description of a starting world — agents,
// obstacles, lighting — and applies it to a sim + grid pair. It exists for
// the headless server and the test suite; production hosts feed their own
// world state.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"marauder.ai/internal/sim/tasks"
	"marauder.ai/internal/sim/world"
)

type Scenario struct {
	Name         string  `yaml:"name"`
	DefaultLight float64 `yaml:"default_light"`

	Agents    []AgentDef    `yaml:"agents"`
	Obstacles []ObstacleDef `yaml:"obstacles"`
	Cells     []CellDef     `yaml:"cells"`
}

type AgentDef struct {
	ID      string  `yaml:"id"`
	Role    string  `yaml:"role"` // PLAYER | BANDIT | RIVAL
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
	Health  float64 `yaml:"health"`
	Clan    int     `yaml:"clan"`

	Hostile          bool `yaml:"hostile"`
	HostileToPlayers bool `yaml:"hostile_to_players"`
	Crowbar          bool `yaml:"crowbar"`
	Torch            bool `yaml:"torch"`

	Weapons []WeaponDef `yaml:"weapons"`
	Program string      `yaml:"program"`
	Stage   string      `yaml:"stage"`
}

type WeaponDef struct {
	Slot     string  `yaml:"slot"` // PRIMARY | SECONDARY | MELEE
	Name     string  `yaml:"name"`
	Ranged   bool    `yaml:"ranged"`
	MaxRange float64 `yaml:"max_range"`
	Rounds   int     `yaml:"rounds"`
	MagSize  int     `yaml:"mag_size"`
	Spare    int     `yaml:"spare"`
	Single   bool    `yaml:"single_reload"`
	Racked   bool    `yaml:"racked"`
}

type ObstacleDef struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind"` // LOW_FENCE | HIGH_FENCE | WINDOW | DOOR | ...
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Open   bool   `yaml:"open"`
	Locked bool   `yaml:"locked"`
	Planks int    `yaml:"planks"`
	Metal  bool   `yaml:"metal"`
	Sound  string `yaml:"sound"`

	BarricadeNX float64 `yaml:"barricade_nx"`
	BarricadeNY float64 `yaml:"barricade_ny"`
}

type CellDef struct {
	X          int     `yaml:"x"`
	Y          int     `yaml:"y"`
	Light      float64 `yaml:"light"`
	HasLight   bool    `yaml:"has_light"`
	Blocker    bool    `yaml:"blocker"`
	Indoors    bool    `yaml:"indoors"`
	Vegetation bool    `yaml:"vegetation"`
}

func Load(path string) (Scenario, error) {
	var sc Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return sc, fmt.Errorf("scenario.yaml: %w", err)
	}
	return sc, nil
}

var roleNames = map[string]world.Role{
	"PLAYER": world.RolePlayer,
	"BANDIT": world.RoleBandit,
	"RIVAL":  world.RoleRival,
}

var slotNames = map[string]tasks.WeaponSlot{
	"PRIMARY":   tasks.SlotPrimary,
	"SECONDARY": tasks.SlotSecondary,
	"MELEE":     tasks.SlotMelee,
}

var kindNames = map[string]world.ObstacleKind{
	"LOW_FENCE":    world.ObstacleLowFence,
	"HIGH_FENCE":   world.ObstacleHighFence,
	"WINDOW":       world.ObstacleWindow,
	"DOOR":         world.ObstacleDoor,
	"DOOR_DOUBLE":  world.ObstacleDoorDouble,
	"GARAGE_DOOR":  world.ObstacleGarageDoor,
	"DESTRUCTIBLE": world.ObstacleDestructible,
	"STRUCTURAL":   world.ObstacleStructural,
}

// Apply populates the grid and sim from the scenario. Bandit-role agents are
// queued for banditizing at the first tick.
func (sc Scenario) Apply(s *world.Sim, g *world.Grid) error {
	for _, cd := range sc.Cells {
		p := world.GridPos{X: cd.X, Y: cd.Y}
		if cd.HasLight {
			g.SetLight(p, cd.Light)
		}
		if cd.Blocker {
			g.SetBlocker(p, true)
		}
		if cd.Indoors {
			g.SetIndoors(p, true)
		}
		if cd.Vegetation {
			g.SetVegetation(p, true)
		}
	}

	for _, od := range sc.Obstacles {
		k, ok := kindNames[od.Kind]
		if !ok {
			return fmt.Errorf("scenario: unknown obstacle kind %q", od.Kind)
		}
		g.AddObstacle(&world.GridObstacle{
			ID:              od.ID,
			K:               k,
			At:              world.GridPos{X: od.X, Y: od.Y},
			Open:            od.Open,
			Lock:            od.Locked,
			Planks:          od.Planks,
			Metal:           od.Metal,
			Sound:           od.Sound,
			BarricadeNormal: world.Vec3{X: od.BarricadeNX, Y: od.BarricadeNY},
		})
	}

	for _, ad := range sc.Agents {
		role, ok := roleNames[ad.Role]
		if !ok {
			return fmt.Errorf("scenario: unknown role %q for agent %s", ad.Role, ad.ID)
		}
		health := ad.Health
		if health == 0 {
			health = 1
		}
		a := &world.Agent{
			ID:               ad.ID,
			Role:             role,
			Pos:              world.Vec3{X: ad.X, Y: ad.Y},
			Heading:          ad.Heading,
			Health:           health,
			Clan:             ad.Clan,
			Hostile:          ad.Hostile,
			HostileToPlayers: ad.HostileToPlayers,
			Tools:            world.Tools{Crowbar: ad.Crowbar, Torch: ad.Torch},
		}
		for _, wd := range ad.Weapons {
			slot, ok := slotNames[wd.Slot]
			if !ok {
				return fmt.Errorf("scenario: unknown weapon slot %q for agent %s", wd.Slot, ad.ID)
			}
			rk := world.ReloadMagazine
			if wd.Single {
				rk = world.ReloadSingle
			}
			w := &world.Weapon{
				Name:       wd.Name,
				Ranged:     wd.Ranged,
				MaxRange:   wd.MaxRange,
				Rounds:     wd.Rounds,
				MagSize:    wd.MagSize,
				Spare:      wd.Spare,
				ReloadKind: rk,
				Racked:     wd.Racked,
			}
			switch slot {
			case tasks.SlotPrimary:
				a.Loadout.Primary = w
			case tasks.SlotSecondary:
				a.Loadout.Secondary = w
			case tasks.SlotMelee:
				a.Loadout.Melee = w
			}
		}
		s.AddAgent(a)
		if role == world.RoleBandit {
			s.QueueBanditize(a.ID)
			if ad.Program != "" {
				s.AttachProgram(a.ID, ad.Program, ad.Stage)
			}
		}
	}
	return nil
}

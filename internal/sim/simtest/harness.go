// Package simtest is a small black-box helper for driving a sim via exported
// APIs: agents go in through AddAgent, brains arrive through QueueBanditize,
// and ticks advance through StepOnce. It intentionally avoids touching sim
// internals so tests can live outside the world package.
package simtest

import (
	"testing"

	"marauder.ai/internal/protocol"
	"marauder.ai/internal/sim/tuning"
	"marauder.ai/internal/sim/world"
)

type Harness struct {
	T *testing.T
	S *world.Sim
	G *world.Grid

	events []protocol.Event
}

type Option func(*config)

type config struct {
	tun          tuning.Tuning
	tickRate     int
	defaultLight float64
	unbarricade  bool
}

func WithTuning(t tuning.Tuning) Option { return func(c *config) { c.tun = t } }
func WithTickRate(hz int) Option        { return func(c *config) { c.tickRate = hz } }
func WithDefaultLight(l float64) Option { return func(c *config) { c.defaultLight = l } }
func WithoutUnbarricade() Option        { return func(c *config) { c.unbarricade = false } }

func NewHarness(t *testing.T, opts ...Option) *Harness {
	t.Helper()

	c := config{
		tun:          tuning.Default(),
		tickRate:     0,
		defaultLight: 0.5,
		unbarricade:  true,
	}
	for _, o := range opts {
		o(&c)
	}
	if c.tickRate == 0 {
		c.tickRate = c.tun.TickRateHz
	}
	c.tun.TickRateHz = c.tickRate

	g := world.NewGrid(c.defaultLight)
	s, err := world.New(world.SimConfig{
		ID:               "test",
		TickRateHz:       c.tickRate,
		Seed:             1,
		AllowUnbarricade: c.unbarricade,
	}, c.tun, g, world.NewDefaultWeaponActions())
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	world.RegisterDefaultHandlers(s, g)

	h := &Harness{T: t, S: s, G: g}
	s.SetEventSink(h)
	return h
}

// Write collects decision events so tests can assert on them.
func (h *Harness) Write(v any) error {
	if msg, ok := v.(protocol.TickMsg); ok {
		h.events = append(h.events, msg.Events...)
	}
	return nil
}

// Events returns all decision events emitted so far.
func (h *Harness) Events() []protocol.Event { return h.events }

// EventsOf filters collected events by type.
func (h *Harness) EventsOf(typ string) []protocol.Event {
	var out []protocol.Event
	for _, e := range h.events {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

// AddPlayer places a brainless player-role agent.
func (h *Harness) AddPlayer(id string, x, y float64) *world.Agent {
	h.T.Helper()
	a := &world.Agent{
		ID:     id,
		Role:   world.RolePlayer,
		Pos:    world.Vec3{X: x, Y: y},
		Health: 1,
	}
	h.S.AddAgent(a)
	return a
}

// AddBandit places an agent and banditizes it on the next step so it carries
// a live brain.
func (h *Harness) AddBandit(id string, x, y float64) *world.Agent {
	h.T.Helper()
	a := &world.Agent{
		ID:               id,
		Role:             world.RoleBandit,
		Pos:              world.Vec3{X: x, Y: y},
		Health:           1,
		HostileToPlayers: true,
		Clan:             2,
	}
	h.S.AddAgent(a)
	h.S.QueueBanditize(id)
	return a
}

// AddRival places a hostile non-bandit agent of the given clan.
func (h *Harness) AddRival(id string, x, y float64, clan int) *world.Agent {
	h.T.Helper()
	a := &world.Agent{
		ID:      id,
		Role:    world.RoleRival,
		Pos:     world.Vec3{X: x, Y: y},
		Health:  1,
		Hostile: true,
		Clan:    clan,
	}
	h.S.AddAgent(a)
	return a
}

// Step advances n ticks.
func (h *Harness) Step(n int) {
	h.T.Helper()
	for i := 0; i < n; i++ {
		h.S.StepOnce(nil, nil)
	}
}

// StepWheel advances a full 16-slot revolution of the staggered scheduler so
// every phase (collision, proximity probe) has run at least once per agent.
func (h *Harness) StepWheel() {
	h.Step(16)
}

// Agent fetches an agent by id, failing the test when it does not exist.
func (h *Harness) Agent(id string) *world.Agent {
	h.T.Helper()
	a := h.S.Agent(id)
	if a == nil {
		h.T.Fatalf("unknown agent %q", id)
	}
	return a
}

// Armory hands the agent a standard racked, loaded rifle plus a melee weapon.
func (h *Harness) Armory(a *world.Agent) {
	a.Loadout.Melee = &world.Weapon{Name: "knife", MaxRange: 1.1}
	a.Loadout.Primary = &world.Weapon{
		Name:       "rifle",
		Ranged:     true,
		MaxRange:   15,
		Rounds:     5,
		MagSize:    10,
		Spare:      20,
		ReloadKind: world.ReloadMagazine,
		Racked:     true,
	}
	a.Loadout.Equipped = 0
}

package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"marauder.ai/internal/protocol"
	"marauder.ai/internal/sim/tuning"
)

// SimConfig is the static configuration of one simulation instance.
type SimConfig struct {
	ID               string
	TickRateHz       int
	Seed             int64
	AllowUnbarricade bool
}

// EventSink receives every per-tick decision event batch (decision log).
type EventSink interface {
	Write(v any) error
}

// Sim is the decision-and-execution core: it owns the brains, the threat
// cache, the scheduler context, and the per-tick update loop. Everything runs
// on a single goroutine; collaborators are called synchronously from it.
type Sim struct {
	cfg SimConfig
	tun tuning.Tuning

	geo     Geometry
	weapons WeaponActions
	visuals Visuals
	sounds  Sounds

	handlers HandlerRegistry
	programs ProgramRegistry

	agents map[string]*Agent
	order  []string // enumeration order; tie-breaks downstream depend on it

	cache *ThreatCache
	sctx  *SimContext

	pendingBanditize map[string]bool
	pendingRevert    map[string]bool
	pendingPrograms  map[string]programAttach

	tick        atomic.Uint64
	nextTaskNum uint64

	events       []protocol.Event
	branchCounts map[string]uint64

	sink    EventSink
	metrics atomic.Value

	// Run-loop channels.
	stop         chan struct{}
	banditizeCh  chan string
	revertCh     chan string
	observerJoin chan observerJoinReq
	observerDrop chan uint64

	observers map[uint64]chan []byte
	nextObsID uint64
}

type observerJoinReq struct {
	Resp chan observerSession
}

type observerSession struct {
	ID  uint64
	Out chan []byte
}

// New builds a sim with the given collaborators. Nil visuals/sounds fall back
// to no-ops; a nil handler registry or program registry starts empty.
func New(cfg SimConfig, tun tuning.Tuning, geo Geometry, weapons WeaponActions) (*Sim, error) {
	if cfg.TickRateHz <= 0 {
		return nil, fmt.Errorf("sim: TickRateHz must be > 0")
	}
	if geo == nil {
		return nil, fmt.Errorf("sim: nil geometry")
	}
	if weapons == nil {
		return nil, fmt.Errorf("sim: nil weapon-action provider")
	}
	if err := tun.Check(); err != nil {
		return nil, err
	}
	s := &Sim{
		cfg:              cfg,
		tun:              tun,
		geo:              geo,
		weapons:          weapons,
		visuals:          NopVisuals{},
		sounds:           NopSounds{},
		handlers:         HandlerRegistry{},
		programs:         ProgramRegistry{},
		agents:           map[string]*Agent{},
		cache:            NewThreatCache(),
		sctx:             NewSimContext(),
		pendingBanditize: map[string]bool{},
		pendingRevert:    map[string]bool{},
		pendingPrograms:  map[string]programAttach{},
		branchCounts:     map[string]uint64{},
		stop:             make(chan struct{}),
		banditizeCh:      make(chan string, 64),
		revertCh:         make(chan string, 64),
		observerJoin:     make(chan observerJoinReq),
		observerDrop:     make(chan uint64, 16),
		observers:        map[uint64]chan []byte{},
	}
	return s, nil
}

func (s *Sim) SetVisuals(v Visuals) {
	if v != nil {
		s.visuals = v
	}
}

func (s *Sim) SetSounds(v Sounds) {
	if v != nil {
		s.sounds = v
	}
}

func (s *Sim) SetEventSink(sink EventSink) { s.sink = sink }
func (s *Sim) Handlers() HandlerRegistry   { return s.handlers }
func (s *Sim) Programs() ProgramRegistry   { return s.programs }
func (s *Sim) Context() *SimContext        { return s.sctx }
func (s *Sim) Tuning() tuning.Tuning       { return s.tun }
func (s *Sim) Config() SimConfig           { return s.cfg }
func (s *Sim) CurrentTick() uint64         { return s.tick.Load() }
func (s *Sim) Geometry() Geometry          { return s.geo }

// AddAgent registers a host-owned agent. Enumeration order is insertion
// order; spatial tie-breaks deliberately follow it.
func (s *Sim) AddAgent(a *Agent) {
	if a == nil || a.ID == "" {
		return
	}
	if _, ok := s.agents[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.agents[a.ID] = a
}

// RemoveAgent drops an agent; cache entries referencing it become stale for
// at most one tick and are skipped on resolution.
func (s *Sim) RemoveAgent(id string) {
	if _, ok := s.agents[id]; !ok {
		return
	}
	delete(s.agents, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Sim) Agent(id string) *Agent { return s.agents[id] }

// Banditize queues the agent to gain a brain at the next tick boundary.
// Safe to call from other goroutines while Run is active.
func (s *Sim) Banditize(id string) { s.banditizeCh <- id }

// Revert queues the agent to lose its brain at the next tick boundary.
func (s *Sim) Revert(id string) { s.revertCh <- id }

// QueueBanditize / QueueRevert are the direct, same-goroutine forms used
// during setup and by StepOnce-driven tests.
func (s *Sim) QueueBanditize(id string) { s.pendingBanditize[id] = true }
func (s *Sim) QueueRevert(id string)    { s.pendingRevert[id] = true }

// AttachProgram arranges for the named program to start once the agent has a
// brain (immediately when it already does).
func (s *Sim) AttachProgram(id, name, stage string) {
	if a := s.agents[id]; a != nil && a.Brain != nil {
		a.SetProgram(name, stage)
		return
	}
	s.pendingPrograms[id] = programAttach{Name: name, Stage: stage}
}

// Attach registers an observer session from another goroutine.
func (s *Sim) Attach() (id uint64, out <-chan []byte) {
	resp := make(chan observerSession, 1)
	s.observerJoin <- observerJoinReq{Resp: resp}
	sess := <-resp
	return sess.ID, sess.Out
}

func (s *Sim) Detach(id uint64) { s.observerDrop <- id }

// Run drives the sim at the configured tick rate until ctx ends or Stop is
// called. All mutation happens on this goroutine.
func (s *Sim) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(s.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingBanditize, pendingRevert []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case id := <-s.banditizeCh:
			pendingBanditize = append(pendingBanditize, id)
		case id := <-s.revertCh:
			pendingRevert = append(pendingRevert, id)
		case req := <-s.observerJoin:
			s.handleObserverJoin(req)
		case id := <-s.observerDrop:
			delete(s.observers, id)
		case <-ticker.C:
			s.stepInternal(pendingBanditize, pendingRevert)
			pendingBanditize = pendingBanditize[:0]
			pendingRevert = pendingRevert[:0]
		}
	}
}

func (s *Sim) Stop() { close(s.stop) }

// StepOnce advances the sim by a single tick with the same ordering semantics
// as the run loop. Intended for deterministic tests and replays.
func (s *Sim) StepOnce(banditize, revert []string) uint64 {
	tick := s.tick.Load()
	s.stepInternal(banditize, revert)
	return tick
}

func (s *Sim) stepInternal(banditize, revert []string) {
	stepStart := time.Now()
	nowTick := s.tick.Load()

	for _, id := range banditize {
		s.pendingBanditize[id] = true
	}
	for _, id := range revert {
		s.pendingRevert[id] = true
	}

	// Snapshot positions/hostility before any agent updates; entries may be
	// stale for removals that happen mid-tick, readers skip those.
	s.cache.Rebuild(s.orderedAgents())

	bandits := 0
	inFlight := 0
	for _, a := range s.orderedAgents() {
		s.updateAgent(a, nowTick)
		if a.Brain != nil {
			bandits++
			if t := a.Brain.Head(); t != nil && t.InFlight() {
				inFlight++
			}
		}
	}

	s.flushTick(nowTick, bandits)

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	s.metrics.Store(SimMetrics{
		Tick:          nowTick + 1,
		Agents:        len(s.agents),
		Bandits:       bandits,
		TasksInFlight: inFlight,
		Branches:      copyCounts(s.branchCounts),
		StepMS:        stepMS,
	})
	s.tick.Add(1)
}

// orderedAgents returns agents in stable enumeration order.
func (s *Sim) orderedAgents() []*Agent {
	out := make([]*Agent, 0, len(s.order))
	for _, id := range s.order {
		if a := s.agents[id]; a != nil {
			out = append(out, a)
		}
	}
	return out
}

func (s *Sim) emit(e protocol.Event) {
	s.events = append(s.events, e)
}

func (s *Sim) handleObserverJoin(req observerJoinReq) {
	s.nextObsID++
	out := make(chan []byte, 16)
	s.observers[s.nextObsID] = out
	req.Resp <- observerSession{ID: s.nextObsID, Out: out}
}

// flushTick ships this tick's decision events to the sink and the observers,
// then resets the buffer.
func (s *Sim) flushTick(nowTick uint64, bandits int) {
	if len(s.events) == 0 && len(s.observers) == 0 {
		return
	}
	msg := protocol.TickMsg{
		Type:    protocol.TypeTick,
		Tick:    nowTick,
		Events:  s.events,
		Agents:  len(s.agents),
		Bandits: bandits,
	}
	if s.sink != nil && len(s.events) > 0 {
		_ = s.sink.Write(msg)
	}
	if len(s.observers) > 0 {
		if b, err := json.Marshal(msg); err == nil {
			for _, out := range s.observers {
				sendLatest(out, b)
			}
		}
	}
	s.events = s.events[:0]
}

// sendLatest delivers b without blocking, dropping the oldest queued message
// when the channel is full.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SortedBranchNames is a stable view for reports.
func SortedBranchNames(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

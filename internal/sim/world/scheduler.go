package world

import (
	"math"

	"marauder.ai/internal/protocol"
)

// growlCooldown is the frame budget between ambient growls.
const growlCooldown = 240

// BiteRecord tracks an in-progress bite on a victim.
type BiteRecord struct {
	AttackerID string
	StartTick  uint64
}

// SimContext is the explicit per-simulation scheduling state: the rotating
// tick-phase counter used to stagger expensive checks, and the id-indexed
// table of in-progress bites. It replaces hidden globals so tests can inject
// a fresh context; it is confined to the scheduler's goroutine.
type SimContext struct {
	// UTick rotates 0..15 and advances once per processed agent, not once
	// per frame, so stagger intervals are approximate by design.
	UTick int

	Bites map[string]BiteRecord
}

func NewSimContext() *SimContext {
	return &SimContext{Bites: map[string]BiteRecord{}}
}

func (c *SimContext) advance() {
	c.UTick++
	if c.UTick >= 16 {
		c.UTick = 0
	}
}

// StartBite records an in-progress bite on victimID; the infection counter on
// the victim's brain (if any) is bumped when the bite lands.
func (c *SimContext) StartBite(victimID, attackerID string, tick uint64) {
	c.Bites[victimID] = BiteRecord{AttackerID: attackerID, StartTick: tick}
}

func (c *SimContext) EndBite(victimID string) {
	delete(c.Bites, victimID)
}

// updateAgent is the per-agent per-tick driver. Ordering is fixed:
// lifecycle transitions, staggered proximity check, corpse finalization,
// early-outs, housekeeping, cooldown decay, combat, collisions (odd phases),
// program stage, then exactly one task-queue step.
func (s *Sim) updateAgent(a *Agent, nowTick uint64) {
	defer s.sctx.advance()

	// (a) queued banditize/revert transitions.
	if s.pendingBanditize[a.ID] {
		delete(s.pendingBanditize, a.ID)
		s.banditizeNow(a, nowTick)
	}
	if s.pendingRevert[a.ID] {
		delete(s.pendingRevert, a.ID)
		s.revertNow(a, nowTick)
	}

	// (b) staggered threat-proximity probe, even phases only.
	if s.sctx.UTick%2 == 0 {
		a.NearThreat = s.nearLivingThreat(a)
	}

	// (c) died while prone: finalize the corpse.
	if a.Dead {
		if a.Prone && a.Brain != nil {
			s.revertNow(a, nowTick)
			s.emit(protocol.Event{"t": nowTick, "type": protocol.EvCorpse, "agent": a.ID})
		}
		return
	}

	// (d) early-outs: teleporting, parked beyond the light tier, no brain.
	if a.Teleporting {
		return
	}
	if a.Tier > TierLight {
		if !a.Passive {
			a.Passive = true
			s.visuals.CancelAction(a.ID)
		}
		return
	}
	a.Passive = false
	if a.Brain == nil {
		return
	}

	// (e) housekeeping: endurance regeneration while idle.
	if len(a.Brain.Tasks) == 0 && a.Brain.Endurance < 1 {
		a.Brain.Endurance = math.Min(1, a.Brain.Endurance+s.tun.Endurance.RegenPerTick)
	}

	// (f) cooldown decay, plus the ambient growl when prey is about.
	if a.Brain.SpeechCooldown > 0 {
		a.Brain.SpeechCooldown -= s.tun.Endurance.SpeechDecay * s.frameStep()
	}
	if a.Brain.SoundCooldown > 0 {
		a.Brain.SoundCooldown -= s.tun.Endurance.SoundDecay * s.frameStep()
	} else if a.NearThreat {
		s.playSound(a, "BanditGrowl", nowTick)
		a.Brain.SoundCooldown = growlCooldown
	}

	// Combat policy.
	if branch, ts := s.SelectCombatTasks(a); branch != "" {
		s.branchCounts[branch]++
		if len(ts) > 0 {
			a.Brain.Enqueue(ts...)
			s.emit(protocol.Event{
				"t": nowTick, "type": protocol.EvBranch,
				"agent": a.ID, "branch": branch, "tasks": len(ts),
			})
		}
	}

	// (g) collision resolver, odd phases only.
	if s.sctx.UTick%2 == 1 {
		if ts := s.ResolveCollision(a); len(ts) > 0 {
			a.Brain.Enqueue(ts...)
			a.Collided = false
			s.emit(protocol.Event{
				"t": nowTick, "type": protocol.EvCollision,
				"agent": a.ID, "kind": string(ts[len(ts)-1].Kind),
			})
		}
	}

	// (h) one program stage when nothing else is queued.
	s.stepProgram(a)

	// (i) exactly one task-queue step.
	s.stepTaskQueue(a, nowTick)
}

// nearLivingThreat is the cheap staggered probe used to wake parked agents.
func (s *Sim) nearLivingThreat(a *Agent) bool {
	found := false
	s.cache.Scan(a.Pos, s.tun.Combat.EscapeRadius, func(e *CacheEntry) {
		if found || e.Dead || e.ID == a.ID {
			return
		}
		cand := s.cache.Resolve(e.ID)
		if cand == nil {
			return
		}
		if s.isEnemyOf(a, cand) {
			found = true
		}
	})
	return found
}

func (s *Sim) banditizeNow(a *Agent, nowTick uint64) {
	if a.Brain != nil || a.Dead {
		return
	}
	a.Role = RoleBandit
	a.Brain = newBrain(s.cfg.Seed ^ int64(len(a.ID)))
	if p, ok := s.pendingPrograms[a.ID]; ok {
		delete(s.pendingPrograms, a.ID)
		a.SetProgram(p.Name, p.Stage)
	}
	s.emit(protocol.Event{"t": nowTick, "type": protocol.EvBanditize, "agent": a.ID})
}

func (s *Sim) revertNow(a *Agent, nowTick uint64) {
	if a.Brain == nil {
		return
	}
	a.Brain = nil
	a.InCombat = false
	s.emit(protocol.Event{"t": nowTick, "type": protocol.EvRevert, "agent": a.ID})
}

package world

import (
	"fmt"

	"marauder.ai/internal/protocol"
	"marauder.ai/internal/sim/tasks"
)

// combatKinds drive the InCombat flag while in flight.
var combatKinds = map[tasks.Kind]bool{
	tasks.KindShove: true,
	tasks.KindMelee: true,
	tasks.KindFire:  true,
}

func (s *Sim) newTaskID() string {
	s.nextTaskNum++
	return fmt.Sprintf("T%06d", s.nextTaskNum)
}

func (s *Sim) newTask(k tasks.Kind, fill func(t *tasks.Task)) *tasks.Task {
	t := &tasks.Task{TaskID: s.newTaskID(), Kind: k, State: tasks.StateNew}
	if fill != nil {
		fill(t)
	}
	return t
}

// frameStep is the rate-normalized duration decrement: a budget of N
// reference frames takes the same wall-clock time at any tick rate.
func (s *Sim) frameStep() float64 {
	return s.tun.ReferenceHz / float64(s.cfg.TickRateHz)
}

// stepTaskQueue drains exactly one step of the agent's task queue. Strictly
// FIFO: only the head task is ever advanced, so at most one task per agent is
// in flight at any time.
func (s *Sim) stepTaskQueue(a *Agent, nowTick uint64) {
	b := a.Brain
	t := b.Head()
	if t == nil {
		a.InCombat = false
		return
	}

	switch t.State {
	case tasks.StateNew:
		// Starting a non-movement task cancels whatever animation/movement
		// was running; movement tasks blend instead.
		if !t.IsMovement() {
			s.visuals.CancelAction(a.ID)
		} else {
			s.visuals.SetMoving(a.ID, true)
		}
		if t.Anim != "" {
			s.visuals.SetActionTag(a.ID, t.Anim)
		}
		if t.Sound != "" && s.soundAudible(a, t) {
			s.playSound(a, t.Sound, nowTick)
		}
		t.State = tasks.StateWorking
		t.StartedTick = nowTick
		if h, ok := s.handlers.Lookup(t.Kind); ok {
			if h.OnStart(s, a, t) {
				// Start hook reports immediate completion; the working phase
				// sees an exhausted budget next tick and finishes.
				t.Remaining = 0
			}
		}
		a.InCombat = combatKinds[t.Kind]
		s.emit(protocol.Event{
			"t": nowTick, "type": protocol.EvTaskStart,
			"agent": a.ID, "task_id": t.TaskID, "kind": string(t.Kind),
		})

	case tasks.StateWorking:
		t.Remaining -= s.frameStep()
		done := false
		if h, ok := s.handlers.Lookup(t.Kind); ok {
			done = h.OnWorking(s, a, t)
		}
		if done || t.Remaining <= 0 {
			t.State = tasks.StateCompleted
		}

	case tasks.StateCompleted:
		if t.DoneSound != "" {
			s.playSound(a, t.DoneSound, nowTick)
			t.DoneSound = ""
		}
		if t.EnduranceDelta != 0 {
			b.Endurance += t.EnduranceDelta
			if b.Endurance < 0 {
				b.Endurance = 0
			}
			if b.Endurance > 1 {
				b.Endurance = 1
			}
			t.EnduranceDelta = 0
		}
		done := true
		if h, ok := s.handlers.Lookup(t.Kind); ok {
			done = h.OnComplete(s, a, t)
		}
		if done {
			b.dequeueHead()
			a.InCombat = false
			s.visuals.SetMoving(a.ID, false)
			s.emit(protocol.Event{
				"t": nowTick, "type": protocol.EvTaskDone,
				"agent": a.ID, "task_id": t.TaskID, "kind": string(t.Kind),
			})
		}
		// Otherwise the task stays at the head (handler-specific retry).
	}
}

// playSound routes a keyed sound to the host and records it on the event
// stream.
func (s *Sim) playSound(a *Agent, key string, nowTick uint64) {
	s.sounds.Play(a.ID, key)
	s.emit(protocol.Event{"t": nowTick, "type": protocol.EvSound, "agent": a.ID, "key": key})
}

// soundAudible applies the max-hearing-distance gate: when the task carries
// one, the start sound plays only if some human is close enough to hear it.
func (s *Sim) soundAudible(a *Agent, t *tasks.Task) bool {
	if t.MaxHearDist <= 0 {
		return true
	}
	heard := false
	s.cache.Scan(a.Pos, t.MaxHearDist, func(e *CacheEntry) {
		if heard || e.Role != RolePlayer || e.Dead {
			return
		}
		p := Vec3{X: e.X, Y: e.Y, Z: e.Z}
		if dist2D(a.Pos, p) <= t.MaxHearDist {
			heard = true
		}
	})
	return heard
}

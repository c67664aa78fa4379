package world

import (
	"testing"

	"marauder.ai/internal/protocol"
	"marauder.ai/internal/sim/tasks"
)

func TestQueueFIFOHeadOnly(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)

	first := s.newTask(tasks.KindIdle, func(t *tasks.Task) { t.Remaining = 2 })
	second := s.newTask(tasks.KindIdle, func(t *tasks.Task) { t.Remaining = 2 })
	a.Brain.Enqueue(first, second)

	s.stepTaskQueue(a, 0)
	if first.State != tasks.StateWorking {
		t.Fatalf("first state = %v after start tick", first.State)
	}
	if second.State != tasks.StateNew {
		t.Fatalf("second task must stay NEW while the head runs")
	}

	// Run the head to completion; the second starts only afterwards.
	for i := 0; i < 3; i++ {
		s.stepTaskQueue(a, uint64(1+i))
	}
	if first.State != tasks.StateCompleted {
		t.Fatalf("first state = %v, want COMPLETED", first.State)
	}
	if a.Brain.Head() != second {
		t.Fatalf("head should have advanced to the second task")
	}
	if second.State != tasks.StateNew {
		t.Fatalf("second must not start on the dequeue tick")
	}
}

func TestQueueStateMonotonic(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	tk := s.newTask(tasks.KindIdle, func(t *tasks.Task) { t.Remaining = 3 })
	a.Brain.Enqueue(tk)

	prev := tk.State
	for i := 0; i < 10 && a.Brain.Head() != nil; i++ {
		s.stepTaskQueue(a, uint64(i))
		if tk.State < prev {
			t.Fatalf("state went backwards: %v -> %v", prev, tk.State)
		}
		prev = tk.State
	}
	if tk.State != tasks.StateCompleted {
		t.Fatalf("final state = %v", tk.State)
	}
}

func TestQueueImmediateStartCompletion(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	s.handlers.Register("PROBE", HandlerFuncs{
		Start: func(_ *Sim, _ *Agent, _ *tasks.Task) bool { return true },
	})

	tk := s.newTask("PROBE", func(t *tasks.Task) { t.Remaining = 500 })
	a.Brain.Enqueue(tk)

	s.stepTaskQueue(a, 0) // start hook zeroes the budget
	if tk.Remaining != 0 {
		t.Fatalf("remaining = %v after immediate-done start", tk.Remaining)
	}
	s.stepTaskQueue(a, 1)
	if tk.State != tasks.StateCompleted {
		t.Fatalf("state = %v, want COMPLETED on the next tick", tk.State)
	}
}

func TestQueueHandlerRetryKeepsHead(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)

	tries := 0
	s.handlers.Register("STICKY", HandlerFuncs{
		Complete: func(_ *Sim, _ *Agent, _ *tasks.Task) bool {
			tries++
			return tries >= 3
		},
	})
	tk := s.newTask("STICKY", func(t *tasks.Task) { t.Remaining = 1 })
	a.Brain.Enqueue(tk)

	for i := 0; i < 5 && a.Brain.Head() != nil; i++ {
		s.stepTaskQueue(a, uint64(i))
	}
	if tries != 3 {
		t.Fatalf("complete hook ran %d times, want 3", tries)
	}
	if a.Brain.Head() != nil {
		t.Fatalf("task should be dequeued after the hook reports done")
	}
}

func TestQueueEnduranceDeltaClamped(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	a.Brain.Endurance = 0.02

	tk := s.newTask(tasks.KindIdle, func(t *tasks.Task) {
		t.Remaining = 1
		t.EnduranceDelta = -0.5
	})
	a.Brain.Enqueue(tk)
	for i := 0; i < 4 && a.Brain.Head() != nil; i++ {
		s.stepTaskQueue(a, uint64(i))
	}
	if a.Brain.Endurance != 0 {
		t.Fatalf("endurance = %v, want clamp at 0", a.Brain.Endurance)
	}
}

func TestQueueInCombatFlag(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	addPlayer(s, "p1", 0.3, 0)
	s.rebuild()

	tk := s.newTask(tasks.KindShove, func(t *tasks.Task) {
		t.TargetID = "p1"
		t.Remaining = 2
	})
	a.Brain.Enqueue(tk)

	s.stepTaskQueue(a, 0)
	if !a.InCombat {
		t.Fatalf("shove in flight should set InCombat")
	}
	for i := 0; i < 4 && a.Brain.Head() != nil; i++ {
		s.stepTaskQueue(a, uint64(1+i))
	}
	if a.InCombat {
		t.Fatalf("InCombat should drop when the queue drains")
	}
}

func TestTaskIDsAreSequential(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	t1 := s.newTask(tasks.KindIdle, nil)
	t2 := s.newTask(tasks.KindIdle, nil)
	if t1.TaskID != "T000001" || t2.TaskID != "T000002" {
		t.Fatalf("ids = %q, %q", t1.TaskID, t2.TaskID)
	}
}

func TestSoundPlaysAreRecordedAsEvents(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	sink := &captureSink{}
	s.SetEventSink(sink)
	a := addBrained(s, "b1", 0, 0)
	armMelee(a, 1.1)

	a.Brain.Enqueue(s.newTask(tasks.KindIdle, func(t *tasks.Task) {
		t.Remaining = 1
		t.Sound = "WoodDoorOpen"
	}))
	drain(s, a, 10)

	evs := sink.events(protocol.EvSound)
	if len(evs) != 1 {
		t.Fatalf("sound events = %d, want 1", len(evs))
	}
	if evs[0]["key"] != "WoodDoorOpen" || evs[0]["agent"] != "b1" {
		t.Fatalf("sound event = %v", evs[0])
	}
}

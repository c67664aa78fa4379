package world

import (
	"testing"

	"marauder.ai/internal/sim/tasks"
)

func TestProgramStagesAdvance(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	armMelee(a, 1.1)

	var ran []string
	s.Programs().Register("walkabout", "out", func(s *Sim, a *Agent) ProgramResult {
		ran = append(ran, "out")
		return ProgramResult{OK: true, Next: "back", Tasks: []*tasks.Task{
			s.newTask(tasks.KindIdle, func(t *tasks.Task) { t.Remaining = 1 }),
		}}
	})
	s.Programs().Register("walkabout", "back", func(s *Sim, a *Agent) ProgramResult {
		ran = append(ran, "back")
		return ProgramResult{OK: true, Next: "out"}
	})
	a.SetProgram("walkabout", "out")

	// Tick 1 runs "out" and enqueues its task; while the task lives, the
	// program is paused.
	s.StepOnce(nil, nil)
	if len(ran) != 1 || ran[0] != "out" {
		t.Fatalf("ran = %v", ran)
	}
	if a.Brain.ProgramStage != "back" {
		t.Fatalf("stage = %q, want back", a.Brain.ProgramStage)
	}

	// Drain the queued task, then the next stage runs.
	for i := 0; i < 6 && len(ran) == 1; i++ {
		s.StepOnce(nil, nil)
	}
	if len(ran) < 2 || ran[1] != "back" {
		t.Fatalf("ran = %v, want back after the task drains", ran)
	}
}

func TestProgramUnknownDropsSilently(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	armMelee(a, 1.1)
	a.SetProgram("never_registered", "x")

	s.StepOnce(nil, nil)
	if a.Brain.ProgramName != "" {
		t.Fatalf("unknown program should detach, got %q", a.Brain.ProgramName)
	}
}

func TestProgramNotOKHoldsStage(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	a := addBrained(s, "b1", 0, 0)
	armMelee(a, 1.1)

	calls := 0
	s.Programs().Register("wait", "hold", func(s *Sim, a *Agent) ProgramResult {
		calls++
		return ProgramResult{OK: calls >= 3, Next: "done"}
	})
	s.Programs().Register("wait", "done", func(s *Sim, a *Agent) ProgramResult {
		return ProgramResult{}
	})
	a.SetProgram("wait", "hold")

	s.StepOnce(nil, nil)
	s.StepOnce(nil, nil)
	if a.Brain.ProgramStage != "hold" {
		t.Fatalf("stage advanced early: %q", a.Brain.ProgramStage)
	}
	s.StepOnce(nil, nil)
	if a.Brain.ProgramStage != "done" {
		t.Fatalf("stage = %q, want done after OK", a.Brain.ProgramStage)
	}
}

func TestAttachProgramDefersUntilBrain(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	stage := ""
	s.Programs().Register("patrol_test", "start", func(s *Sim, a *Agent) ProgramResult {
		stage = "ran"
		return ProgramResult{OK: true}
	})

	a := &Agent{ID: "n1", Role: RoleRival, Health: 1}
	s.AddAgent(a)
	armMelee(a, 1.1)
	s.AttachProgram("n1", "patrol_test", "start")
	if a.Brain != nil {
		t.Fatalf("no brain expected yet")
	}

	s.StepOnce([]string{"n1"}, nil)
	if a.Brain == nil || a.Brain.ProgramName != "patrol_test" {
		t.Fatalf("program should attach at banditize")
	}
	if stage != "ran" {
		t.Fatalf("first stage should run on the banditize tick")
	}
}

func TestDefaultPatrolProgramEnqueuesMovement(t *testing.T) {
	s, _ := newTestSim(t, 0.5)
	RegisterDefaultPrograms(s)
	a := addBrained(s, "b1", 10, 10)
	armMelee(a, 1.1)
	a.SetProgram("patrol", "")

	s.StepOnce(nil, nil)
	if !a.Brain.HasMoveTask() {
		t.Fatalf("patrol should enqueue a move task")
	}
}

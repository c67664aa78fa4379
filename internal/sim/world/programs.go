package world

import "marauder.ai/internal/sim/tasks"

// programAttach defers a program start until the agent's brain exists.
type programAttach struct {
	Name  string
	Stage string
}

// ProgramResult is one evaluated stage of a background behavior script.
type ProgramResult struct {
	OK    bool   // stage ran; advance to Next
	Next  string // next stage name, "" keeps the current stage
	Tasks []*tasks.Task
}

// ProgramFunc evaluates one stage for one agent.
type ProgramFunc func(s *Sim, a *Agent) ProgramResult

// ProgramRegistry maps program name -> stage name -> stage function.
// Programs persist across many ticks and run under combat/collision priority.
type ProgramRegistry map[string]map[string]ProgramFunc

func (r ProgramRegistry) Register(name, stage string, fn ProgramFunc) {
	m, ok := r[name]
	if !ok {
		m = map[string]ProgramFunc{}
		r[name] = m
	}
	m[stage] = fn
}

// SetProgram attaches a program to the agent's brain at its first stage.
func (a *Agent) SetProgram(name, stage string) {
	if a.Brain == nil {
		return
	}
	a.Brain.ProgramName = name
	a.Brain.ProgramStage = stage
}

// stepProgram evaluates at most one stage of the agent's active program.
// Any queued task outranks the program; an unknown program or stage is
// dropped silently (missing-state degrades to skip).
func (s *Sim) stepProgram(a *Agent) {
	b := a.Brain
	if b.ProgramName == "" || len(b.Tasks) > 0 {
		return
	}
	stages, ok := s.programs[b.ProgramName]
	if !ok {
		b.ProgramName = ""
		return
	}
	fn, ok := stages[b.ProgramStage]
	if !ok {
		b.ProgramName = ""
		return
	}
	res := fn(s, a)
	if !res.OK {
		return
	}
	if res.Next != "" {
		b.ProgramStage = res.Next
	}
	b.Enqueue(res.Tasks...)
}

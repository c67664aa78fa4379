package world

import "marauder.ai/internal/sim/tasks"

// Handler is the three-hook contract an action kind must implement. Each hook
// returns whether its phase is done. The queue engine is agnostic to what a
// handler does beyond this contract.
type Handler interface {
	OnStart(s *Sim, a *Agent, t *tasks.Task) bool
	OnWorking(s *Sim, a *Agent, t *tasks.Task) bool
	OnComplete(s *Sim, a *Agent, t *tasks.Task) bool
}

// HandlerFuncs adapts plain functions to Handler. Nil hooks default to
// "not done" for start/working and "done" for complete.
type HandlerFuncs struct {
	Start    func(s *Sim, a *Agent, t *tasks.Task) bool
	Working  func(s *Sim, a *Agent, t *tasks.Task) bool
	Complete func(s *Sim, a *Agent, t *tasks.Task) bool
}

func (h HandlerFuncs) OnStart(s *Sim, a *Agent, t *tasks.Task) bool {
	if h.Start == nil {
		return false
	}
	return h.Start(s, a, t)
}

func (h HandlerFuncs) OnWorking(s *Sim, a *Agent, t *tasks.Task) bool {
	if h.Working == nil {
		return false
	}
	return h.Working(s, a, t)
}

func (h HandlerFuncs) OnComplete(s *Sim, a *Agent, t *tasks.Task) bool {
	if h.Complete == nil {
		return true
	}
	return h.Complete(s, a, t)
}

// HandlerRegistry maps task kinds to handlers. Kinds without a handler run on
// the duration budget alone.
type HandlerRegistry map[tasks.Kind]Handler

func (r HandlerRegistry) Register(k tasks.Kind, h Handler) { r[k] = h }

func (r HandlerRegistry) Lookup(k tasks.Kind) (Handler, bool) {
	h, ok := r[k]
	return h, ok
}

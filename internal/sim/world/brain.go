package world

import "marauder.ai/internal/sim/tasks"

// Brain is the per-agent behavioral memory. It exists only while the agent is
// an active hostile; the scheduler creates and destroys it.
type Brain struct {
	// Task FIFO. Only the head is ever advanced; new tasks append.
	Tasks []*tasks.Task

	// Active background program, empty name when none.
	ProgramName  string
	ProgramStage string

	SpeechCooldown float64
	SoundCooldown  float64

	Endurance float64 // 0..1
	Infection int

	// VisualSeed belongs to the cosmetics layer; stored here so it persists
	// with the rest of the brain.
	VisualSeed int64
}

func newBrain(seed int64) *Brain {
	return &Brain{Endurance: 1, VisualSeed: seed}
}

// Head returns the task currently at the front of the queue, nil when idle.
func (b *Brain) Head() *tasks.Task {
	if b == nil || len(b.Tasks) == 0 {
		return nil
	}
	return b.Tasks[0]
}

func (b *Brain) Enqueue(ts ...*tasks.Task) {
	b.Tasks = append(b.Tasks, ts...)
}

// ClearTasks drops the entire queue unconditionally. Work already applied by
// partially-run tasks is not rolled back.
func (b *Brain) ClearTasks() {
	b.Tasks = b.Tasks[:0]
}

func (b *Brain) dequeueHead() {
	if len(b.Tasks) > 0 {
		copy(b.Tasks, b.Tasks[1:])
		b.Tasks = b.Tasks[:len(b.Tasks)-1]
	}
}

// HasTaskKind reports whether any queued task carries the given kind.
func (b *Brain) HasTaskKind(k tasks.Kind) bool {
	if b == nil {
		return false
	}
	for _, t := range b.Tasks {
		if t.Kind == k {
			return true
		}
	}
	return false
}

// HasMoveTask reports whether a movement-kind task is queued.
func (b *Brain) HasMoveTask() bool {
	if b == nil {
		return false
	}
	for _, t := range b.Tasks {
		if t.IsMovement() {
			return true
		}
	}
	return false
}

// HasActionTask reports whether a non-movement task is queued. Programs and
// the visuals layer use this to avoid fighting the combat selector.
func (b *Brain) HasActionTask() bool {
	if b == nil {
		return false
	}
	for _, t := range b.Tasks {
		if !t.IsMovement() {
			return true
		}
	}
	return false
}

package protocol

import "encoding/json"

const Version = "marauder/1"

// Event is a loosely typed per-tick decision event. Producers fill "t" (tick)
// and "type"; consumers (observer stream, decision log, replay) treat the rest
// as opaque.
type Event map[string]any

// Event types emitted by the sim core.
const (
	EvBranch    = "BRANCH"     // combat ladder branch chosen
	EvCollision = "COLLISION"  // collision resolver emitted a correction
	EvTaskStart = "TASK_START" // head task NEW -> WORKING
	EvTaskDone  = "TASK_DONE"  // head task completed and dequeued
	EvSound     = "SOUND"      // keyed sound actually played
	EvBanditize = "BANDITIZE"  // agent gained a brain
	EvRevert    = "REVERT"     // agent lost its brain
	EvCorpse    = "CORPSE"
)

// BaseMsg is the minimal envelope used to route observer messages.
type BaseMsg struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMsg, error) {
	var m BaseMsg
	err := json.Unmarshal(b, &m)
	return m, err
}

const (
	TypeHello = "HELLO"
	TypeTick  = "TICK"
)

// HelloMsg is the observer handshake.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SinceTick       uint64 `json:"since_tick,omitempty"`
}

// TickMsg carries one tick's decision events to observers.
type TickMsg struct {
	Type    string  `json:"type"`
	Tick    uint64  `json:"t"`
	Events  []Event `json:"events,omitempty"`
	Agents  int     `json:"agents"`
	Bandits int     `json:"bandits"`
}

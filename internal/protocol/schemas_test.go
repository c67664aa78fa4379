package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"marauder.ai/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	helloSchema := compile("hello.schema.json")
	tickSchema := compile("tick.schema.json")

	var hello any
	_ = json.Unmarshal([]byte(`{
	  "type":"HELLO",
	  "protocol_version":"marauder/1",
	  "since_tick":12
	}`), &hello)
	validate(helloSchema, hello)

	var tick any
	_ = json.Unmarshal([]byte(`{
	  "type":"TICK",
	  "t":42,
	  "agents":5,
	  "bandits":2,
	  "events":[
	    {"t":42,"type":"BRANCH","agent":"b1","branch":"melee","tasks":1},
	    {"t":42,"type":"TASK_START","agent":"b1","task_id":"T000001","kind":"MELEE"}
	  ]
	}`), &tick)
	validate(tickSchema, tick)
}

func TestSchemas_RoundTripTickMsg(t *testing.T) {
	msg := protocol.TickMsg{
		Type:    protocol.TypeTick,
		Tick:    7,
		Agents:  3,
		Bandits: 1,
		Events: []protocol.Event{
			{"t": uint64(7), "type": protocol.EvBanditize, "agent": "b1"},
		},
	}
	b, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "tick.schema.json"))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := s.Validate(v); err != nil {
		t.Fatalf("emitted TICK does not match schema: %v", err)
	}
}

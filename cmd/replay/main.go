// Command replay scans a sim's decision log and prints what the agents
// decided: per-tick event lines, or aggregate branch counts from the index.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"marauder.ai/internal/persistence/indexdb"
	persistlog "marauder.ai/internal/persistence/log"
	"marauder.ai/internal/protocol"
)

func main() {
	var (
		dataDir  = flag.String("data", "./data", "runtime data directory")
		simID    = flag.String("sim", "sim_1", "sim id")
		fromTick = flag.Uint64("from", 0, "first tick to show")
		toTick   = flag.Uint64("to", 0, "last tick to show (0 = end)")
		agentID  = flag.String("agent", "", "only show events for this agent")
		totals   = flag.Bool("totals", false, "print branch totals from the index instead of the log")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[replay] ", log.LstdFlags)

	if *totals {
		printTotals(logger, *dataDir, *simID, *fromTick, *toTick)
		return
	}

	segs, err := persistlog.ListSegments(filepath.Join(*dataDir, "decisions"), *simID)
	if err != nil {
		logger.Fatalf("list segments: %v", err)
	}
	if len(segs) == 0 {
		logger.Fatalf("no log segments for %s under %s", *simID, *dataDir)
	}

	shown, err := printEvents(os.Stdout, segs, *fromTick, *toTick, *agentID)
	if err != nil {
		logger.Fatalf("read: %v", err)
	}
	logger.Printf("%d events from %d segments", shown, len(segs))
}

// printEvents streams matching decision events from the given segments,
// returning the number of lines written.
func printEvents(out io.Writer, segs []string, fromTick, toTick uint64, agentID string) (int, error) {
	shown := 0
	for _, seg := range segs {
		err := persistlog.ReadSegment(seg, func(line []byte) error {
			var msg protocol.TickMsg
			if err := json.Unmarshal(line, &msg); err != nil {
				return nil // tolerate foreign lines
			}
			if msg.Tick < fromTick || (toTick > 0 && msg.Tick > toTick) {
				return nil
			}
			for _, e := range msg.Events {
				if agentID != "" && e["agent"] != agentID {
					continue
				}
				b, _ := json.Marshal(e)
				fmt.Fprintf(out, "tick=%d %s\n", msg.Tick, b)
				shown++
			}
			return nil
		})
		if err != nil {
			return shown, fmt.Errorf("read %s: %w", seg, err)
		}
	}
	return shown, nil
}

func printTotals(logger *log.Logger, dataDir, simID string, from, to uint64) {
	idx, err := indexdb.OpenSQLite(filepath.Join(dataDir, "index", simID+".db"))
	if err != nil {
		logger.Fatalf("open indexdb: %v", err)
	}
	defer idx.Close()

	tot, err := idx.BranchTotals(from, to)
	if err != nil {
		logger.Fatalf("branch totals: %v", err)
	}
	names := make([]string, 0, len(tot))
	for name := range tot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-20s %d\n", name, tot[name])
	}
}

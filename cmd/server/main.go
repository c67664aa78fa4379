package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"marauder.ai/internal/persistence/indexdb"
	persistlog "marauder.ai/internal/persistence/log"
	"marauder.ai/internal/protocol"
	"marauder.ai/internal/sim/scenario"
	"marauder.ai/internal/sim/tuning"
	"marauder.ai/internal/sim/world"
	"marauder.ai/internal/transport/observer"
)

func main() {
	var (
		addr          = flag.String("addr", ":8080", "http listen address")
		simID         = flag.String("sim", "sim_1", "sim id")
		seed          = flag.Int64("seed", 1337, "sim seed")
		tickRate      = flag.Int("tick_rate", 60, "ticks per second")
		configDir     = flag.String("configs", "./configs", "config directory")
		dataDir       = flag.String("data", "./data", "runtime data directory")
		tuningPath    = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		scenarioPath  = flag.String("scenario", "", "path to scenario.yaml (default: <configs>/scenario.yaml)")
		disableDB     = flag.Bool("disable_db", false, "disable the tick index database")
		noUnbarricade = flag.Bool("no_unbarricade", false, "agents always destroy barricades instead of prying them")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tun, err := tuning.Load(tp)
	if err != nil {
		logger.Fatalf("load tuning: %v", err)
	}
	if *tickRate > 0 {
		tun.TickRateHz = *tickRate
	}

	sp := *scenarioPath
	if sp == "" {
		sp = filepath.Join(*configDir, "scenario.yaml")
	}
	sc, err := scenario.Load(sp)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}

	grid := world.NewGrid(sc.DefaultLight)
	sim, err := world.New(world.SimConfig{
		ID:               *simID,
		TickRateHz:       tun.TickRateHz,
		Seed:             *seed,
		AllowUnbarricade: !*noUnbarricade,
	}, tun, grid, world.NewDefaultWeaponActions())
	if err != nil {
		logger.Fatalf("new sim: %v", err)
	}
	world.RegisterDefaultHandlers(sim, grid)
	world.RegisterDefaultPrograms(sim)

	if err := sc.Apply(sim, grid); err != nil {
		logger.Fatalf("apply scenario: %v", err)
	}
	logger.Printf("scenario %q: %d agents, %d obstacles", sc.Name, len(sc.Agents), len(sc.Obstacles))

	decisionLog := persistlog.NewJSONLZstdWriter(filepath.Join(*dataDir, "decisions"), *simID)
	defer decisionLog.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(*dataDir, "index", *simID+".db"))
		if err != nil {
			logger.Fatalf("open indexdb: %v", err)
		}
		defer idx.Close()
	}
	sim.SetEventSink(&tickSink{log: decisionLog, idx: idx})

	obs := observer.NewServer(sim, log.New(os.Stdout, "[observer] ", log.LstdFlags))
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observer/ws", obs.WSHandler())
	mux.HandleFunc("/v1/metrics", obs.MetricsHandler())

	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Printf("sim %s running at %d Hz", *simID, tun.TickRateHz)
	if err := sim.Run(ctx); err != nil && err != context.Canceled {
		logger.Printf("sim stopped: %v", err)
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutCancel()
	_ = httpSrv.Shutdown(shutCtx)
	logger.Printf("bye")
}

// tickSink fans each tick batch out to the compressed decision log and the
// summary index.
type tickSink struct {
	log *persistlog.JSONLZstdWriter
	idx *indexdb.SQLiteIndex
}

func (ts *tickSink) Write(v any) error {
	if err := ts.log.Write(v); err != nil {
		return err
	}
	if ts.idx == nil {
		return nil
	}
	msg, ok := v.(protocol.TickMsg)
	if !ok {
		return nil
	}
	sum := indexdb.TickSummary{
		Tick:     msg.Tick,
		Agents:   msg.Agents,
		Bandits:  msg.Bandits,
		Branches: map[string]int{},
	}
	for _, e := range msg.Events {
		switch e["type"] {
		case protocol.EvTaskStart:
			sum.TasksStarted++
		case protocol.EvTaskDone:
			sum.TasksDone++
		case protocol.EvBranch:
			if b, ok := e["branch"].(string); ok {
				sum.Branches[b]++
			}
		}
	}
	ts.idx.WriteTick(sum)
	return nil
}

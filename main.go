package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/robocore-labs/maze-rover/api"
	api_i "github.com/robocore-labs/maze-rover/api/i"
	"github.com/robocore-labs/maze-rover/api/simctl"
	"github.com/robocore-labs/maze-rover/config"
	"github.com/robocore-labs/maze-rover/console"
	"github.com/robocore-labs/maze-rover/logging"
	"github.com/robocore-labs/maze-rover/maze"
	"github.com/robocore-labs/maze-rover/persist"
	"github.com/robocore-labs/maze-rover/sim"
	"github.com/robocore-labs/maze-rover/telemetry"
)

// Global variables for dependencies
var (
	appLogger  logging.Logger
	simLogger  logging.Logger
	store      *persist.Store
	runsDB     *telemetry.DB
	hub        *sim.Hub
	engine     *sim.Engine
	controller api_i.Controller
	router     *api.Router
	activeMaze string
)

func initStore() {
	backend, err := persist.NewFileBackend(config.Envs.DataDir)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating persistence backend: %v", err))
		os.Exit(1)
	}
	store = persist.NewStore(backend)
	appLogger.Info("Persistence store initialized at " + backend.Dir())
}

func initTelemetry() {
	var err error
	runsDB, err = telemetry.Open(config.Envs.DBPath)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Opening run history database: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Run history database ready")
}

func initEngine() {
	w := config.Envs.MazeWidth
	h := config.Envs.MazeHeight
	truth := maze.New(w, h)
	maze.CloseAll(truth)
	maze.CarveDFS(truth, maze.Point{X: 0, Y: 0}, rand.New(rand.NewSource(time.Now().UnixNano())))
	activeMaze = fmt.Sprintf("generated_%dx%d", w, h)

	hub = sim.NewHub(simLogger)
	var err error
	engine, err = sim.NewEngine(sim.Config{
		Truth:           truth,
		Entrance:        maze.Point{X: 0, Y: 0},
		EntranceHeading: maze.East,
		Goal:            maze.Point{X: config.Envs.GoalX, Y: config.Envs.GoalY},
		Store:           store,
		Hub:             hub,
		Logger:          simLogger,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating simulation engine: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Simulation engine initialized")
}

// restorePersisted loads heuristics and the map snapshot saved by a
// previous session into the navigator, then replans over what is known.
func restorePersisted() {
	navigator := engine.Navigator()
	if h, ok := store.LoadHeuristics(); ok {
		navigator.SetHeuristics(h)
		appLogger.Printf("Heuristics restored: r=%.2f f=%.2f l=%.2f b=%.2f", h.WRight, h.WFront, h.WLeft, h.WBack)
	} else {
		appLogger.Info("No persisted heuristics, using defaults")
	}
	if store.LoadMapSnapshot(navigator.Map()) {
		navigator.PlanRoute()
		appLogger.Info("Map snapshot restored")
	} else {
		appLogger.Info("No persisted map snapshot")
	}
}

func initController() {
	var err error
	controller, err = simctl.New(engine, hub, store, runsDB, config.Envs.MazeDir, simLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating simulator controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Simulator controller initialized")
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{controller},
	})
	appLogger.Info("Router initialized")
}

// runControlLoop ticks the engine at the configured period and records
// each finished episode that reached the goal; an episode that ends
// without reaching it is only logged.
func runControlLoop() {
	ticker := time.NewTicker(time.Duration(config.Envs.TickMillis) * time.Millisecond)
	go func() {
		episodeStart := time.Now()
		recorded := false
		for range ticker.C {
			if !engine.Done() {
				if recorded {
					// A new episode was started through the API.
					recorded = false
					episodeStart = time.Now()
				}
				engine.Step()
				continue
			}
			if recorded {
				continue
			}
			recorded = true
			result := engine.Result()
			if !result.Reached {
				simLogger.Error("episode finished without reaching the goal")
				continue
			}
			if id, err := runsDB.RecordRun(activeMaze, result, time.Since(episodeStart)); err != nil {
				simLogger.Error(fmt.Sprintf("recording run: %v", err))
			} else {
				simLogger.Printf("run %s recorded: steps=%d collisions=%d cost=%d", id, result.Steps, result.Collisions, result.Cost)
			}
		}
	}()
}

func main() {
	appLogger, _ = logging.New("APP", config.ColorGreen, os.Stdout)
	simLogger, _ = logging.New("SIM", config.ColorCyan, os.Stdout)

	initStore()

	// Boot-time command window, mirroring the firmware console.
	console.Run(os.Stdin, os.Stdout, time.Duration(config.Envs.BootWindowMS)*time.Millisecond, store)

	initTelemetry()
	defer runsDB.Close()

	initEngine()
	restorePersisted()
	initController()
	initRouter()

	runControlLoop()

	if err := router.Run(); err != nil {
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	}
}

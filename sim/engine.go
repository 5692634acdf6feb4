/*
Package sim drives the navigation core through whole episodes against a
ground-truth maze.

The engine replaces the firmware's periodic timer: each Step performs
one control tick in the mandated order, sensing, observing, deciding,
and actuating the discrete pose. Reward shaping and the cost accounting
mirror the firmware loop, so learned heuristics transfer between the
simulator and the robot.
*/
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/robocore-labs/maze-rover/logging"
	"github.com/robocore-labs/maze-rover/maze"
	"github.com/robocore-labs/maze-rover/nav"
	"github.com/robocore-labs/maze-rover/persist"
)

// Reward shaping per executed action.
const (
	rewardForward = 0.3
	rewardTurn    = 0.2
	rewardBack    = -0.3
	rewardBlocked = -0.2

	// collisionCostWeight prices one collision in episode cost units.
	collisionCostWeight = 5

	// stepBudgetFactor bounds an exploration episode to W*H*factor
	// steps before it is declared failed.
	stepBudgetFactor = 8
)

// Engine errors.
var (
	ErrNoTruth        = errors.New("sim: ground-truth maze required")
	ErrPointOutOfMaze = errors.New("sim: entrance or goal outside the maze")
)

// Config assembles an episode engine.
type Config struct {
	Truth           *maze.Map      // ground-truth maze (required)
	Entrance        maze.Point     // start cell
	EntranceHeading maze.Dir       // start heading
	Goal            maze.Point     // goal cell
	Navigator       *nav.Navigator // decision core; nil creates a fresh one
	Store           *persist.Store // persistence for the goal handshake; optional
	Sensors         SensorFunc     // sensor model; nil selects the truthful one
	Hub             *Hub           // live state broadcast; optional
	Logger          logging.Logger // optional
}

// Result summarizes one finished episode.
type Result struct {
	Steps      int  `json:"steps"`
	Collisions int  `json:"collisions"`
	Cost       int  `json:"cost"`
	Reached    bool `json:"reached"`
}

// State is the broadcastable engine snapshot.
type State struct {
	Agent      maze.Point   `json:"agent"`
	Heading    uint8        `json:"heading"`
	Steps      int          `json:"steps"`
	Collisions int          `json:"collisions"`
	Cost       int          `json:"cost"`
	Reached    bool         `json:"reached"`
	Done       bool         `json:"done"`
	Plan       []maze.Point `json:"plan"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Walls      []uint8      `json:"walls"` // known map, NESW nibble per cell
	Visits     []uint8      `json:"visits"`
}

// Engine owns the episode state. All exported methods are safe for
// concurrent use; the control tick and the API read snapshots through
// the same lock.
type Engine struct {
	truth    *maze.Map
	entrance maze.Point
	entHead  maze.Dir
	goal     maze.Point
	nav      *nav.Navigator
	store    *persist.Store
	sensors  SensorFunc
	hub      *Hub
	logger   logging.Logger

	pos        maze.Point
	heading    maze.Dir
	steps      int
	collisions int
	maxSteps   int
	done       bool
	reached    bool

	sync.RWMutex
}

// NewEngine validates the configuration and prepares an engine at the
// entrance, ready for StartEpisode.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Truth == nil {
		return nil, ErrNoTruth
	}
	if !cfg.Truth.InBounds(cfg.Entrance.X, cfg.Entrance.Y) || !cfg.Truth.InBounds(cfg.Goal.X, cfg.Goal.Y) {
		return nil, ErrPointOutOfMaze
	}
	if cfg.Navigator == nil {
		cfg.Navigator = nav.New()
	}
	if cfg.Sensors == nil {
		cfg.Sensors = Sense
	}
	e := &Engine{
		truth:    cfg.Truth,
		entrance: cfg.Entrance,
		entHead:  cfg.EntranceHeading,
		goal:     cfg.Goal,
		nav:      cfg.Navigator,
		store:    cfg.Store,
		sensors:  cfg.Sensors,
		hub:      cfg.Hub,
		logger:   cfg.Logger,
		maxSteps: cfg.Truth.Width() * cfg.Truth.Height() * stepBudgetFactor,
	}
	e.resetLocked(false)
	return e, nil
}

// Navigator returns the decision core the engine drives.
func (e *Engine) Navigator() *nav.Navigator {
	return e.nav
}

// StartEpisode resets pose and counters for a fresh run. A warm start
// copies the ground-truth walls into the navigator's map, the
// simulator's replay mode; a cold start leaves the learned map empty so
// the agent explores.
func (e *Engine) StartEpisode(warm bool) {
	e.Lock()
	e.resetLocked(warm)
	e.Unlock()
	e.broadcast()
}

func (e *Engine) resetLocked(warm bool) {
	e.pos = e.entrance
	e.heading = e.entHead
	e.steps = 0
	e.collisions = 0
	e.done = false
	e.reached = false

	e.nav.SetMapDimensions(e.truth.Width(), e.truth.Height())
	e.nav.SetStartGoal(e.entrance, e.goal)
	if warm {
		e.nav.Map().CopyFrom(e.truth)
	}
	e.nav.PlanRoute()
}

// LoadMaze swaps in a new ground truth and endpoints and begins a fresh
// exploration episode.
func (e *Engine) LoadMaze(truth *maze.Map, entrance maze.Point, heading maze.Dir, goal maze.Point) error {
	if truth == nil {
		return ErrNoTruth
	}
	if !truth.InBounds(entrance.X, entrance.Y) || !truth.InBounds(goal.X, goal.Y) {
		return ErrPointOutOfMaze
	}
	e.Lock()
	e.truth = truth
	e.entrance = entrance
	e.entHead = heading
	e.goal = goal
	e.maxSteps = truth.Width() * truth.Height() * stepBudgetFactor
	e.resetLocked(false)
	e.Unlock()
	e.broadcast()
	return nil
}

// Step executes one control tick: sense, observe, decide, actuate, and
// account. Returns true when the episode has finished.
func (e *Engine) Step() bool {
	e.Lock()
	if e.done {
		e.Unlock()
		return true
	}

	sr := e.sensors(e.truth, e.pos, e.heading)
	e.nav.ObserveCellWalls(e.pos, sr, e.heading)
	if !e.nav.HasPlan() {
		e.nav.PlanRoute()
	}

	d := e.nav.DecidePlanned(e.pos, e.heading, sr)
	moved := e.actuate(d)
	if moved {
		e.steps++
	}

	if e.pos == e.goal {
		e.finishLocked()
	} else if e.steps >= e.maxSteps {
		e.done = true
		if e.logger != nil {
			e.logger.Error(fmt.Sprintf("episode failed: step budget %d exhausted", e.maxSteps))
		}
	}
	done := e.done
	e.Unlock()

	e.broadcast()
	return done
}

// actuate applies the decision to the discrete pose with the firmware's
// reward shaping. A Forward into a wall counts a collision, replans,
// and retries once with the fallback policy for this tick.
func (e *Engine) actuate(d nav.Decision) bool {
	if d.Action != nav.Forward {
		e.pos, e.heading = ApplyMove(e.pos, e.heading, d.Action)
		if d.Action == nav.Back {
			e.nav.ApplyReward(d.Action, rewardBack)
		} else {
			e.nav.ApplyReward(d.Action, rewardTurn)
		}
		return true
	}

	if CanMove(e.truth, e.pos, e.heading) {
		e.pos, e.heading = ApplyMove(e.pos, e.heading, d.Action)
		e.nav.ApplyReward(nav.Forward, rewardForward)
		return true
	}

	// Sensor/map inconsistency: log the collision, refresh the plan,
	// and fall back to the reactive policy for this tick.
	e.collisions++
	e.nav.ApplyReward(nav.Forward, rewardBlocked)
	if e.logger != nil {
		e.logger.Error(fmt.Sprintf("collision at (%d,%d) heading %s", e.pos.X, e.pos.Y, e.heading))
	}
	e.nav.PlanRoute()

	sr := e.sensors(e.truth, e.pos, e.heading)
	fallback := e.nav.Decide(sr)
	if fallback.Action == nav.Forward {
		if !CanMove(e.truth, e.pos, e.heading) {
			return false
		}
	}
	e.pos, e.heading = ApplyMove(e.pos, e.heading, fallback.Action)
	return true
}

// finishLocked runs the goal handshake: persist heuristics and the map
// snapshot, then invalidate the plan for the next episode.
func (e *Engine) finishLocked() {
	e.reached = true
	e.done = true
	if e.store != nil {
		if err := e.store.SaveHeuristics(e.nav.Heuristics()); err != nil && e.logger != nil {
			e.logger.Error(fmt.Sprintf("saving heuristics: %v", err))
		}
		if err := e.store.SaveMapSnapshot(e.nav.Map()); err != nil && e.logger != nil {
			e.logger.Error(fmt.Sprintf("saving map snapshot: %v", err))
		}
	}
	e.nav.ClearPlan()
	if e.logger != nil {
		e.logger.Printf("reached goal in %d steps, collisions=%d, cost=%d", e.steps, e.collisions, e.cost())
	}
}

func (e *Engine) cost() int {
	return e.steps + e.collisions*collisionCostWeight
}

// RunEpisode steps until the episode completes and returns its result.
func (e *Engine) RunEpisode(warm bool) Result {
	e.StartEpisode(warm)
	for !e.Step() {
	}
	return e.Result()
}

// Result returns the accounting of the current or last episode.
func (e *Engine) Result() Result {
	e.RLock()
	defer e.RUnlock()
	return Result{
		Steps:      e.steps,
		Collisions: e.collisions,
		Cost:       e.cost(),
		Reached:    e.reached,
	}
}

// Done reports whether the current episode has finished.
func (e *Engine) Done() bool {
	e.RLock()
	defer e.RUnlock()
	return e.done
}

// Snapshot captures the broadcastable state of the engine.
func (e *Engine) Snapshot() State {
	e.RLock()
	defer e.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() State {
	known := e.nav.Map()
	w := known.Width()
	h := known.Height()
	walls := make([]uint8, w*h)
	visits := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			walls[y*w+x] = known.At(x, y).Mask()
			visits[y*w+x] = e.nav.VisitCount(maze.Point{X: x, Y: y})
		}
	}
	plan := append([]maze.Point(nil), e.nav.CurrentPlan()...)
	return State{
		Agent:      e.pos,
		Heading:    uint8(e.heading),
		Steps:      e.steps,
		Collisions: e.collisions,
		Cost:       e.cost(),
		Reached:    e.reached,
		Done:       e.done,
		Plan:       plan,
		Width:      w,
		Height:     h,
		Walls:      walls,
		Visits:     visits,
	}
}

func (e *Engine) broadcast() {
	if e.hub == nil {
		return
	}
	e.hub.Broadcast(e.Snapshot())
}

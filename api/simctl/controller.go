// Package simctl exposes the simulator over HTTP: episode control,
// maze generation and loading, run history, and the live state stream.
package simctl

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/robocore-labs/maze-rover/logging"
	"github.com/robocore-labs/maze-rover/maze"
	"github.com/robocore-labs/maze-rover/mazefile"
	"github.com/robocore-labs/maze-rover/persist"
	"github.com/robocore-labs/maze-rover/sim"
	"github.com/robocore-labs/maze-rover/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Controller wires the simulator engine and its collaborators to HTTP.
type Controller struct {
	engine  *sim.Engine
	hub     *sim.Hub
	store   *persist.Store
	runs    *telemetry.DB
	mazeDir string
	logger  logging.Logger
}

// New initializes a simulator controller. The telemetry database is
// optional.
func New(engine *sim.Engine, hub *sim.Hub, store *persist.Store, runs *telemetry.DB, mazeDir string, logger logging.Logger) (*Controller, error) {
	if engine == nil || hub == nil || store == nil {
		return nil, fmt.Errorf("simctl: engine, hub, and store are required")
	}
	return &Controller{
		engine:  engine,
		hub:     hub,
		store:   store,
		runs:    runs,
		mazeDir: mazeDir,
		logger:  logger,
	}, nil
}

// Register mounts the simulator routes.
func (c *Controller) Register(route *gin.RouterGroup) {
	simGroup := route.Group("/sim")
	{
		simGroup.POST("/start", c.start)
		simGroup.GET("/state", c.state)
		simGroup.GET("/result", c.result)
	}

	mazes := route.Group("/mazes")
	{
		mazes.POST("", c.newMaze)
		mazes.GET("", c.listMazes)
		mazes.POST("/:name/load", c.loadMaze)
	}

	memory := route.Group("/memory")
	{
		memory.GET("/status", c.memoryStatus)
		memory.POST("/erase", c.memoryErase)
	}

	route.GET("/runs", c.recentRuns)
	route.GET("/live", c.live)
}

// start begins a fresh episode.
func (c *Controller) start(ctx *gin.Context) {
	var request StartRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && ctx.Request.ContentLength > 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.engine.StartEpisode(request.Warm)
	ctx.Status(http.StatusAccepted)
}

// state returns the current engine snapshot.
func (c *Controller) state(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.engine.Snapshot())
}

// result returns the accounting of the current or last episode.
func (c *Controller) result(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.engine.Result())
}

// newMaze generates a maze, saves it to the maze directory, and
// returns its file name.
func (c *Controller) newMaze(ctx *gin.Context) {
	var request NewMazeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Width < 2 || request.Height < 2 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "maze must be at least 2x2"})
		return
	}

	seed := request.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := maze.New(request.Width, request.Height)
	maze.CloseAll(m)
	rng := rand.New(rand.NewSource(seed))
	switch request.Algorithm {
	case "", "dfs":
		maze.CarveDFS(m, maze.Point{X: 0, Y: 0}, rng)
	case "wilson":
		maze.CarveWilson(m, rng)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown algorithm"})
		return
	}

	doc := mazefile.FromMap(m,
		mazefile.Pose{X: 0, Y: 0, Heading: uint8(maze.East)},
		maze.Point{X: request.Width - 1, Y: request.Height - 1},
		metaFromEnv(),
	)
	name := fmt.Sprintf("maze_%dx%d_%d.json", request.Width, request.Height, time.Now().Unix())
	if err := mazefile.Save(filepath.Join(c.mazeDir, name), doc); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, NewMazeResponse{Name: name})
}

// listMazes lists the saved maze files.
func (c *Controller) listMazes(ctx *gin.Context) {
	names, err := mazefile.List(c.mazeDir)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"mazes": names})
}

// loadMaze swaps the named maze into the engine and starts exploring.
func (c *Controller) loadMaze(ctx *gin.Context) {
	name := filepath.Base(ctx.Params.ByName("name"))
	doc, err := mazefile.Load(filepath.Join(c.mazeDir, name))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	m, err := doc.Map()
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	err = c.engine.LoadMaze(m,
		maze.Point{X: doc.Entrance.X, Y: doc.Entrance.Y},
		maze.Dir(doc.Entrance.Heading),
		doc.Goal,
	)
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusAccepted)
}

// memoryStatus reports the persistence status record.
func (c *Controller) memoryStatus(ctx *gin.Context) {
	st := c.store.Status()
	ctx.JSON(http.StatusOK, StatusResponse{
		SavedCount:    st.SavedCount,
		ActiveProfile: st.ActiveProfile,
	})
}

// memoryErase erases both persisted records.
func (c *Controller) memoryErase(ctx *gin.Context) {
	if err := c.store.EraseAll(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusOK)
}

// recentRuns returns the newest recorded episodes.
func (c *Controller) recentRuns(ctx *gin.Context) {
	if c.runs == nil {
		ctx.JSON(http.StatusOK, gin.H{"runs": []telemetry.Run{}})
		return
	}
	limit := 20
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	runs, err := c.runs.RecentRuns(limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"runs": runs})
}

// live upgrades to a WebSocket subscription on the state hub. The
// connection stays registered until the peer closes it.
func (c *Controller) live(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("upgrading live subscriber: " + err.Error())
		}
		return
	}
	id := c.hub.Subscribe(conn)
	c.hub.Broadcast(c.engine.Snapshot())

	go func() {
		defer c.hub.Unsubscribe(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func metaFromEnv() mazefile.Meta {
	return mazefile.Meta{
		Name:   os.Getenv("GIT_AUTHOR_NAME"),
		Email:  os.Getenv("GIT_AUTHOR_EMAIL"),
		Github: os.Getenv("GITHUB_PROFILE"),
		Date:   time.Now().Format(time.RFC3339),
	}
}

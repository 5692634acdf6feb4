package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP       string // Host IP for the control server
	RESTPort     int    // Port for the REST API
	GinMode      string // Mode for the Gin framework (e.g., release, debug, test)
	MazeWidth    int    // Maze width in cells
	MazeHeight   int    // Maze height in cells
	GoalX        int    // Goal cell column
	GoalY        int    // Goal cell row
	TickMillis   int    // Control tick period in milliseconds
	BootWindowMS int    // Boot console command window in milliseconds
	DataDir      string // Persistence directory; empty selects ~/.maze_rover
	MazeDir      string // Directory of saved maze files
	DBPath       string // SQLite run-history database path
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file when one is present.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:       getEnvWithDefault("HOST_IP", "127.0.0.1"),
		RESTPort:     getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:      getEnvWithDefault("GIN_MODE", "release"),
		MazeWidth:    getEnvAsIntWithDefault("MAZE_W", 8),
		MazeHeight:   getEnvAsIntWithDefault("MAZE_H", 8),
		GoalX:        getEnvAsIntWithDefault("GOAL_X", 7),
		GoalY:        getEnvAsIntWithDefault("GOAL_Y", 7),
		TickMillis:   getEnvAsIntWithDefault("TICK_MS", 250),
		BootWindowMS: getEnvAsIntWithDefault("BOOT_WINDOW_MS", 3000),
		DataDir:      getEnvWithDefault("DATA_DIR", ""),
		MazeDir:      getEnvWithDefault("MAZE_DIR", "maze"),
		DBPath:       getEnvWithDefault("DB_PATH", "runs.db"),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves the value of an environment variable as an integer or returns a
// default value if not set. A value that cannot be parsed is a fatal configuration error.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

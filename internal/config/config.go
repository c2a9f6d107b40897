package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the server reads at startup. Values come from
// the environment; a .env file is loaded first when present.
type Config struct {
	Addr           string
	AllowedOrigins []string
	LogLevel       string
	WordsFile      string

	// Room timing, all in whole seconds because the game ticks once a second.
	LobbyCountdown    int
	PreRoundCountdown int
	FinalCountdown    int
	GraceInterval     int

	// Scoring weights. The shape of the formula is fixed, the constants are
	// tuning values.
	RankWeight       float64
	ConfidenceWeight float64

	// When true, players who never submitted by the end of the grace window
	// are dropped from the room instead of just being excluded from results.
	RemoveIdlePlayers bool

	PingInterval time.Duration
}

func Load() Config {
	// Missing .env is fine, the environment may be set by the deployment.
	_ = godotenv.Load()

	return Config{
		Addr:              getString("ADDR", ":5000"),
		AllowedOrigins:    strings.Split(getString("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		LogLevel:          getString("LOG_LEVEL", "info"),
		WordsFile:         getString("WORDS_FILE", ""),
		LobbyCountdown:    getInt("LOBBY_COUNTDOWN", 300),
		PreRoundCountdown: getInt("PREROUND_COUNTDOWN", 15),
		FinalCountdown:    getInt("FINAL_COUNTDOWN", 5),
		GraceInterval:     getInt("GRACE_INTERVAL", 3),
		RankWeight:        getFloat("SCORE_RANK_WEIGHT", 400),
		ConfidenceWeight:  getFloat("SCORE_CONFIDENCE_WEIGHT", 100),
		RemoveIdlePlayers: getBool("REMOVE_IDLE_PLAYERS", true),
		PingInterval:      time.Duration(getInt("PING_INTERVAL", 30)) * time.Second,
	}
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

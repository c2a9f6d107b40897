package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 300, cfg.LobbyCountdown)
	assert.Equal(t, 15, cfg.PreRoundCountdown)
	assert.Equal(t, 5, cfg.FinalCountdown)
	assert.Equal(t, 3, cfg.GraceInterval)
	assert.Equal(t, 400.0, cfg.RankWeight)
	assert.Equal(t, 100.0, cfg.ConfidenceWeight)
	assert.True(t, cfg.RemoveIdlePlayers)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOBBY_COUNTDOWN", "60")
	t.Setenv("SCORE_RANK_WEIGHT", "250.5")
	t.Setenv("REMOVE_IDLE_PLAYERS", "false")
	t.Setenv("PING_INTERVAL", "10")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 60, cfg.LobbyCountdown)
	assert.Equal(t, 250.5, cfg.RankWeight)
	assert.False(t, cfg.RemoveIdlePlayers)
	assert.Equal(t, 10*time.Second, cfg.PingInterval)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("LOBBY_COUNTDOWN", "soon")
	t.Setenv("SCORE_RANK_WEIGHT", "lots")
	t.Setenv("REMOVE_IDLE_PLAYERS", "kinda")

	cfg := Load()

	assert.Equal(t, 300, cfg.LobbyCountdown)
	assert.Equal(t, 400.0, cfg.RankWeight)
	assert.True(t, cfg.RemoveIdlePlayers)
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ivan12/Pokedex/internal/game"
	"github.com/joho/godotenv"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Database *struct {
		Path string `json:"path"`
	} `json:"database"`
	// Battle tuning. Durations are milliseconds.
	Battle *struct {
		Weather         string `json:"weather"`
		AutoTurnDelayMS int    `json:"auto_turn_delay_ms"`
		OpenerDelayMS   int    `json:"opener_delay_ms"`
		LockDelayMS     int    `json:"lock_delay_ms"`
	} `json:"battle"`
	Invites *struct {
		TTLSeconds int `json:"ttl_seconds"`
	} `json:"invites"`
	Seed *struct {
		// Creature ids warmed into the cache at startup. Empty disables
		// background seeding.
		CreatureIDs []int `json:"creature_ids"`
	} `json:"seed"`
}

// LoadedConfig is the resolved runtime configuration.
type LoadedConfig struct {
	ServerAddress string
	DBPath        string

	Weather       game.Weather
	AutoTurnDelay time.Duration
	OpenerDelay   time.Duration
	LockDelay     time.Duration

	InviteTTL       time.Duration
	SeedCreatureIDs []int
}

var validWeather = map[game.Weather]bool{
	game.WeatherClear:     true,
	game.WeatherSun:       true,
	game.WeatherRain:      true,
	game.WeatherSnow:      true,
	game.WeatherSandstorm: true,
}

// LoadConfig reads the JSON configuration file at path. A missing file is
// an error; every key inside it is optional and falls back to a default.
// Environment variables from a local .env file are loaded first so the
// caller can rely on them afterwards.
func LoadConfig(path string) (*LoadedConfig, error) {
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := &LoadedConfig{
		ServerAddress: ":8080",
		DBPath:        "./data/pokearena.db",
		Weather:       game.WeatherClear,
		InviteTTL:     60 * time.Second,
	}

	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Database != nil && rc.Database.Path != "" {
		out.DBPath = rc.Database.Path
	}
	if rc.Battle != nil {
		if rc.Battle.Weather != "" {
			w := game.Weather(rc.Battle.Weather)
			if !validWeather[w] {
				return nil, fmt.Errorf("config file %s: unknown weather '%s'", path, rc.Battle.Weather)
			}
			out.Weather = w
		}
		out.AutoTurnDelay = time.Duration(rc.Battle.AutoTurnDelayMS) * time.Millisecond
		out.OpenerDelay = time.Duration(rc.Battle.OpenerDelayMS) * time.Millisecond
		out.LockDelay = time.Duration(rc.Battle.LockDelayMS) * time.Millisecond
	}
	if rc.Invites != nil && rc.Invites.TTLSeconds > 0 {
		out.InviteTTL = time.Duration(rc.Invites.TTLSeconds) * time.Second
	}
	if rc.Seed != nil {
		out.SeedCreatureIDs = rc.Seed.CreatureIDs
	}

	return out, nil
}

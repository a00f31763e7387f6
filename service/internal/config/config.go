// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphags/alphags/engine"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the server settings read from the environment.
type Config struct {
	Addr          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
	JWTSecret     string
	TurnDuration  time.Duration
	LogLevel      logrus.Level
	Rules         engine.HouseRules
}

// Load reads an optional .env file and then the ALPHAGS_* environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := &Config{
		Addr:          getenv("ALPHAGS_ADDR", ":8080"),
		RedisAddr:     os.Getenv("ALPHAGS_REDIS_ADDR"),
		RedisPassword: os.Getenv("ALPHAGS_REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("ALPHAGS_DATABASE_URL"),
		JWTSecret:     os.Getenv("ALPHAGS_JWT_SECRET"),
		Rules:         engine.DefaultHouseRules(),
	}

	var err error
	if cfg.RedisDB, err = intEnv("ALPHAGS_REDIS_DB", 0); err != nil {
		return nil, err
	}
	secs, err := intEnv("ALPHAGS_TURN_SECONDS", 30)
	if err != nil {
		return nil, err
	}
	cfg.TurnDuration = time.Duration(secs) * time.Second

	if cfg.LogLevel, err = logrus.ParseLevel(getenv("ALPHAGS_LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("config: ALPHAGS_LOG_LEVEL: %w", err)
	}

	if err := cfg.loadRules(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRules overrides the default house rules from the environment.
func (c *Config) loadRules() error {
	r := &c.Rules
	for _, v := range []struct {
		key string
		dst *uint8
	}{
		{"ALPHAGS_PLAYERS", &r.NumPlayers},
		{"ALPHAGS_GO_THRESHOLD", &r.GoThreshold},
		{"ALPHAGS_PI_BAK_MAX", &r.PiBakMax},
		{"ALPHAGS_PRESIDENT_TOKENS", &r.PresidentTokens},
	} {
		n, err := intEnv(v.key, int(*v.dst))
		if err != nil {
			return err
		}
		if n < 0 || n > 255 {
			return fmt.Errorf("config: %s out of range: %d", v.key, n)
		}
		*v.dst = uint8(n)
	}
	for _, v := range []struct {
		key string
		dst *bool
	}{
		{"ALPHAGS_BACK_DO", &r.BackDo},
		{"ALPHAGS_PI_BAK", &r.PiBak},
		{"ALPHAGS_GWANG_BAK", &r.GwangBak},
		{"ALPHAGS_MUNG_BAK", &r.MungBak},
		{"ALPHAGS_ASK_DOUBLE_PI", &r.AskDoublePi},
		{"ALPHAGS_PI_STEAL", &r.PiSteal},
	} {
		b, err := boolEnv(v.key, *v.dst)
		if err != nil {
			return err
		}
		*v.dst = b
	}
	return nil
}

// Validate checks settings that would make the server unusable.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: ALPHAGS_JWT_SECRET is required")
	}
	if c.TurnDuration < 0 {
		return errors.New("config: ALPHAGS_TURN_SECONDS must not be negative")
	}
	if n := c.Rules.NumPlayers; n != 2 && n != 3 {
		return fmt.Errorf("config: ALPHAGS_PLAYERS must be 2 or 3, got %d", n)
	}
	if c.Rules.GoThreshold == 0 {
		return errors.New("config: ALPHAGS_GO_THRESHOLD must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

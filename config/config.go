// Package config reads runtime settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bcdannyboy/ivsolve/volatility"
)

const (
	EnvLowerBound    = "IV_LOWER_BOUND"
	EnvUpperBound    = "IV_UPPER_BOUND"
	EnvTolerance     = "IV_TOLERANCE"
	EnvMaxIterations = "IV_MAX_ITERATIONS"
	EnvMethod        = "IV_METHOD"
	EnvDaysPerYear   = "IV_DAYS_PER_YEAR"
	EnvWorkers       = "IV_WORKERS"
	EnvSlackAppToken = "SLACK_APP_TOKEN"
	EnvSlackBotToken = "SLACK_BOT_TOKEN"

	DefaultDaysPerYear = 365.0
)

type Config struct {
	Search        volatility.Config
	DaysPerYear   float64
	Workers       int
	SlackAppToken string
	SlackBotToken string
}

// Load reads the given env files (".env" if none are named), skipping any
// that do not exist, then builds a Config from the process environment.
// Variables already set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Search:        volatility.DefaultConfig(),
		DaysPerYear:   DefaultDaysPerYear,
		Workers:       volatility.DefaultWorkers(),
		SlackAppToken: os.Getenv(EnvSlackAppToken),
		SlackBotToken: os.Getenv(EnvSlackBotToken),
	}

	var err error
	if cfg.Search.LowerBound, err = floatEnv(EnvLowerBound, cfg.Search.LowerBound); err != nil {
		return Config{}, err
	}
	if cfg.Search.UpperBound, err = floatEnv(EnvUpperBound, cfg.Search.UpperBound); err != nil {
		return Config{}, err
	}
	if cfg.Search.Tolerance, err = floatEnv(EnvTolerance, cfg.Search.Tolerance); err != nil {
		return Config{}, err
	}
	if cfg.Search.MaxIterations, err = intEnv(EnvMaxIterations, cfg.Search.MaxIterations); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvMethod); v != "" {
		if cfg.Search.Method, err = volatility.ParseMethod(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMethod, err)
		}
	}
	if cfg.DaysPerYear, err = floatEnv(EnvDaysPerYear, cfg.DaysPerYear); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = intEnv(EnvWorkers, cfg.Workers); err != nil {
		return Config{}, err
	}

	if err := cfg.Search.Validate(); err != nil {
		return Config{}, err
	}
	if !(cfg.DaysPerYear > 0) {
		return Config{}, fmt.Errorf("%s must be positive, got %v", EnvDaysPerYear, cfg.DaysPerYear)
	}
	if cfg.Workers <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", EnvWorkers, cfg.Workers)
	}
	return cfg, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

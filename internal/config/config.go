// Package config reads program settings from flags, falling back to
// GEMBOARD_* environment variables and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "GEMBOARD_"

type Config struct {
	LogLevel  string
	AssetsDir string
	Debug     bool
	Seed      uint64
}

// Load parses args (without the program name) for the program called name.
func Load(name string, args []string) (*Config, error) {
	_ = godotenv.Load()

	seed, err := envUint("SEED", 0)
	if err != nil {
		return nil, err
	}
	debug, err := envBool("DEBUG", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.AssetsDir, "assets", envString("ASSETS", ""), "load assets from this directory instead of the embedded copy")
	fs.BoolVar(&cfg.Debug, "debug", debug, "show the debug overlay")
	fs.Uint64Var(&cfg.Seed, "seed", seed, "board seed, 0 picks a random one")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	v := envString(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return b, nil
}

func envUint(key string, fallback uint64) (uint64, error) {
	v := envString(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

// ExitCode is the process status for a Load error: 0 when -h was asked for,
// 2 for anything else.
func ExitCode(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

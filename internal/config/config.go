// Package config resolves the settings shared by the courses CLI and server.
//
// Values are layered: built-in defaults, then courses.yaml (searched from the
// working directory up to the filesystem root), then COURSES_* environment
// variables, which may come from a .env file. Command line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	FileName  = "courses.yaml"
	EnvPrefix = "COURSES"
)

// Config holds the resolved settings. There are no envconfig defaults on
// purpose: they would clobber values read from the yaml file.
type Config struct {
	Region   string `yaml:"region" envconfig:"REGION"`
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`

	// Local serves DynamoDB calls from an embedded badger store.
	Local bool `yaml:"local" envconfig:"LOCAL"`
	// DBPath is the badger directory in local mode. Empty means in-memory.
	DBPath string `yaml:"dbPath" envconfig:"DB_PATH"`
	// Probe runs ListTables at startup and gates table lifecycle calls on it.
	Probe bool `yaml:"probe" envconfig:"PROBE"`

	Addr     string `yaml:"addr" envconfig:"ADDR"`
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	// Env is "development" for console logs.
	Env string `yaml:"env" envconfig:"ENV"`

	// File is the yaml file that was loaded, if any.
	File string `yaml:"-" ignored:"true"`
}

func Default() Config {
	return Config{
		Region:   "us-west-2",
		Endpoint: "http://localhost:8000",
		Probe:    true,
		Addr:     ":8080",
		LogLevel: "info",
	}
}

// Development reports whether logs should use the console writer.
func (c Config) Development() bool {
	return c.Env == "development"
}

// Load resolves the configuration for workDir.
func Load(workDir string) (Config, error) {
	cfg := Default()

	if path := findFile(workDir, FileName); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.File = path
	}

	// Variables already in the environment win over .env.
	if err := godotenv.Load(filepath.Join(workDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("process env: %w", err)
	}
	return cfg, nil
}

// findFile walks up from dir looking for name.
func findFile(dir, name string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Package config resolves service settings from defaults, an optional YAML
// file, a .env file, the environment and command line flags, in that order.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvFile is the dotenv file read by Load. A missing file is not an error.
var EnvFile = ".env"

type Config struct {
	GraphFile       string        `yaml:"graph_file"`
	ListenAddr      string        `yaml:"listen_addr"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	CacheSize       int           `yaml:"cache_size"`
	StrictEdges     bool          `yaml:"strict_edges"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// EnvFileLoaded reports whether EnvFile was found and read.
	EnvFileLoaded bool `yaml:"-"`
}

func Default() Config {
	return Config{
		GraphFile:       "data/graph.json",
		ListenAddr:      ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		CORSOrigins:     []string{"*"},
		CacheSize:       64,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration for the given command line arguments
// (without the program name).
func Load(args []string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("berlin-mapping-application", flag.ContinueOnError)
	configFile := fs.String("config", "", "YAML configuration file")
	graphFile := fs.String("graph", "", "graph file or table directory")
	listenAddr := fs.String("addr", "", "listen address")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	dotenv, err := godotenv.Read(EnvFile)
	switch {
	case err == nil:
		cfg.EnvFileLoaded = true
	case os.IsNotExist(errors.Cause(err)):
		dotenv = map[string]string{}
	default:
		return cfg, errors.Wrapf(err, "read %s", EnvFile)
	}
	env := environment{dotenv: dotenv}

	path := *configFile
	if path == "" {
		path, _ = env.lookup("CONFIG_FILE")
	}
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := env.apply(&cfg); err != nil {
		return cfg, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "graph":
			cfg.GraphFile = *graphFile
		case "addr":
			cfg.ListenAddr = *listenAddr
		}
	})

	return cfg, cfg.Validate()
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config file")
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", path)
	}
	return nil
}

// environment resolves a variable from the process, falling back to the .env file
// when the process value is unset or blank.
type environment struct {
	dotenv map[string]string
}

func (e environment) apply(cfg *Config) error {
	if v, ok := e.lookup("GRAPH_FILE"); ok {
		cfg.GraphFile = v
	}
	if v, ok := e.lookup("LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := e.lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := e.lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := e.lookup("CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := e.lookup("CACHE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "CACHE_SIZE")
		}
		cfg.CacheSize = n
	}
	if v, ok := e.lookup("STRICT_EDGES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "STRICT_EDGES")
		}
		cfg.StrictEdges = b
	}
	if v, ok := e.lookup("SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "SHUTDOWN_TIMEOUT")
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func (e environment) lookup(key string) (string, bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v, true
	}
	v := strings.TrimSpace(e.dotenv[key])
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.GraphFile) == "" {
		return errors.New("graph file must be set")
	}
	if c.CacheSize <= 0 {
		return errors.Errorf("cache size must be positive, got %d", c.CacheSize)
	}
	for _, o := range c.CORSOrigins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return errors.Errorf("cors origin %q must be * or start with http:// or https://", o)
		}
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must not be negative")
	}
	return nil
}

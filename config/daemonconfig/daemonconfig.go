// Package daemonconfig loads the daemon's own ambient settings — bind
// address, default command-config path, log level/format/file, and the
// click classifier's thresholds. This is distinct from config.Compile,
// which parses the horsetab command-configuration file; daemonconfig
// never touches the dot/dash command grammar.
package daemonconfig

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings holds the daemon's ambient configuration.
type Settings struct {
	// Host/Port for the HTTP control surface.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ConfigPath is the horsetab command-configuration file
	// (default: ~/.horsetab.conf).
	ConfigPath string `yaml:"config_path"`

	// LogLevel/LogFormat/LogFile configure logging.Config.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file"`

	// LongMS/GapMS are the click classifier's quantization thresholds.
	LongMS int64 `yaml:"long_ms"`
	GapMS  int64 `yaml:"gap_ms"`
}

// Defaults returns the baseline settings before any file or
// environment overrides are applied.
func Defaults() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		Host:       "127.0.0.1",
		Port:       7878,
		ConfigPath: filepath.Join(home, ".horsetab.conf"),
		LogLevel:   "info",
		LogFormat:  "text",
		LongMS:     200,
		GapMS:      500,
	}
}

// Load builds Settings from, in increasing priority: built-in
// defaults, an optional YAML file at yamlPath, and a .env file loaded
// through godotenv (if present) applying HORSETAB_* overrides. It
// never fails on a missing file — only on a malformed one.
func Load(yamlPath string) (Settings, error) {
	s := Defaults()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if uerr := yaml.Unmarshal(data, &s); uerr != nil {
				return s, uerr
			}
		} else if !os.IsNotExist(err) {
			return s, err
		}
	}

	// godotenv.Load is a no-op (returns an error we ignore) when no
	// .env file is present; overrides land in the process environment.
	_ = godotenv.Load()
	applyEnvOverrides(&s)

	return s, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("HORSETAB_HOST"); v != "" {
		s.Host = v
	}
	if v := os.Getenv("HORSETAB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			s.Port = p
		}
	}
	if v := os.Getenv("HORSETAB_CONFIG_PATH"); v != "" {
		s.ConfigPath = v
	}
	if v := os.Getenv("HORSETAB_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("HORSETAB_LOG_FORMAT"); v != "" {
		s.LogFormat = v
	}
	if v := os.Getenv("HORSETAB_LOG_FILE"); v != "" {
		s.LogFile = v
	}
}


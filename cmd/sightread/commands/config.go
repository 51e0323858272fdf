package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Conceptual-Machines/sightread-api/internal/models"
)

const (
	appDirName        = "sightread"
	defaultConfigFile = "config.yaml"
	libraryDirName    = "library"
)

// Defaults are the generation parameters used when a flag is not given.
type Defaults struct {
	Key          string `yaml:"key"`
	Bars         int    `yaml:"bars"`
	Tempo        int    `yaml:"tempo"`
	TimeSig      string `yaml:"time_sig"`
	NoteDensity  int    `yaml:"note_density"`
	LowestPitch  string `yaml:"lowest_pitch"`
	HighestPitch string `yaml:"highest_pitch"`
}

// Config is the CLI configuration file.
type Config struct {
	// Defaults for the generate command.
	Defaults Defaults `yaml:"defaults"`

	// DataDir holds the BadgerDB library. Default: <config dir>/library
	DataDir string `yaml:"data_dir"`

	// Locale selects the message language (en, es, de). Default: $LANG
	Locale string `yaml:"locale"`

	// Width is the layout width used for terminal sheets.
	Width int `yaml:"width"`

	path string
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	p := models.DefaultParams()
	return &Config{
		Defaults: Defaults{
			Key:          p.Key,
			Bars:         p.Bars,
			Tempo:        p.Tempo,
			TimeSig:      p.TimeSig,
			NoteDensity:  p.NoteDensity,
			LowestPitch:  p.LowestPitch,
			HighestPitch: p.HighestPitch,
		},
		Width: 1000,
	}
}

// Params converts the defaults to generation parameters.
func (d Defaults) Params() models.ScoreParams {
	return models.ScoreParams{
		Key:          d.Key,
		Bars:         d.Bars,
		Tempo:        d.Tempo,
		TimeSig:      d.TimeSig,
		NoteDensity:  d.NoteDensity,
		LowestPitch:  d.LowestPitch,
		HighestPitch: d.HighestPitch,
	}
}

// defaultConfigPath returns <user config dir>/sightread/config.yaml.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, defaultConfigFile), nil
}

// LoadConfig reads the configuration at path, creating it with defaults if
// it does not exist. An empty path uses the default location.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = defaultConfigPath(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// LibraryDir returns the BadgerDB directory.
func (c *Config) LibraryDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(filepath.Dir(c.path), libraryDirName)
}

// Language returns the configured locale, falling back to $LANG.
func (c *Config) Language() string {
	if c.Locale != "" {
		return c.Locale
	}
	return posixLocale(os.Getenv("LANG"))
}

// posixLocale turns a POSIX locale such as "de_DE.UTF-8" into a BCP 47 tag.
func posixLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

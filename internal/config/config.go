package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kayz/promptfile/internal/options"
)

var (
	exeDirCache string
)

// getExecutableDir returns the directory where the executable is located
func getExecutableDir() string {
	if exeDirCache != "" {
		return exeDirCache
	}
	execPath, err := os.Executable()
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		exeDirCache = "."
		return exeDirCache
	}
	exeDirCache = filepath.Dir(execPath)
	return exeDirCache
}

type Config struct {
	// Profile is the options profile used when a command does not name one.
	Profile string        `yaml:"profile"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
}

// LibraryConfig locates the SQLite prompt library.
type LibraryConfig struct {
	// Path is resolved against the config file's directory when relative.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	// File receives log output instead of stderr when set.
	File string `yaml:"file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Profile: string(options.Generation),
		Library: LibraryConfig{
			Path: filepath.Join(".promptfile", "library.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func ConfigPath() string {
	return filepath.Join(getExecutableDir(), ".promptfile.yaml")
}

// Load reads the config next to the executable. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFromPath(ConfigPath())
}

// LoadFromPath reads the config at path over the defaults. A missing file is
// not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if _, err := options.ParseProfile(cfg.Profile); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Library.Path) {
		cfg.Library.Path = filepath.Join(filepath.Dir(path), cfg.Library.Path)
	}

	return cfg, nil
}

// ProfileValue returns the configured profile, falling back to generation.
func (c *Config) ProfileValue() options.Profile {
	p, err := options.ParseProfile(c.Profile)
	if err != nil {
		return options.Generation
	}
	return p
}

func (c *Config) Save() error {
	return c.SaveToPath(ConfigPath())
}

func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

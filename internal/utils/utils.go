package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "sqtab.yaml"

// ErrNoConfig is returned by FindConfigFile when no config file exists.
var ErrNoConfig = errors.New("no config file found in project or ~/.sqtab/config.yaml")

// AIConfig configures the optional language-model call of analyze.
type AIConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// Config is the content of sqtab.yaml.
type Config struct {
	DBPath    string   `yaml:"db_path"`
	ExportDir string   `yaml:"export_dir"`
	LogPath   string   `yaml:"log_path"`
	SeqURL    string   `yaml:"seq_url,omitempty"`
	AI        AIConfig `yaml:"ai"`

	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-"`
}

// DefaultConfig returns the settings used when no config file is found.
func DefaultConfig() *Config {
	return &Config{
		DBPath:    "database.db",
		ExportDir: "exports",
		LogPath:   "sqtab.log",
		AI:        AIConfig{Model: "gpt-4o-mini"},
	}
}

// FindConfigFile tries to find the sqtab config file in the current directory
// or any parent directory, falling back to the global config if needed
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %v", err)
	}
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root directory
		}
		dir = parent
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", ErrNoConfig
	}

	globalConfig := filepath.Join(homeDir, ".sqtab", "config.yaml")
	if _, err := os.Stat(globalConfig); err == nil {
		return globalConfig, nil
	}

	return "", ErrNoConfig
}

// ReadConfig reads a config file. Missing fields keep their defaults and
// relative paths are resolved against the file's directory.
func ReadConfig(configPath string) (*Config, error) {
	config, err := ParseConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	config.Root = filepath.Dir(configPath)
	config.resolve()
	return config, nil
}

// ParseConfigFile reads a config file over the defaults without resolving
// relative paths.
func ParseConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %v", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %v", err)
	}
	return config, nil
}

// LoadConfig reads configPath when given, otherwise the discovered config
// file, otherwise the defaults rooted at the working directory.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		return ReadConfig(configPath)
	}

	found, err := FindConfigFile()
	if err == nil {
		return ReadConfig(found)
	}
	if !errors.Is(err, ErrNoConfig) {
		return nil, err
	}

	config := DefaultConfig()
	if config.Root, err = os.Getwd(); err != nil {
		return nil, fmt.Errorf("getting working directory: %v", err)
	}
	config.resolve()
	return config, nil
}

// WriteConfig writes config as YAML to configPath.
func WriteConfig(configPath string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("creating yaml: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %v", err)
	}
	return nil
}

// GetExportPath returns the default destination for exporting table.
func GetExportPath(exportDir, table string) string {
	return filepath.Join(exportDir, table+".csv")
}

func (c *Config) resolve() {
	c.DBPath = c.abs(c.DBPath)
	c.ExportDir = c.abs(c.ExportDir)
	c.LogPath = c.abs(c.LogPath)
}

func (c *Config) abs(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Root == "" {
		return path
	}
	return filepath.Join(c.Root, path)
}

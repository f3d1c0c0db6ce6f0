package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is ~/.socialgraph/config.yaml.
type configFile struct {
	// Flat format
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	LogLevel    string `yaml:"log_level"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

type configProfile struct {
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	LogLevel    string `yaml:"log_level"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".socialgraph", "config.yaml"), nil
}

// loadConfigFile reads the config file. A missing file is not an error.
func loadConfigFile() (*configFile, error) {
	path, err := configPath()
	if err != nil {
		return &configFile{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &configFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// resolve returns the profile selected by name, falling back to the active
// profile, then "default", then the flat fields.
func (c *configFile) resolve(name string) (configProfile, error) {
	flat := configProfile{DatabaseURL: c.DatabaseURL, SQLitePath: c.SQLitePath, LogLevel: c.LogLevel}

	if name == "" {
		name = c.ActiveProfile
	}
	if name == "" {
		name = "default"
	}

	p, ok := c.Profiles[name]
	if !ok {
		if name != "default" && name != c.ActiveProfile {
			return configProfile{}, fmt.Errorf("profile %q not found", name)
		}
		return flat, nil
	}

	if p.DatabaseURL == "" && p.SQLitePath == "" {
		p.DatabaseURL, p.SQLitePath = flat.DatabaseURL, flat.SQLitePath
	}
	if p.LogLevel == "" {
		p.LogLevel = flat.LogLevel
	}

	return p, nil
}

// resolveConfig fills unset flags. Flag takes precedence, then env, then
// config file.
func resolveConfig(flags *globalFlags) error {
	if flags.databaseURL == "" && flags.sqlitePath == "" {
		flags.databaseURL = os.Getenv("DATABASE_URL")
		flags.sqlitePath = os.Getenv("SQLITE_PATH")
	}
	if flags.logLevel == "" {
		flags.logLevel = os.Getenv("LOG_LEVEL")
	}

	file, err := loadConfigFile()
	if err != nil {
		return err
	}

	p, err := file.resolve(flags.profile)
	if err != nil {
		return err
	}

	if flags.databaseURL == "" && flags.sqlitePath == "" {
		flags.databaseURL = p.DatabaseURL
		flags.sqlitePath = p.SQLitePath
	}
	if flags.logLevel == "" {
		flags.logLevel = p.LogLevel
	}
	if flags.logLevel == "" {
		flags.logLevel = "warn"
	}

	return nil
}

// Package vcsconfig implements the repository's author config
// ("user.name"/"user.email"), stored at "<vcsRoot>/config" as YAML —
// grounded on KDT2006-mygit/main.go's handleConfig surface, rebuilt here
// since the teacher's own config.go was not part of the retrieved source.
package vcsconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the repository-level author identity.
type Config struct {
	User struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"user"`
}

// Store reads and writes a Config at "<vcsRoot>/config".
type Store struct {
	path string
}

// NewStore returns a Store rooted at vcsRoot (the ".VCS" directory).
func NewStore(vcsRoot string) *Store {
	return &Store{path: filepath.Join(vcsRoot, "config")}
}

// Load reads the config file, returning a zero-value Config if it does
// not exist yet.
func (s *Store) Load() (Config, error) {
	var cfg Config

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to disk.
func (s *Store) Save(cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Get returns the value at key ("user.name" or "user.email").
func (s *Store) Get(key string) (string, error) {
	cfg, err := s.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "user.name":
		return cfg.User.Name, nil
	case "user.email":
		return cfg.User.Email, nil
	default:
		return "", fmt.Errorf("config: unknown key %q", key)
	}
}

// Set updates the value at key and persists the config.
func (s *Store) Set(key, value string) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}

	switch key {
	case "user.name":
		cfg.User.Name = value
	case "user.email":
		cfg.User.Email = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}

	return s.Save(cfg)
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigEnvVar overrides the settings file location.
	ConfigEnvVar = "GIT_MOB_CONFIG"

	appDir     = "git-mob"
	configName = "config.yaml"
)

// Storage backends.
const (
	BackendGit    = "git"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Git config scopes accepted in GitSettings.Scope.
var validScopes = []string{"global", "local", "system", "file"}

type Config struct {
	Backend   string         `yaml:"backend"`   // git | file | sqlite
	Namespace string         `yaml:"namespace"` // config section holding the entries
	Git       GitSettings    `yaml:"git"`
	File      FileSettings   `yaml:"file"`
	SQLite    SQLiteSettings `yaml:"sqlite"`
}

type GitSettings struct {
	Program string `yaml:"program"` // git executable
	Scope   string `yaml:"scope"`   // global | local | system | file
	File    string `yaml:"file"`    // config file used with scope "file"
	Dir     string `yaml:"dir"`     // working directory for git; selects the repository for scope "local"
}

type FileSettings struct {
	Path string `yaml:"path"`
}

type SQLiteSettings struct {
	Path string `yaml:"path"`
}

// Default configuration
func defaultConfig() *Config {
	dir := configDir()
	return &Config{
		Backend:   BackendGit,
		Namespace: "coauthors",
		Git: GitSettings{
			Program: "git",
			Scope:   "global",
		},
		File: FileSettings{
			Path: filepath.Join(dir, "coauthors"),
		},
		SQLite: SQLiteSettings{
			Path: filepath.Join(dir, "coauthors.db"),
		},
	}
}

// configDir returns $XDG_CONFIG_HOME/git-mob, falling back to
// ~/.config/git-mob.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultPath returns the settings file used when neither --config nor
// GIT_MOB_CONFIG is given.
func DefaultPath() string {
	return filepath.Join(configDir(), configName)
}

// ResolvePath picks the settings file: the explicit path first, then
// GIT_MOB_CONFIG, then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}
	return DefaultPath()
}

// Load reads the settings file at path. A missing file yields the defaults
// and is not created.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	mergeWithDefaults(&config)
	config.expandPaths()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

func mergeWithDefaults(config *Config) {
	defaults := defaultConfig()

	if config.Backend == "" {
		config.Backend = defaults.Backend
	}
	if config.Namespace == "" {
		config.Namespace = defaults.Namespace
	}
	if config.Git.Program == "" {
		config.Git.Program = defaults.Git.Program
	}
	if config.Git.Scope == "" {
		config.Git.Scope = defaults.Git.Scope
	}
	if config.File.Path == "" {
		config.File.Path = defaults.File.Path
	}
	if config.SQLite.Path == "" {
		config.SQLite.Path = defaults.SQLite.Path
	}
}

func (c *Config) expandPaths() {
	c.Git.File = expandHome(c.Git.File)
	c.Git.Dir = expandHome(c.Git.Dir)
	c.File.Path = expandHome(c.File.Path)
	c.SQLite.Path = expandHome(c.SQLite.Path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate checks the backend and its settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGit:
		if !contains(validScopes, c.Git.Scope) {
			return fmt.Errorf("unknown git scope %q (want one of %s)", c.Git.Scope, strings.Join(validScopes, ", "))
		}
		if c.Git.Scope == "file" && c.Git.File == "" {
			return fmt.Errorf("git scope \"file\" requires git.file")
		}
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want git, file or sqlite)", c.Backend)
	}
	if strings.ContainsAny(c.Namespace, ". \t") {
		return fmt.Errorf("namespace %q must be a single config section name", c.Namespace)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

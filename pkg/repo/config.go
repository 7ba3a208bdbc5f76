package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

// Config stores repository-local settings.
//
//	[core]
//	default_branch = "master"
//	ignore = ["env", "*.tmp"]
//
//	[remote.origin]
//	path = "/srv/repos/project"
type Config struct {
	Core    CoreConfig              `toml:"core"`
	Remotes map[string]RemoteConfig `toml:"remote,omitempty"`
}

// CoreConfig holds working-tree settings.
type CoreConfig struct {
	DefaultBranch string   `toml:"default_branch"`
	Ignore        []string `toml:"ignore,omitempty"` // extra ignored names or globs, matched per path component
}

// RemoteConfig names a filesystem location holding another repository.
type RemoteConfig struct {
	Path string `toml:"path"`
}

// DefaultConfig returns the settings written by Init.
func DefaultConfig() *Config {
	return &Config{
		Core:    CoreConfig{DefaultBranch: "master"},
		Remotes: make(map[string]RemoteConfig),
	}
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.Core.DefaultBranch) == "" {
		c.Core.DefaultBranch = "master"
	}
	if c.Remotes == nil {
		c.Remotes = make(map[string]RemoteConfig)
	}
}

func (r *Repo) configPath() string {
	return filepath.Join(r.Dir, configFileName)
}

// ReadConfig reads .twig/config.toml. A missing file yields DefaultConfig.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(r.configPath(), cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// WriteConfig atomically replaces .twig/config.toml and refreshes the ignore
// predicate.
func (r *Repo) WriteConfig(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.normalize()
	if err := writeConfigFile(r.Dir, cfg); err != nil {
		return err
	}
	r.ignore = NewIgnoreChecker(cfg.Core.Ignore...)
	return nil
}

func writeConfigFile(dir string, cfg *Config) error {
	tmp, err := os.CreateTemp(dir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, configFileName)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// SetRemote stores or updates a named remote location.
func (r *Repo) SetRemote(name, path string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("set remote: remote name is required")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("set remote: remote path is required")
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	cfg.Remotes[name] = RemoteConfig{Path: path}
	return r.WriteConfig(cfg)
}

// RemotePath maps a configured remote name to its location. Anything that
// is not a configured name is returned unchanged as a literal path.
func (r *Repo) RemotePath(nameOrPath string) (string, error) {
	nameOrPath = strings.TrimSpace(nameOrPath)
	if nameOrPath == "" {
		return "", fmt.Errorf("remote name or path is required")
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	if rc, ok := cfg.Remotes[nameOrPath]; ok && strings.TrimSpace(rc.Path) != "" {
		return rc.Path, nil
	}
	return nameOrPath, nil
}

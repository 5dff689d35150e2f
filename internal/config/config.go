// Package config loads memodesk.yaml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/pill"
)

// FileName is the config file looked up in the store root.
const FileName = "memodesk.yaml"

// Environment overrides.
const (
	EnvStore   = "MEMODESK_STORE"
	EnvAdapter = "MEMODESK_ADAPTER"
	EnvAddr    = "MEMODESK_ADDR"
	EnvUser    = "MEMODESK_USER"
)

// Config is the on-disk configuration.
type Config struct {
	Store       string       `yaml:"store"`
	Adapter     string       `yaml:"adapter"`
	FilesDir    string       `yaml:"files_dir"`
	Addr        string       `yaml:"addr"`
	User        string       `yaml:"user"`
	PageSize    int          `yaml:"page_size"`
	SearchDelay Duration     `yaml:"search_delay"`
	FormSchema  string       `yaml:"form_schema"`
	Pills       []PillConfig `yaml:"pills"`
}

// PillConfig declares a custom pill. With no include list the pill uses the
// default status match.
type PillConfig struct {
	ID         string   `yaml:"id"`
	Label      string   `yaml:"label"`
	Icon       string   `yaml:"icon"`
	AppliesTo  []string `yaml:"applies_to"`
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	ShowAvatar *bool    `yaml:"show_avatar"`
}

// Duration reads Go duration strings ("500ms") or plain milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if ms, err := strconv.Atoi(n.Value); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", n.Value, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:       ".",
		Adapter:     "fs",
		FilesDir:    "files",
		Addr:        ":8080",
		PageSize:    2,
		SearchDelay: Duration(500 * time.Millisecond),
	}
}

// Load reads path over the defaults and applies the environment. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store = v
	}
	if v, ok := lookup(EnvAdapter); ok && v != "" {
		c.Adapter = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvUser); ok {
		c.User = v
	}
}

// Validate checks the adapter name and the pill declarations.
func (c Config) Validate() error {
	switch c.Adapter {
	case "fs", "sqlite":
	default:
		return fmt.Errorf("unknown adapter %q", c.Adapter)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative")
	}
	seen := map[string]bool{}
	for _, p := range c.Pills {
		if p.ID == "" {
			return fmt.Errorf("pill without id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate pill %q", p.ID)
		}
		seen[p.ID] = true
		for _, page := range p.AppliesTo {
			if _, err := memo.ParsePage(page); err != nil {
				return fmt.Errorf("pill %q: %w", p.ID, err)
			}
		}
	}
	return nil
}

// Catalog returns the configured pills, or the default catalog when none are
// declared.
func (c Config) Catalog() *pill.Catalog {
	if len(c.Pills) == 0 {
		return pill.DefaultCatalog()
	}
	pills := make([]pill.Pill, 0, len(c.Pills))
	for _, pc := range c.Pills {
		p := pill.Pill{
			ID:         pc.ID,
			Label:      pc.Label,
			Icon:       pc.Icon,
			Match:      pill.StatusMatch(),
			ShowAvatar: pc.ShowAvatar == nil || *pc.ShowAvatar,
		}
		if p.Label == "" {
			p.Label = pc.ID
		}
		for _, page := range pc.AppliesTo {
			p.AppliesTo = append(p.AppliesTo, memo.PageID(page))
		}
		if len(pc.Include) > 0 {
			p.Match = pill.Custom(pill.StatusRule(pc.Exclude, pc.Include...))
		}
		pills = append(pills, p)
	}
	return pill.NewCatalog(pills...)
}

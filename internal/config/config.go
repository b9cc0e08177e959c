// Package config loads and merges the den configuration document.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/logging"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "DEN_CONFIG"

	// EnvDockerOpts appends ad-hoc docker options, parsed shell-style.
	EnvDockerOpts = "DEN_DOCKER_OPTS"

	// EnvConfigJSON carries the effective config into the sandbox so inside
	// mode does not re-read host files.
	EnvConfigJSON = "DEN_CONFIG_JSON"

	// OverlayFileName is the optional overlay document beside the config.
	OverlayFileName = "overlay.json"
)

// Mount describes a bind mount. Host paths may contain a {HOME} placeholder.
type Mount struct {
	Host      string `json:"host"`
	Container string `json:"container"`
}

// Agent describes a runnable agent.
type Agent struct {
	Command string `json:"command"`
}

// Pane describes an auxiliary terminal window. Command templates may contain
// {slug} and {suffix} placeholders.
type Pane struct {
	Name    string `json:"name"`
	Command string `json:"command"`
}

// Render instantiates the pane command template for a session.
func (p Pane) Render(slug, suffix string) string {
	cmd := strings.ReplaceAll(p.Command, "{slug}", slug)
	return strings.ReplaceAll(cmd, "{suffix}", suffix)
}

// Config is the den configuration document.
//
// EnvVars values are either a fixed string or null, which marks the variable
// as pass-through from the host environment at launch time.
type Config struct {
	Image           string             `json:"image"`
	DockerOptions   []string           `json:"docker_options"`
	EnvVars         map[string]*string `json:"env_vars"`
	Mounts          []Mount            `json:"mounts"`
	Agents          map[string]Agent   `json:"agents"`
	AdditionalPanes []Pane             `json:"additional_panes"`
}

// Validate checks that the Config is usable.
func (c *Config) Validate() error {
	if c.Image == "" {
		return fmt.Errorf("image is required")
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}
	for key, agent := range c.Agents {
		if agent.Command == "" {
			return fmt.Errorf("agent %s: command is required", key)
		}
	}
	for i, m := range c.Mounts {
		if m.Host == "" || m.Container == "" {
			return fmt.Errorf("mount %d: host and container are required", i)
		}
	}
	for i, p := range c.AdditionalPanes {
		if p.Command == "" {
			return fmt.Errorf("pane %d (%s): command is required", i, p.Name)
		}
	}
	return nil
}

// Agent looks up an agent by key.
func (c *Config) Agent(key string) (Agent, bool) {
	a, ok := c.Agents[key]
	return a, ok
}

// ToJSON serializes the config for the sandbox environment.
func (c *Config) ToJSON() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses a config previously serialized with ToJSON.
func FromJSON(data string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, errors.ConfigError("failed to parse embedded config", err)
	}
	return &cfg, nil
}

// Default returns the default configuration scaffolded on first run.
func Default() *Config {
	return &Config{
		Image:         "den-agent:dev",
		DockerOptions: []string{"-p", "0:9000"},
		EnvVars: map[string]*string{
			"OPENAI_API_KEY":    nil,
			"ANTHROPIC_API_KEY": nil,
			"TS_AUTHKEY":        nil,
		},
		Mounts: []Mount{
			{Host: "/var/run/docker.sock", Container: "/var/run/docker.sock"},
			{Host: "{HOME}/.config/den/codex", Container: "/home/agent/.codex"},
			{Host: "{HOME}/.config/den/claude", Container: "/home/agent/.claude"},
		},
		Agents: map[string]Agent{
			"codex":  {Command: "codex -s danger-full-access"},
			"claude": {Command: "claude --dangerously-skip-permissions"},
			"bash":   {Command: "bash"},
		},
		AdditionalPanes: []Pane{
			{
				Name:    "tsproxy",
				Command: `if [ -n "$TS_AUTHKEY" ]; then /go/bin/tsproxy -name {slug} -ports 8000-9999,11111; else sleep infinity; fi`,
			},
			{
				Name:    "gotty",
				Command: "/go/bin/gotty -w -p 8001 --title-format 'Terminal - {slug}' tmux attach",
			},
		},
	}
}

// Paths holds the resolved configuration file locations.
type Paths struct {
	ConfigDir   string
	ConfigFile  string
	OverlayFile string
}

// ResolvePaths determines the config location, honoring DEN_CONFIG.
func ResolvePaths() (Paths, error) {
	if override := os.Getenv(EnvConfigPath); override != "" {
		dir := filepath.Dir(override)
		return Paths{
			ConfigDir:   dir,
			ConfigFile:  override,
			OverlayFile: filepath.Join(dir, OverlayFileName),
		}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, errors.ConfigError("cannot determine home directory", err)
	}

	dir := filepath.Join(home, ".config", "den")
	return Paths{
		ConfigDir:   dir,
		ConfigFile:  filepath.Join(dir, "config.json"),
		OverlayFile: filepath.Join(dir, OverlayFileName),
	}, nil
}

// Load reads the configuration, scaffolding a default config file on first
// run, applying the optional overlay document, and appending DEN_DOCKER_OPTS.
func Load() (*Config, error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, err
	}

	// Agent config dirs are always ensured so the default mounts resolve.
	for _, sub := range []string{"codex", "claude"} {
		if err := os.MkdirAll(filepath.Join(paths.ConfigDir, sub), 0o755); err != nil {
			return nil, errors.ConfigError("failed to create config directory", err)
		}
	}

	cfg, err := loadOrScaffold(paths.ConfigFile)
	if err != nil {
		return nil, err
	}

	if overlay, err := os.ReadFile(paths.OverlayFile); err == nil {
		logging.Debug("applying config overlay", "path", paths.OverlayFile)
		if err := Merge(cfg, overlay); err != nil {
			return nil, err
		}
	}

	if extra := os.Getenv(EnvDockerOpts); extra != "" {
		opts, err := shellquote.Split(extra)
		if err != nil {
			return nil, errors.ConfigError("malformed "+EnvDockerOpts, err)
		}
		cfg.DockerOptions = append(cfg.DockerOptions, opts...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.ConfigError("invalid configuration", err)
	}

	return cfg, nil
}

func loadOrScaffold(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		out, marshalErr := json.MarshalIndent(cfg, "", "  ")
		if marshalErr != nil {
			return nil, errors.ConfigError("failed to encode default config", marshalErr)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.ConfigError("failed to create config directory", err)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, errors.ConfigError("failed to write default config", err)
		}
		logging.UserInfo("Created default config at: %s", path)
		logging.UserInfo("Edit this file to customize your configuration")
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigError("failed to read config", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError("failed to parse "+path, err)
	}
	return &cfg, nil
}

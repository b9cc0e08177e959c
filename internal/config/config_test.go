package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ScaffoldsDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	t.Setenv(EnvConfigPath, configPath)
	t.Setenv(EnvDockerOpts, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Image != "den-agent:dev" {
		t.Errorf("default image = %q", cfg.Image)
	}
	if _, ok := cfg.Agents["bash"]; !ok {
		t.Error("default config should include the bash agent")
	}

	// The default must have been written to disk.
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("scaffolded config not written: %v", err)
	}
	var onDisk Config
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("scaffolded config not valid JSON: %v", err)
	}
	if onDisk.Image != cfg.Image {
		t.Errorf("on-disk image = %q, want %q", onDisk.Image, cfg.Image)
	}

	// Agent config dirs are ensured.
	for _, sub := range []string{"codex", "claude"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Errorf("config subdir %s not created: %v", sub, err)
		}
	}
}

func TestLoad_ReadsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"image": "custom:latest",
		"agents": {"bash": {"command": "bash"}}
	}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, configPath)
	t.Setenv(EnvDockerOpts, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Image != "custom:latest" {
		t.Errorf("image = %q, want custom:latest", cfg.Image)
	}
}

func TestLoad_MalformedConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, configPath)

	if _, err := Load(); err == nil {
		t.Fatal("malformed config should fail to load")
	}
}

func TestLoad_AppliesOverlay(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	base := `{"image":"base:dev","agents":{"bash":{"command":"bash"}},"mounts":[{"host":"/a","container":"/mnt/a"}]}`
	overlay := `{"mounts":[{"host":"/b","container":"/mnt/b"}],"agents":{"codex":{"command":"codex"}}}`
	if err := os.WriteFile(configPath, []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, OverlayFileName), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, configPath)
	t.Setenv(EnvDockerOpts, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Mounts) != 2 {
		t.Errorf("overlay mounts should append, got %+v", cfg.Mounts)
	}
	if len(cfg.Agents) != 2 {
		t.Errorf("overlay agents should key-merge, got %+v", cfg.Agents)
	}
}

func TestLoad_DockerOptsEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	base := `{"image":"base:dev","agents":{"bash":{"command":"bash"}}}`
	if err := os.WriteFile(configPath, []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, configPath)
	t.Setenv(EnvDockerOpts, `--memory 4g --label "den extra"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := []string{"--memory", "4g", "--label", "den extra"}
	if len(cfg.DockerOptions) != len(want) {
		t.Fatalf("DockerOptions = %v, want %v", cfg.DockerOptions, want)
	}
	for i := range want {
		if cfg.DockerOptions[i] != want[i] {
			t.Errorf("DockerOptions[%d] = %q, want %q", i, cfg.DockerOptions[i], want[i])
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				Image:  "img",
				Agents: map[string]Agent{"bash": {Command: "bash"}},
			},
		},
		{
			name:    "missing image",
			cfg:     Config{Agents: map[string]Agent{"bash": {Command: "bash"}}},
			wantErr: true,
		},
		{
			name:    "no agents",
			cfg:     Config{Image: "img"},
			wantErr: true,
		},
		{
			name: "agent without command",
			cfg: Config{
				Image:  "img",
				Agents: map[string]Agent{"bash": {}},
			},
			wantErr: true,
		},
		{
			name: "mount without container path",
			cfg: Config{
				Image:  "img",
				Agents: map[string]Agent{"bash": {Command: "bash"}},
				Mounts: []Mount{{Host: "/a"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_JSONRoundTripThroughEnv(t *testing.T) {
	cfg := Default()

	encoded, err := cfg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() failed: %v", err)
	}

	decoded, err := FromJSON(encoded)
	if err != nil {
		t.Fatalf("FromJSON() failed: %v", err)
	}

	if decoded.Image != cfg.Image {
		t.Errorf("image = %q, want %q", decoded.Image, cfg.Image)
	}
	if len(decoded.AdditionalPanes) != len(cfg.AdditionalPanes) {
		t.Errorf("panes = %d, want %d", len(decoded.AdditionalPanes), len(cfg.AdditionalPanes))
	}
	if decoded.EnvVars["OPENAI_API_KEY"] != nil {
		t.Error("pass-through marker should survive the round trip")
	}
}

func TestPane_Render(t *testing.T) {
	p := Pane{Name: "tsproxy", Command: "tsproxy -name {slug}.{suffix}"}

	got := p.Render("brave-otter", "tail1234.ts.net")
	want := "tsproxy -name brave-otter.tail1234.ts.net"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestPane_RenderEmptySuffix(t *testing.T) {
	p := Pane{Name: "gotty", Command: "gotty --title {slug}"}

	if got := p.Render("calm-fox", ""); got != "gotty --title calm-fox" {
		t.Errorf("Render() = %q", got)
	}
}

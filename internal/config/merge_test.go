package config

import (
	"testing"
)

func TestMerge_MountsAppend(t *testing.T) {
	base := &Config{
		Mounts: []Mount{{Host: "/a", Container: "/mnt/a"}},
	}

	overlay := `{"mounts":[{"host":"/b","container":"/mnt/b"}]}`
	if err := Merge(base, []byte(overlay)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if len(base.Mounts) != 2 {
		t.Fatalf("expected 2 mounts, got %d", len(base.Mounts))
	}
	if base.Mounts[0].Host != "/a" || base.Mounts[1].Host != "/b" {
		t.Errorf("mounts not appended in order: %+v", base.Mounts)
	}
}

func TestMerge_AgentsKeyMerge(t *testing.T) {
	base := &Config{
		Agents: map[string]Agent{"x": {Command: "x-cmd"}},
	}

	overlay := `{"agents":{"y":{"command":"y-cmd"}}}`
	if err := Merge(base, []byte(overlay)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if len(base.Agents) != 2 {
		t.Fatalf("expected both agent keys present, got %v", base.Agents)
	}
	if base.Agents["x"].Command != "x-cmd" {
		t.Errorf("base agent lost: %+v", base.Agents["x"])
	}
	if base.Agents["y"].Command != "y-cmd" {
		t.Errorf("overlay agent missing: %+v", base.Agents["y"])
	}
}

func TestMerge_AgentsOverlayWinsPerKey(t *testing.T) {
	base := &Config{
		Agents: map[string]Agent{"x": {Command: "old"}},
	}

	overlay := `{"agents":{"x":{"command":"new"}}}`
	if err := Merge(base, []byte(overlay)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if base.Agents["x"].Command != "new" {
		t.Errorf("overlay should win per key, got %q", base.Agents["x"].Command)
	}
}

func TestMerge_ImageReplace(t *testing.T) {
	base := &Config{Image: "den-agent:dev"}

	if err := Merge(base, []byte(`{"image":"den-agent:custom"}`)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if base.Image != "den-agent:custom" {
		t.Errorf("image = %q, want den-agent:custom", base.Image)
	}
}

func TestMerge_DockerOptionsAppend(t *testing.T) {
	base := &Config{DockerOptions: []string{"-p", "0:9000"}}

	if err := Merge(base, []byte(`{"docker_options":["--memory","4g"]}`)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	want := []string{"-p", "0:9000", "--memory", "4g"}
	if len(base.DockerOptions) != len(want) {
		t.Fatalf("docker_options = %v, want %v", base.DockerOptions, want)
	}
	for i := range want {
		if base.DockerOptions[i] != want[i] {
			t.Errorf("docker_options[%d] = %q, want %q", i, base.DockerOptions[i], want[i])
		}
	}
}

func TestMerge_EnvVarsKeyMerge(t *testing.T) {
	fixed := "abc"
	base := &Config{
		EnvVars: map[string]*string{"OPENAI_API_KEY": nil},
	}

	overlay := `{"env_vars":{"EXTRA_VAR":"abc","ANTHROPIC_API_KEY":null}}`
	if err := Merge(base, []byte(overlay)); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if len(base.EnvVars) != 3 {
		t.Fatalf("expected 3 env vars, got %v", base.EnvVars)
	}
	if base.EnvVars["OPENAI_API_KEY"] != nil {
		t.Error("pass-through marker should survive merge")
	}
	if v := base.EnvVars["EXTRA_VAR"]; v == nil || *v != fixed {
		t.Errorf("fixed value not merged: %v", v)
	}
	if base.EnvVars["ANTHROPIC_API_KEY"] != nil {
		t.Error("null overlay value should be a pass-through marker")
	}
}

func TestMerge_UnknownKeyIgnored(t *testing.T) {
	base := Default()

	if err := Merge(base, []byte(`{"no_such_key":42}`)); err != nil {
		t.Fatalf("unknown keys should be skipped, got error: %v", err)
	}
}

func TestMerge_MalformedOverlay(t *testing.T) {
	base := Default()

	if err := Merge(base, []byte(`{not json`)); err == nil {
		t.Fatal("malformed overlay should fail")
	}
}

func TestMerge_WrongTypeForField(t *testing.T) {
	base := Default()

	if err := Merge(base, []byte(`{"mounts":"not-a-list"}`)); err == nil {
		t.Fatal("wrong-typed overlay field should fail")
	}
}

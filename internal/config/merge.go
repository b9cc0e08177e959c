package config

import (
	"encoding/json"

	"github.com/denhq/den/internal/errors"
	"github.com/denhq/den/internal/logging"
)

// mergeFn applies one overlay field to the base config. Each field has an
// explicit strategy: replace, key-merge, or list-append.
type mergeFn func(base *Config, msg json.RawMessage) error

// fieldMergers is the static per-field dispatch table for overlay merging.
var fieldMergers = map[string]mergeFn{
	"image":            replaceImage,
	"docker_options":   appendDockerOptions,
	"env_vars":         mergeEnvVars,
	"mounts":           appendMounts,
	"agents":           mergeAgents,
	"additional_panes": appendPanes,
}

// Merge applies an overlay document on top of base. Unknown overlay keys are
// logged and skipped rather than failing the load.
func Merge(base *Config, overlay []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(overlay, &raw); err != nil {
		return errors.ConfigError("failed to parse overlay", err)
	}

	for key, msg := range raw {
		merge, known := fieldMergers[key]
		if !known {
			logging.Warn("ignoring unknown overlay key", "key", key)
			continue
		}
		if err := merge(base, msg); err != nil {
			return errors.ConfigError("invalid overlay value for "+key, err)
		}
	}

	return nil
}

// replace: overlay scalar wins.
func replaceImage(base *Config, msg json.RawMessage) error {
	return json.Unmarshal(msg, &base.Image)
}

// list-append: overlay elements follow the base elements.
func appendDockerOptions(base *Config, msg json.RawMessage) error {
	var opts []string
	if err := json.Unmarshal(msg, &opts); err != nil {
		return err
	}
	base.DockerOptions = append(base.DockerOptions, opts...)
	return nil
}

// key-merge: map keys merge recursively, overlay wins per key.
func mergeEnvVars(base *Config, msg json.RawMessage) error {
	var vars map[string]*string
	if err := json.Unmarshal(msg, &vars); err != nil {
		return err
	}
	if base.EnvVars == nil {
		base.EnvVars = make(map[string]*string, len(vars))
	}
	for k, v := range vars {
		base.EnvVars[k] = v
	}
	return nil
}

func appendMounts(base *Config, msg json.RawMessage) error {
	var mounts []Mount
	if err := json.Unmarshal(msg, &mounts); err != nil {
		return err
	}
	base.Mounts = append(base.Mounts, mounts...)
	return nil
}

func mergeAgents(base *Config, msg json.RawMessage) error {
	var agents map[string]Agent
	if err := json.Unmarshal(msg, &agents); err != nil {
		return err
	}
	if base.Agents == nil {
		base.Agents = make(map[string]Agent, len(agents))
	}
	for k, v := range agents {
		base.Agents[k] = v
	}
	return nil
}

func appendPanes(base *Config, msg json.RawMessage) error {
	var panes []Pane
	if err := json.Unmarshal(msg, &panes); err != nil {
		return err
	}
	base.AdditionalPanes = append(base.AdditionalPanes, panes...)
	return nil
}

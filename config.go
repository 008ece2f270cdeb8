// Copyright 2026 The ecom-sentry Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ecomsentry

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultClientID is the registry identifier adapters resolve when none is configured.
	DefaultClientID = "sentry"
	// DefaultEnvironment is the environment assumed when none is configured.
	DefaultEnvironment = "dev"

	// EnvPrefix prefixes every environment variable read by LoadConfig and NewClient.
	// Nested keys are separated by a double underscore, e.g. ECOMSENTRY_OPTIONS__RELEASE.
	EnvPrefix = "ECOMSENTRY_"

	// Tag keys routinely contain dots, so nested configuration keys use "::".
	configDelim = "::"
)

// Config is the process-wide configuration surface of the capture client. It
// is resolved once at construction and treated as immutable afterwards.
type Config struct {
	Enabled             bool           `koanf:"enabled"`
	DSN                 string         `koanf:"dsn"`
	Environment         string         `koanf:"environment"`
	EnabledEnvironments []string       `koanf:"enabled_environments"`
	Debug               bool           `koanf:"debug"`
	ClientID            string         `koanf:"client_id"`
	Options             SDKOptions     `koanf:"options"`
	ExtraVariables      map[string]any `koanf:"extra_variables"`
	RuntimeDetection    bool           `koanf:"runtime_detection"`
}

// DefaultConfig returns the documented defaults: enabled, environment "dev",
// allow-list {production, staging, dev} and client ID "sentry".
func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		Environment:         DefaultEnvironment,
		EnabledEnvironments: []string{"production", "staging", "dev"},
		ClientID:            DefaultClientID,
	}
}

// EnvironmentAllowed reports whether Environment is in EnabledEnvironments.
func (c Config) EnvironmentAllowed() bool {
	return slices.Contains(c.EnabledEnvironments, c.Environment)
}

// clone returns a deep enough copy that later option application cannot
// mutate a caller-owned Config.
func (c Config) clone() Config {
	out := c
	out.EnabledEnvironments = slices.Clone(c.EnabledEnvironments)
	out.ExtraVariables = maps.Clone(c.ExtraVariables)
	out.Options.Tags = maps.Clone(c.Options.Tags)
	return out
}

// sliceConfigPaths lists keys that arrive as comma-separated strings from the environment.
var sliceConfigPaths = []string{
	"enabled_environments",
}

// LoadConfig resolves a Config from, in increasing precedence, DefaultConfig,
// the YAML file at path (skipped when path is empty) and ECOMSENTRY_*
// environment variables.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(configDelim)

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("ecomsentry: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("ecomsentry: load config file %s: %w", path, err)
		}
	}

	if err := loadEnv(k); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("ecomsentry: unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// loadEnv layers ECOMSENTRY_* variables onto k and splits slice values.
func loadEnv(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, configDelim, envTransformFunc), nil); err != nil {
		return fmt.Errorf("ecomsentry: load environment variables: %w", err)
	}
	return processSliceFields(k)
}

// envTransformFunc maps ECOMSENTRY_OPTIONS__RELEASE to options::release.
func envTransformFunc(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", configDelim)
}

// processSliceFields converts comma-separated string values to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("ecomsentry: set %s: %w", path, err)
		}
	}
	return nil
}

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
	"log/slog"
	"maps"
	"slices"
)

// Option configures a Client during NewClient. Options are applied after the
// environment overrides, so later options win.
type Option func(*options)

type options struct {
	config     *Config
	enabled    *bool
	dsn        *string
	env        *string
	envs       []string
	envsSet    bool
	debug      *bool
	sdkOptions *SDKOptions
	extraVars  map[string]any
	runtime    *bool
	logger     *slog.Logger
	factory    SDKFactory
}

// WithConfig replaces the whole configuration, typically with the result of
// LoadConfig. Individual options applied afterwards still take precedence.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		c := cfg.clone()
		o.config = &c
	}
}

// WithEnabled toggles the capture subsystem. A disabled client never builds
// an SDK handle and every capture is a silent no-op.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.enabled = &enabled
	}
}

// WithDSN sets the endpoint address and credentials of the remote project.
func WithDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = &dsn
	}
}

// WithEnvironment sets the active deployment environment name.
func WithEnvironment(env string) Option {
	return func(o *options) {
		o.env = &env
	}
}

// WithEnabledEnvironments replaces the allow-list of environments in which
// events are sent.
func WithEnabledEnvironments(envs ...string) Option {
	return func(o *options) {
		o.envs = slices.Clone(envs)
		o.envsSet = true
	}
}

// WithDebug selects verbose errors that carry the raw SDK message. In
// production mode errors are generic and the cause is logged instead.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = &debug
	}
}

// WithSDKOptions sets the SDK passthrough options. They are merged over the
// client defaults, with these values winning.
func WithSDKOptions(opts SDKOptions) Option {
	return func(o *options) {
		c := opts
		c.Tags = maps.Clone(opts.Tags)
		o.sdkOptions = &c
	}
}

// WithExtraVariables sets process-wide extra data merged into every capture.
func WithExtraVariables(vars map[string]any) Option {
	return func(o *options) {
		o.extraVars = maps.Clone(vars)
	}
}

// WithRuntimeDetection enables platform detection (Cloud Run, App Engine,
// Kubernetes, Compute Engine) to fill in server name, release and tags.
func WithRuntimeDetection(enabled bool) Option {
	return func(o *options) {
		o.runtime = &enabled
	}
}

// WithLogger injects the logger used for capture diagnostics. When nil or
// unset, diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSDKFactory overrides how the SDK client is constructed.
func WithSDKFactory(factory SDKFactory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// apply resolves the final configuration from base and the collected options.
func (o *options) apply(base Config) Config {
	cfg := base
	if o.config != nil {
		cfg = o.config.clone()
	}
	if o.enabled != nil {
		cfg.Enabled = *o.enabled
	}
	if o.dsn != nil {
		cfg.DSN = *o.dsn
	}
	if o.env != nil {
		cfg.Environment = *o.env
	}
	if o.envsSet {
		cfg.EnabledEnvironments = slices.Clone(o.envs)
	}
	if o.debug != nil {
		cfg.Debug = *o.debug
	}
	if o.sdkOptions != nil {
		cfg.Options = *o.sdkOptions
	}
	if o.extraVars != nil {
		cfg.ExtraVariables = o.extraVars
	}
	if o.runtime != nil {
		cfg.RuntimeDetection = *o.runtime
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	return cfg
}

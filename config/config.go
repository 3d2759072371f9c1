/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

// Package config loads the service's runtime configuration from
// settings.toml overlaid by BOXER_VALIDATOR__-prefixed environment
// variables, following the koanf file+env layering gateway-operator's own
// internal/config uses (§6).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// KubernetesConfig selects and scopes the backing-store connection
// (backend.kubernetes.*, §6).
type KubernetesConfig struct {
	// Kubeconfig, Exec, and InCluster are mutually exclusive connection
	// modes; exactly one must be effective.
	Kubeconfig string `koanf:"kubeconfig"`
	Exec       bool   `koanf:"exec"`
	InCluster  bool   `koanf:"in_cluster"`

	Namespace          string                 `koanf:"namespace"`
	ResourceOwnerLabel string                 `koanf:"resource_owner_label"`
	OperationTimeout   time.Duration          `koanf:"operation_timeout"`
	SchemaRepository   SchemaRepositoryConfig `koanf:"schema_repository"`
}

// SchemaRepositoryConfig names the singleton schema registry object.
type SchemaRepositoryConfig struct {
	Name string `koanf:"name"`
}

// BackendConfig wraps the backing-store configuration.
type BackendConfig struct {
	Kubernetes KubernetesConfig `koanf:"kubernetes"`
}

// TokenSettings configures the internal JWE authenticator (token_settings.*, §6).
type TokenSettings struct {
	Audience []string          `koanf:"audience"`
	Issuer   []string          `koanf:"issuer"`
	Keys     map[string]string `koanf:"keys"`
}

// SignalSettings toggles one OpenTelemetry exporter.
type SignalSettings struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint"`
}

// OpenTelemetryConfig configures the three independently toggleable
// exporters (opentelemetry.*, §6).
type OpenTelemetryConfig struct {
	Logs    SignalSettings `koanf:"logs_settings"`
	Metrics SignalSettings `koanf:"metrics_settings"`
	Traces  SignalSettings `koanf:"traces_settings"`
}

// Config is the service's full runtime configuration.
type Config struct {
	InstanceName  string              `koanf:"instance_name"`
	ListenAddress string              `koanf:"listen_address"`
	Backend       BackendConfig       `koanf:"backend"`
	TokenSettings TokenSettings       `koanf:"token_settings"`
	OpenTelemetry OpenTelemetryConfig `koanf:"opentelemetry"`
}

// IssuerDebug reports whether BOXER_ISSUER_DEBUG is set, which disables
// the bearer middleware on the token-review route only (§6).
func IssuerDebug() bool {
	_, set := os.LookupEnv("BOXER_ISSUER_DEBUG")
	return set
}

func defaults() map[string]any {
	return map[string]any{
		"instance_name":  "boxer-validator",
		"listen_address": ":8080",
		"backend": map[string]any{
			"kubernetes": map[string]any{
				"in_cluster":           true,
				"namespace":            "default",
				"resource_owner_label": "boxer.sneaksanddata.com/owner",
				"operation_timeout":    "5s",
				"schema_repository": map[string]any{
					"name": "default",
				},
			},
		},
		"opentelemetry": map[string]any{
			"logs_settings":    map[string]any{"enabled": false},
			"metrics_settings": map[string]any{"enabled": false},
			"traces_settings":  map[string]any{"enabled": false},
		},
	}
}

// envKey maps a BOXER_VALIDATOR__-prefixed variable name to koanf's
// dot-delimited key space: strip the prefix, lowercase, and replace the
// double-underscore nesting separator with a dot (§6).
func envKey(s string) string {
	s = strings.TrimPrefix(s, "BOXER_VALIDATOR__")
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads settings.toml (if present at path) and overlays
// BOXER_VALIDATOR__-prefixed environment variables on top of built-in
// defaults, the same file+env layering gateway-operator's LoadConfig uses.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("BOXER_VALIDATOR__", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address must be set")
	}
	modes := 0
	if c.Backend.Kubernetes.Kubeconfig != "" {
		modes++
	}
	if c.Backend.Kubernetes.Exec {
		modes++
	}
	if c.Backend.Kubernetes.InCluster {
		modes++
	}
	if modes != 1 {
		return fmt.Errorf("exactly one of backend.kubernetes.{kubeconfig|exec|in_cluster} must be effective, got %d", modes)
	}
	if c.Backend.Kubernetes.Namespace == "" {
		return fmt.Errorf("backend.kubernetes.namespace must be set")
	}
	return nil
}

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

// Package observability builds the process-wide logger and OpenTelemetry
// providers at startup and hands them to the rest of the service as
// capability references (§9, "global mutable state" redesign note: no
// module-level static writers). The logger construction follows
// gateway-operator/pkg/logger's NewLogger; the provider construction is
// new, since that package only ever built a zap.Logger.
package observability

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig mirrors gateway-operator's logger.Config.
type LoggerConfig struct {
	Level    string // "debug", "info", "warn", "error"
	Format   string // "json" or "text"
	Instance string // instance_name, attached as a static field on every line
}

// NewLogger builds a zap.Logger tagged with the configured instance name.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	logLevel := parseLogLevel(cfg.Level)

	var config zap.Config
	if cfg.Format == "text" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(logLevel)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	if cfg.Instance != "" {
		logger = logger.With(zap.String("instance", cfg.Instance))
	}
	return logger, nil
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

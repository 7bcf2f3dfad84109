// Copyright 2026 The Tuplestore Authors
// This file is part of Tuplestore.
//
// Tuplestore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tuplestore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Tuplestore. If not, see <http://www.gnu.org/licenses/>.

// Package config loads the YAML configuration that picks and parameterises
// an OKVS backend. It is deliberately tiny: the core has exactly one
// external dependency surface (which backend, and how to open it).
package config

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/Silentsoul04/tuplestore/internal/xlog"
	"github.com/Silentsoul04/tuplestore/kv"
)

// Backend selects which kv.DB constructor a Config resolves to.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendMDBX   Backend = "mdbx"
)

// Config is the root configuration document.
type Config struct {
	Backend Backend       `yaml:"backend"`
	MDBX    kv.MDBXConfig `yaml:"mdbx"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig controls the zap logger installed at startup.
type LoggingConfig struct {
	Development bool   `yaml:"development"`
	Level       string `yaml:"level"`
}

// Load reads and parses a Config from a YAML file at path.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "config: parse %q", path)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	return cfg, nil
}

// Open installs cfg.Logging as the store/query/txn logging sink, then
// constructs the kv.DB cfg.Backend describes.
func Open(cfg Config) (kv.DB, error) {
	if err := applyLogging(cfg.Logging); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case BackendMemory, "":
		return kv.NewMemory(), nil
	case BackendMDBX:
		return kv.NewMDBX(cfg.MDBX)
	default:
		return nil, errors.Errorf("config: unknown backend %q", cfg.Backend)
	}
}

// applyLogging installs the zap sink described by lc as xlog.L. An empty
// LoggingConfig leaves xlog's default (silent) logger in place.
func applyLogging(lc LoggingConfig) error {
	if lc.Development {
		return xlog.Development()
	}
	if lc.Level == "" {
		return nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return errors.Wrapf(err, "config: logging.level %q", lc.Level)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return errors.Wrap(err, "config: build logger")
	}
	xlog.SetLogger(logger)
	return nil
}

// Copyright 2025 The Rivaas Authors
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

package versioning

import (
	"fmt"
	"time"

	"rivaas.dev/errors"
)

// Default header and parameter names used by the built-in detection
// strategies and response headers.
const (
	DefaultVersionHeader = "X-API-Version"
	DefaultSourceHeader  = "X-API-Version-Source"
	DefaultQueryParam    = "version"
	DefaultAcceptParam   = "version"
)

// MatchPolicy controls how a requested version is matched against the
// registered versions of a route.
type MatchPolicy int

const (
	// MatchExact requires the requested version to be registered verbatim.
	MatchExact MatchPolicy = iota

	// MatchNearestNotGreater selects the highest registered version that
	// does not exceed the requested one. A request below the lowest
	// registered version still fails.
	MatchNearestNotGreater
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchExact:
		return "exact"
	case MatchNearestNotGreater:
		return "nearest-not-greater"
	default:
		return "unknown"
	}
}

// SourceDefault is the provenance reported when no strategy extracted a
// version and the configured default was applied.
const SourceDefault = "default"

// Logger is the minimal structured logging interface used by the package.
// *slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Observer holds callbacks for version detection events.
type Observer struct {
	// OnDetected is called when a version is successfully detected.
	OnDetected func(version, method string)

	// OnMissing is called when no version is detected (using default).
	OnMissing func()

	// OnInvalid is called when a detected version fails validation.
	OnInvalid func(attempted string)

	// OnDeprecatedUse is called when a deprecated version is accessed.
	OnDeprecatedUse func(version, route string)
}

// Config holds the versioning configuration.
// It is built via functional options passed to New.
type Config struct {
	// Detection strategies (checked in priority order)
	detectors []Detector

	// Version grammar
	format      Format
	customOrder []string

	// Default version when none is detected. Empty means no default:
	// requests without a version fail with NotFoundError.
	defaultVersion string
	defaultParsed  Version

	// Match policy for resolving requested versions against routes
	matchPolicy MatchPolicy

	// Global behavior options
	sendVersionHeader bool // Add X-API-Version / X-API-Version-Source to responses
	sendWarning299    bool // Add Warning: 299 for deprecated versions
	serveSunset       bool // Keep serving versions past their sunset date

	versionHeader string
	sourceHeader  string

	// Error response rendering
	formatter errors.Formatter

	// Observability
	observer *Observer
	logger   Logger

	// Clock function for testing
	now func() time.Time
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		format:            FormatSemantic,
		matchPolicy:       MatchExact,
		sendVersionHeader: true,
		sendWarning299:    true,
		versionHeader:     DefaultVersionHeader,
		sourceHeader:      DefaultSourceHeader,
		formatter:         defaultFormatter{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.format == FormatCustom && len(c.customOrder) == 0 {
		return fmt.Errorf("%w: use versioning.WithCustomFormat(\"alpha\", \"beta\", ...)", ErrCustomOrderRequired)
	}

	if c.defaultVersion != "" {
		parsed, err := c.Parse(c.defaultVersion)
		if err != nil {
			return fmt.Errorf("default version: %w", err)
		}
		c.defaultParsed = parsed
	}

	return nil
}

// Parse parses a raw version string against the configured format.
func (c *Config) Parse(raw string) (Version, error) {
	if c.format == FormatCustom {
		return parseCustom(raw, c.customOrder)
	}

	return ParseVersion(raw, c.format)
}

// Format returns the configured version format.
func (c *Config) Format() Format {
	return c.format
}

// DefaultVersion returns the configured default version, or the zero Version
// and false when no default is set.
func (c *Config) DefaultVersion() (Version, bool) {
	return c.defaultParsed, c.defaultVersion != ""
}

// MatchPolicy returns the configured match policy.
func (c *Config) MatchPolicy() MatchPolicy {
	return c.matchPolicy
}

// SendVersionHeader returns whether to send version response headers.
func (c *Config) SendVersionHeader() bool {
	return c.sendVersionHeader
}

// SendWarning299 returns whether to send Warning: 299 for deprecated versions.
func (c *Config) SendWarning299() bool {
	return c.sendWarning299
}

// ServeSunset returns whether versions past their sunset date keep serving.
func (c *Config) ServeSunset() bool {
	return c.serveSunset
}

// Detectors returns the configured detectors in priority order.
func (c *Config) Detectors() []Detector {
	return c.detectors
}

// Observer returns the configured observer.
func (c *Config) Observer() *Observer {
	return c.observer
}

// Now returns the current time (injectable for testing).
func (c *Config) Now() time.Time {
	if c.now != nil {
		return c.now()
	}

	return time.Now()
}

func (c *Config) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Config) logWarn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}

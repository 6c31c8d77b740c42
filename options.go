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
	"net/http"
	"strings"
	"time"

	"rivaas.dev/errors"
)

// Option configures versioning behavior. Options are applied in order;
// detection options establish the strategy priority order.
type Option func(*Config) error

// ═══════════════════════════════════════════════════════════════════════════════
// Detection Strategy Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithPathDetection configures path-based version detection.
// Pattern must contain the {version} placeholder.
//
// Example:
//
//	versioning.WithPathDetection("/api/v{version}")
//	// Matches: /api/v1.0/users, /api/v2.0/users
//
//	versioning.WithPathDetection("/v{version}/")
//	// Matches: /v1.0/users, /v2.0/users
func WithPathDetection(pattern string) Option {
	return func(cfg *Config) error {
		if pattern == "" {
			return ErrEmptyPathPattern
		}
		if !strings.Contains(pattern, "{version}") {
			return fmt.Errorf("%w: path pattern %q", ErrMissingVersionPlaceholder, pattern)
		}
		cfg.detectors = append(cfg.detectors, newPathDetector(pattern))

		return nil
	}
}

// WithHeaderDetection configures header-based version detection.
// An empty name uses DefaultVersionHeader.
//
// Example:
//
//	versioning.WithHeaderDetection("")
//	// Client sends: X-API-Version: 2.0
//
//	versioning.WithHeaderDetection("API-Version")
//	// Client sends: API-Version: 2.0
func WithHeaderDetection(headerName string) Option {
	return func(cfg *Config) error {
		if headerName == "" {
			headerName = DefaultVersionHeader
		}
		cfg.detectors = append(cfg.detectors, &headerDetector{header: headerName})

		return nil
	}
}

// WithQueryDetection configures query parameter-based version detection.
// An empty name uses DefaultQueryParam.
//
// Example:
//
//	versioning.WithQueryDetection("v")
//	// Client sends: GET /users?v=2.0
//
//	versioning.WithQueryDetection("")
//	// Client sends: GET /users?version=2.0
func WithQueryDetection(paramName string) Option {
	return func(cfg *Config) error {
		if paramName == "" {
			paramName = DefaultQueryParam
		}
		cfg.detectors = append(cfg.detectors, &queryDetector{param: paramName})

		return nil
	}
}

// WithAcceptDetection configures detection from an Accept header media type
// parameter, per RFC 7231. An empty name uses DefaultAcceptParam.
//
// Example:
//
//	versioning.WithAcceptDetection("")
//	// Client sends: Accept: application/json;version=2.0
func WithAcceptDetection(paramName string) Option {
	return func(cfg *Config) error {
		if paramName == "" {
			paramName = DefaultAcceptParam
		}
		cfg.detectors = append(cfg.detectors, &acceptDetector{param: paramName})

		return nil
	}
}

// WithMediaTypeDetection configures detection from a vendor media type in the
// Accept header. Pattern must contain the {version} placeholder.
//
// Example:
//
//	versioning.WithMediaTypeDetection("application/vnd.myapi.{version}+json")
//	// Client sends: Accept: application/vnd.myapi.2.0+json
func WithMediaTypeDetection(pattern string) Option {
	return func(cfg *Config) error {
		if pattern == "" {
			return ErrEmptyAcceptParam
		}
		if !strings.Contains(pattern, "{version}") {
			return fmt.Errorf("%w: media type pattern %q", ErrMissingVersionPlaceholder, pattern)
		}
		cfg.detectors = append(cfg.detectors, newMediaTypeDetector(pattern))

		return nil
	}
}

// WithCustomDetection configures a custom version detection function.
// Custom detectors have the highest priority when used.
//
// Example:
//
//	versioning.WithCustomDetection(func(r *http.Request) string {
//	    token := r.Header.Get("Authorization")
//	    return extractVersionFromToken(token)
//	})
func WithCustomDetection(fn func(*http.Request) string) Option {
	return func(cfg *Config) error {
		if fn == nil {
			return ErrNilCustomDetector
		}
		// Insert at the beginning for highest priority
		cfg.detectors = append([]Detector{&customDetector{fn: fn}}, cfg.detectors...)

		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Configuration Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithFormat sets the version grammar. The default is FormatSemantic.
// Use WithCustomFormat for FormatCustom.
//
// Example:
//
//	versioning.WithFormat(versioning.FormatDate)
//	// Versions like "2025-06-01"
func WithFormat(format Format) Option {
	return func(cfg *Config) error {
		switch format {
		case FormatSemantic, FormatDate, FormatInteger:
			cfg.format = format
			return nil
		case FormatCustom:
			return fmt.Errorf("%w: use versioning.WithCustomFormat", ErrCustomOrderRequired)
		default:
			return fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
		}
	}
}

// WithCustomFormat sets FormatCustom with an explicit version ordering.
// Labels are ordered oldest to newest.
//
// Example:
//
//	versioning.WithCustomFormat("alpha", "beta", "stable")
//	// "alpha" < "beta" < "stable"
func WithCustomFormat(labels ...string) Option {
	return func(cfg *Config) error {
		if len(labels) == 0 {
			return ErrCustomOrderRequired
		}
		for i, l := range labels {
			if l == "" {
				return fmt.Errorf("%w at index %d", ErrEmptyVersionEntry, i)
			}
		}
		cfg.format = FormatCustom
		cfg.customOrder = labels

		return nil
	}
}

// WithDefault sets the version applied when no strategy detects one.
// Without a default, requests carrying no version are rejected.
//
// Example:
//
//	versioning.WithDefault("2.0")
func WithDefault(version string) Option {
	return func(cfg *Config) error {
		if version == "" {
			return ErrEmptyDefaultVersion
		}
		cfg.defaultVersion = version

		return nil
	}
}

// WithMatchPolicy sets how requested versions are matched against registered
// route versions. The default is MatchExact.
//
// Example:
//
//	versioning.WithMatchPolicy(versioning.MatchNearestNotGreater)
//	// Requesting 2.5 with {1.0, 2.0, 3.0} registered serves 2.0
func WithMatchPolicy(policy MatchPolicy) Option {
	return func(cfg *Config) error {
		cfg.matchPolicy = policy
		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Response Behavior Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithoutResponseHeaders disables the X-API-Version and X-API-Version-Source
// response headers, which are sent by default.
func WithoutResponseHeaders() Option {
	return func(cfg *Config) error {
		cfg.sendVersionHeader = false
		return nil
	}
}

// WithVersionHeader overrides the response header names for the served
// version and its provenance.
//
// Example:
//
//	versioning.WithVersionHeader("API-Version", "API-Version-Source")
func WithVersionHeader(versionHeader, sourceHeader string) Option {
	return func(cfg *Config) error {
		if versionHeader == "" {
			return ErrEmptyHeaderName
		}
		cfg.versionHeader = versionHeader
		if sourceHeader != "" {
			cfg.sourceHeader = sourceHeader
		}

		return nil
	}
}

// WithoutWarning299 disables the Warning: 299 header sent for deprecated
// versions by default.
func WithoutWarning299() Option {
	return func(cfg *Config) error {
		cfg.sendWarning299 = false
		return nil
	}
}

// WithSunsetServing keeps serving versions past their sunset date. By
// default sunset versions are refused with 410 Gone.
func WithSunsetServing() Option {
	return func(cfg *Config) error {
		cfg.serveSunset = true
		return nil
	}
}

// WithErrorFormatter sets the formatter used to render version resolution
// errors. The default emits {"error_kind", "message", "detail"} JSON bodies.
//
// Example:
//
//	versioning.WithErrorFormatter(errors.NewRFC9457("https://api.example.com/problems"))
func WithErrorFormatter(formatter errors.Formatter) Option {
	return func(cfg *Config) error {
		if formatter == nil {
			return ErrNilFormatter
		}
		cfg.formatter = formatter

		return nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Observability Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithLogger sets a structured logger for detection and lifecycle events.
// *slog.Logger satisfies the Logger interface.
func WithLogger(logger Logger) Option {
	return func(cfg *Config) error {
		cfg.logger = logger
		return nil
	}
}

// ObserverOption configures the version observer.
type ObserverOption func(*Observer)

// WithObserver configures observability hooks for version detection events.
//
// Example:
//
//	versioning.WithObserver(
//	    versioning.OnDetected(func(v, method string) {
//	        metrics.RecordVersionUsage(v, method)
//	    }),
//	    versioning.OnDeprecatedUse(func(v, route string) {
//	        log.Warn("deprecated API", "version", v, "route", route)
//	    }),
//	)
func WithObserver(opts ...ObserverOption) Option {
	return func(cfg *Config) error {
		obs := &Observer{}
		for _, opt := range opts {
			opt(obs)
		}
		cfg.observer = obs

		return nil
	}
}

// OnDetected sets the callback for successful version detection.
func OnDetected(fn func(version, method string)) ObserverOption {
	return func(o *Observer) {
		o.OnDetected = fn
	}
}

// OnMissing sets the callback for when no version is found (using default).
func OnMissing(fn func()) ObserverOption {
	return func(o *Observer) {
		o.OnMissing = fn
	}
}

// OnInvalid sets the callback for invalid version detection.
func OnInvalid(fn func(attempted string)) ObserverOption {
	return func(o *Observer) {
		o.OnInvalid = fn
	}
}

// OnDeprecatedUse sets the callback for deprecated version usage.
func OnDeprecatedUse(fn func(version, route string)) ObserverOption {
	return func(o *Observer) {
		o.OnDeprecatedUse = fn
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Testing Options
// ═══════════════════════════════════════════════════════════════════════════════

// WithClock sets a custom clock function for testing.
//
// Example:
//
//	versioning.WithClock(func() time.Time {
//	    return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
//	})
func WithClock(nowFn func() time.Time) Option {
	return func(cfg *Config) error {
		cfg.now = nowFn
		return nil
	}
}

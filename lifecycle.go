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
)

// LifecycleConfig holds deprecation and retirement metadata for a version.
// It is configured via lifecycle options passed to Dispatcher.Version.
type LifecycleConfig struct {
	Deprecated      bool
	DeprecatedSince time.Time
	SunsetDate      time.Time
	Reason          string
	MigrationURL    string
	Successor       string
}

// IsDeprecated reports whether the version is deprecated at the given time.
// A version past its sunset date is also deprecated.
func (lc *LifecycleConfig) IsDeprecated(now time.Time) bool {
	if lc == nil {
		return false
	}
	if lc.Deprecated && (lc.DeprecatedSince.IsZero() || !now.Before(lc.DeprecatedSince)) {
		return true
	}

	return lc.IsSunset(now)
}

// IsSunset reports whether the version's sunset date has been reached. The
// sunset instant itself counts as sunset.
func (lc *LifecycleConfig) IsSunset(now time.Time) bool {
	if lc == nil || lc.SunsetDate.IsZero() {
		return false
	}

	return !now.Before(lc.SunsetDate)
}

// WarningMessage builds the human readable deprecation notice carried in the
// Warning: 299 header and surfaced by discovery.
func (lc *LifecycleConfig) WarningMessage(version string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "API version %s is deprecated", version)

	if lc.Reason != "" {
		b.WriteString(": ")
		b.WriteString(lc.Reason)
	}

	if !lc.SunsetDate.IsZero() {
		fmt.Fprintf(&b, ". It will be removed on %s", lc.SunsetDate.Format("2006-01-02"))
		if days := int(lc.SunsetDate.Sub(now).Hours() / 24); days > 0 {
			fmt.Fprintf(&b, " (%d days from now)", days)
		}
	}

	if lc.Successor != "" {
		fmt.Fprintf(&b, ". Please migrate to version %s", lc.Successor)
	}

	return b.String()
}

// applyHeaders sets RFC 8594 deprecation headers on a response. It assumes
// the version is deprecated; sunset refusal is decided by the caller.
func (lc *LifecycleConfig) applyHeaders(h http.Header, version string, now time.Time, warn299 bool) {
	h.Set("Deprecation", "true")
	if !lc.SunsetDate.IsZero() {
		h.Set("Sunset", lc.SunsetDate.UTC().Format(http.TimeFormat))
	}

	if lc.MigrationURL != "" {
		linkHeaders := []string{
			fmt.Sprintf("<%s>; rel=\"deprecation\"", lc.MigrationURL),
		}
		if !lc.SunsetDate.IsZero() {
			linkHeaders = append(linkHeaders, fmt.Sprintf("<%s>; rel=\"sunset\"", lc.MigrationURL))
		}
		h.Set("Link", strings.Join(linkHeaders, ", "))
	}

	if lc.Successor != "" {
		h.Set("X-API-Replacement", lc.Successor)
	}

	if warn299 {
		h.Set("Warning", fmt.Sprintf("299 - %q", lc.WarningMessage(version, now)))
	}
}

// Deprecation is the JSON shape of lifecycle metadata in discovery responses.
type Deprecation struct {
	Deprecated      bool   `json:"deprecated"`
	DeprecatedSince string `json:"deprecated_since,omitempty"`
	Sunset          string `json:"sunset,omitempty"`
	Reason          string `json:"reason,omitempty"`
	MigrationURL    string `json:"migration_url,omitempty"`
	Successor       string `json:"successor,omitempty"`
	Warning         string `json:"warning,omitempty"`
}

// Payload converts the lifecycle config into its discovery representation.
// It returns nil for versions with no lifecycle state at the given time.
func (lc *LifecycleConfig) Payload(version string, now time.Time) *Deprecation {
	if !lc.IsDeprecated(now) {
		return nil
	}

	d := &Deprecation{
		Deprecated:   true,
		Reason:       lc.Reason,
		MigrationURL: lc.MigrationURL,
		Successor:    lc.Successor,
		Warning:      lc.WarningMessage(version, now),
	}
	if !lc.DeprecatedSince.IsZero() {
		d.DeprecatedSince = lc.DeprecatedSince.UTC().Format(time.RFC3339)
	}
	if !lc.SunsetDate.IsZero() {
		d.Sunset = lc.SunsetDate.UTC().Format(time.RFC3339)
	}

	return d
}

// LifecycleOption configures a specific version's lifecycle.
// These options are passed to Dispatcher.Version.
type LifecycleOption func(*LifecycleConfig)

// Deprecated marks this version as deprecated.
// The deprecation date is set to now.
//
// Example:
//
//	v1 := d.Version("1.0", versioning.Deprecated())
func Deprecated() LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.Deprecated = true
		if lc.DeprecatedSince.IsZero() {
			lc.DeprecatedSince = time.Now()
		}
	}
}

// DeprecatedSince marks this version as deprecated since a specific date.
// Use this when the deprecation was announced in the past.
//
// Example:
//
//	v1 := d.Version("1.0",
//	    versioning.DeprecatedSince(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
//	)
func DeprecatedSince(date time.Time) LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.Deprecated = true
		lc.DeprecatedSince = date
	}
}

// Sunset sets when this version will be removed. After this date, requests
// receive 410 Gone unless WithSunsetServing is configured.
//
// Example:
//
//	v1 := d.Version("1.0",
//	    versioning.Deprecated(),
//	    versioning.Sunset(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
//	)
func Sunset(date time.Time) LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.SunsetDate = date
	}
}

// DeprecationReason records why the version was deprecated. It is included
// in the Warning header and discovery metadata.
func DeprecationReason(reason string) LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.Reason = reason
	}
}

// MigrationDocs sets the URL for migration documentation.
// This URL is included in Link headers with rel=deprecation and rel=sunset.
//
// Example:
//
//	v1 := d.Version("1.0",
//	    versioning.Deprecated(),
//	    versioning.MigrationDocs("https://docs.example.com/migrate/v1-to-v2"),
//	)
func MigrationDocs(url string) LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.MigrationURL = url
	}
}

// SuccessorVersion indicates which version users should migrate to.
// It is included in the X-API-Replacement header and discovery metadata.
//
// Example:
//
//	v1 := d.Version("1.0",
//	    versioning.Deprecated(),
//	    versioning.SuccessorVersion("2.0"),
//	)
func SuccessorVersion(v string) LifecycleOption {
	return func(lc *LifecycleConfig) {
		lc.Successor = v
	}
}

// ApplyLifecycleOptions applies lifecycle options to a fresh LifecycleConfig.
func ApplyLifecycleOptions(opts ...LifecycleOption) *LifecycleConfig {
	lc := &LifecycleConfig{}
	for _, opt := range opts {
		opt(lc)
	}

	return lc
}

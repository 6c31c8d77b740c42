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

import "net/http"

// ResolvedVersion is the outcome of version resolution for a request.
type ResolvedVersion struct {
	// Version is the parsed requested version (or the default).
	Version Version

	// Served is the route actually selected, which may be lower than the
	// requested version under MatchNearestNotGreater.
	Served *Route

	// Source is the detection strategy that produced the version, or
	// SourceDefault when the configured default was applied.
	Source string

	// Raw is the version string as extracted from the request. Empty when
	// the default was applied.
	Raw string
}

// Resolver turns requests into resolved versions by running the configured
// detection strategies in priority order and matching the result against the
// registry.
type Resolver struct {
	config   *Config
	registry *Registry
}

// NewResolver creates a resolver over the given configuration and registry.
func NewResolver(cfg *Config, reg *Registry) *Resolver {
	return &Resolver{config: cfg, registry: reg}
}

// Detect runs the detection strategies in priority order and returns the
// first extracted raw value with its strategy name. The first strategy to
// extract anything is authoritative: later strategies are never consulted,
// even if the extracted value turns out to be malformed.
func (r *Resolver) Detect(req *http.Request) (raw, source string, found bool) {
	if req == nil {
		return "", "", false
	}

	for _, detector := range r.config.detectors {
		if v, ok := detector.Detect(req); ok {
			return v, detector.Method(), true
		}
	}

	return "", "", false
}

// Resolve detects, parses, and matches the request's version for a route.
//
// Failure modes map onto the error taxonomy: no version and no default is
// *NotFoundError; a malformed extracted value is *InvalidFormatError; a
// well-formed version with no matching handler is *UnsupportedVersionError.
func (r *Resolver) Resolve(req *http.Request, key RouteKey) (ResolvedVersion, error) {
	raw, source, found := r.Detect(req)

	var requested Version
	switch {
	case found:
		parsed, err := r.config.Parse(raw)
		if err != nil {
			r.notifyInvalid(raw)
			r.config.logDebug("invalid version in request",
				"raw", raw, "source", source, "route", key.String())

			return ResolvedVersion{}, &InvalidFormatError{Raw: raw, Format: r.config.format, Source: source}
		}
		requested = parsed
		r.notifyDetected(parsed.String(), source)
	default:
		r.notifyMissing()
		def, ok := r.config.DefaultVersion()
		if !ok {
			return ResolvedVersion{}, &NotFoundError{Key: key}
		}
		requested = def
		source = SourceDefault
	}

	route, ok := r.registry.Match(key, requested, r.config.matchPolicy)
	if !ok {
		return ResolvedVersion{}, &UnsupportedVersionError{
			Key:       key,
			Requested: requested,
			Available: r.registry.Versions(key),
		}
	}

	return ResolvedVersion{
		Version: requested,
		Served:  route,
		Source:  source,
		Raw:     raw,
	}, nil
}

func (r *Resolver) notifyDetected(version, method string) {
	if obs := r.config.observer; obs != nil && obs.OnDetected != nil {
		obs.OnDetected(version, method)
	}
}

func (r *Resolver) notifyMissing() {
	if obs := r.config.observer; obs != nil && obs.OnMissing != nil {
		obs.OnMissing()
	}
}

func (r *Resolver) notifyInvalid(attempted string) {
	if obs := r.config.observer; obs != nil && obs.OnInvalid != nil {
		obs.OnInvalid(attempted)
	}
}

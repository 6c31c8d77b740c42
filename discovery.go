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
	"encoding/json"
	"net/http"
	"sort"
)

// VersionDescriptor describes one API version in a discovery document.
// Deprecation is present only for versions with active lifecycle state.
type VersionDescriptor struct {
	Version     string       `json:"version"`
	Deprecation *Deprecation `json:"deprecation,omitempty"`
}

// EndpointDescriptor describes one logical route and the versions serving it.
type EndpointDescriptor struct {
	Method   string   `json:"method"`
	Path     string   `json:"path"`
	Versions []string `json:"versions"`
}

// DiscoveryDocument is the machine readable inventory of an API's versions,
// detection strategies, and endpoints.
type DiscoveryDocument struct {
	Versions       []VersionDescriptor  `json:"versions"`
	DefaultVersion string               `json:"default_version,omitempty"`
	Strategies     []string             `json:"strategies"`
	Endpoints      []EndpointDescriptor `json:"endpoints"`
}

// Discover builds a snapshot of the currently registered versions and
// endpoints. Lifecycle metadata is evaluated against the configured clock,
// so a version crossing its sunset date changes its descriptor without
// re-registration.
func (d *Dispatcher) Discover() DiscoveryDocument {
	now := d.config.Now()

	strategies := make([]string, len(d.config.detectors))
	for i, det := range d.config.detectors {
		strategies[i] = det.Method()
	}

	doc := DiscoveryDocument{
		Strategies: strategies,
		Endpoints:  []EndpointDescriptor{},
	}
	if def, ok := d.config.DefaultVersion(); ok {
		doc.DefaultVersion = def.String()
	}

	type versionState struct {
		version   Version
		lifecycle *LifecycleConfig
	}
	seen := make(map[string]*versionState)

	for _, key := range d.registry.Keys() {
		routes := d.registry.Routes(key)

		versions := make([]string, len(routes))
		for i, rt := range routes {
			s := rt.Version.String()
			versions[i] = s

			state, ok := seen[s]
			if !ok {
				state = &versionState{version: rt.Version}
				seen[s] = state
			}
			if state.lifecycle == nil && rt.Lifecycle.IsDeprecated(now) {
				state.lifecycle = rt.Lifecycle
			}
		}

		doc.Endpoints = append(doc.Endpoints, EndpointDescriptor{
			Method:   key.Method,
			Path:     key.Path,
			Versions: versions,
		})
	}

	all := make([]*versionState, 0, len(seen))
	for _, state := range seen {
		all = append(all, state)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].version.Less(all[j].version)
	})

	doc.Versions = make([]VersionDescriptor, len(all))
	for i, state := range all {
		desc := VersionDescriptor{Version: state.version.String()}
		if state.lifecycle != nil {
			desc.Deprecation = state.lifecycle.Payload(state.version.String(), now)
		}
		doc.Versions[i] = desc
	}

	return doc
}

// DiscoveryHandler serves the discovery document as JSON.
//
// Example:
//
//	mux.Handle("/api/versions", d.DiscoveryHandler())
func (d *Dispatcher) DiscoveryHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(d.Discover())
	})
}

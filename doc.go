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

// Package versioning routes HTTP requests to version-specific handlers.
//
// It detects the requested API version from the URL path, headers, query
// parameters, or Accept media types, resolves it against the versions
// registered per route, and dispatches to the matching handler with
// deprecation and sunset lifecycle headers applied.
//
// # Basic Usage
//
// Create a dispatcher with detection strategies and register handlers per
// version:
//
//	d := versioning.MustNew(
//	    versioning.WithPathDetection("/v{version}/"),
//	    versioning.WithHeaderDetection(""),
//	    versioning.WithDefault("2.0"),
//	)
//	d.Version("1.0").GET("/users", listUsersV1)
//	d.Version("2.0").GET("/users", listUsersV2)
//	http.ListenAndServe(":8080", d)
//
// # Detection Strategies
//
// Strategies are checked in the order they are configured, and the first one
// that extracts a value is authoritative. A malformed value from a
// higher-priority strategy fails the request rather than falling through.
//
//   - Path-based: versioning.WithPathDetection("/v{version}/")
//   - Header-based: versioning.WithHeaderDetection("X-API-Version")
//   - Query-based: versioning.WithQueryDetection("version")
//   - Accept parameter: versioning.WithAcceptDetection("version")
//   - Vendor media type: versioning.WithMediaTypeDetection("application/vnd.myapi.{version}+json")
//   - Custom: versioning.WithCustomDetection(func(r *http.Request) string { ... })
//
// # Version Formats
//
// Versions are parsed, not matched as opaque strings, so "1.0" and "1.0.0"
// identify the same semantic version. Besides the default semantic format,
// date-based ("2025-06-01"), integer ("3"), and custom ordered labels are
// supported via WithFormat and WithCustomFormat.
//
// # Version Lifecycle
//
// Configure per-version lifecycle using functional options:
//
//	v1 := d.Version("1.0",
//	    versioning.Deprecated(),
//	    versioning.Sunset(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
//	    versioning.MigrationDocs("https://docs.example.com/v1-to-v2"),
//	)
//	v1.GET("/users", listUsersV1)
//
// Deprecated versions are served with RFC 8594 Deprecation, Sunset, and Link
// headers plus a Warning: 299 notice. Versions past their sunset date are
// refused with 410 Gone unless WithSunsetServing is configured.
//
// # Discovery
//
// The dispatcher publishes a machine readable inventory of versions,
// strategies, and endpoints:
//
//	mux.Handle("/api/versions", d.DiscoveryHandler())
package versioning

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
	"net/http"
	"strings"
)

// Detector extracts a raw version string from an HTTP request.
// Implementations must be safe for concurrent use.
type Detector interface {
	// Detect returns the raw version string and whether one was present.
	// The returned string is unparsed; the resolver validates it against
	// the configured format.
	Detect(req *http.Request) (string, bool)

	// Method returns the detection strategy name ("path", "header",
	// "query", "accept", "media", "custom"). It is reported in error
	// details and the X-API-Version-Source response header.
	Method() string
}

// ═══════════════════════════════════════════════════════════════════════════════
// Path Detector
// ═══════════════════════════════════════════════════════════════════════════════

type pathDetector struct {
	pattern string
	prefix  string // Extracted prefix before {version}
}

func newPathDetector(pattern string) *pathDetector {
	idx := strings.Index(pattern, "{version}")
	prefix := ""
	if idx > 0 {
		prefix = pattern[:idx]
	}

	return &pathDetector{
		pattern: pattern,
		prefix:  prefix,
	}
}

func (d *pathDetector) Detect(req *http.Request) (string, bool) {
	if req == nil || req.URL == nil {
		return "", false
	}

	return d.extractFromPath(req.URL.Path)
}

func (d *pathDetector) Method() string {
	return "path"
}

// Pattern returns the original pattern (for path stripping).
func (d *pathDetector) Pattern() string {
	return d.pattern
}

// extractFromPath returns the raw segment after the prefix, up to the next
// "/". The segment is returned exactly as written in the URL: with pattern
// "/v{version}/" and path "/v2.1/users" the raw value is "2.1".
func (d *pathDetector) extractFromPath(path string) (string, bool) {
	if d.prefix == "" || !strings.HasPrefix(path, d.prefix) {
		return "", false
	}

	remaining := path[len(d.prefix):]
	if remaining == "" {
		return "", false
	}

	end := strings.IndexByte(remaining, '/')
	var segment string
	if end == -1 {
		segment = remaining
	} else {
		segment = remaining[:end]
	}

	if segment == "" {
		return "", false
	}

	return segment, true
}

// StripVersion removes the prefix and version segment from the path so the
// remainder can be matched against unversioned route templates.
// "/v2/users/42" with pattern "/v{version}/" becomes "/users/42".
func (d *pathDetector) StripVersion(path string) string {
	if d.prefix == "" || !strings.HasPrefix(path, d.prefix) {
		return path
	}

	if len(d.prefix) >= len(path) {
		return path
	}

	remaining := path[len(d.prefix):]
	end := strings.IndexByte(remaining, '/')
	if end == -1 {
		// Version is at end of path
		return "/"
	}

	return remaining[end:]
}

// ═══════════════════════════════════════════════════════════════════════════════
// Header Detector
// ═══════════════════════════════════════════════════════════════════════════════

type headerDetector struct {
	header string
}

func (d *headerDetector) Detect(req *http.Request) (string, bool) {
	if req == nil {
		return "", false
	}
	v := req.Header.Get(d.header)

	return v, v != ""
}

func (d *headerDetector) Method() string {
	return "header"
}

// ═══════════════════════════════════════════════════════════════════════════════
// Query Detector
// ═══════════════════════════════════════════════════════════════════════════════

type queryDetector struct {
	param string
}

func (d *queryDetector) Detect(req *http.Request) (string, bool) {
	if req == nil || req.URL == nil {
		return "", false
	}

	return d.extractFromQuery(req.URL.RawQuery)
}

func (d *queryDetector) Method() string {
	return "query"
}

func (d *queryDetector) extractFromQuery(query string) (string, bool) {
	if query == "" {
		return "", false
	}

	// Fast path: look for param=value pattern
	prefix := d.param + "="
	idx := strings.Index(query, prefix)
	if idx == -1 {
		return "", false
	}

	// Check if it's at start or after &
	if idx > 0 && query[idx-1] != '&' {
		// Might be a substring match (e.g., "api_version" matching "version")
		// Search again after the current position
		rest := query[idx+1:]
		newIdx := strings.Index(rest, prefix)
		if newIdx == -1 {
			return "", false
		}
		if rest[newIdx-1] != '&' {
			return "", false
		}
		idx = idx + 1 + newIdx
	}

	// Extract value. A present-but-empty parameter counts as absent, same
	// as an empty header value.
	start := idx + len(prefix)
	end := strings.IndexByte(query[start:], '&')
	v := query[start:]
	if end != -1 {
		v = query[start : start+end]
	}

	return v, v != ""
}

// ═══════════════════════════════════════════════════════════════════════════════
// Accept Parameter Detector
// ═══════════════════════════════════════════════════════════════════════════════

// acceptDetector reads a media type parameter from the Accept header, per
// RFC 7231 section 5.3.2: "Accept: application/json;version=2.0".
type acceptDetector struct {
	param string
}

func (d *acceptDetector) Detect(req *http.Request) (string, bool) {
	if req == nil {
		return "", false
	}

	accept := req.Header.Get("Accept")
	if accept == "" {
		return "", false
	}

	return d.extractFromAccept(accept)
}

func (d *acceptDetector) Method() string {
	return "accept"
}

func (d *acceptDetector) extractFromAccept(accept string) (string, bool) {
	// Media ranges are comma separated; parameters within a range are
	// semicolon separated. The first range carrying the parameter wins.
	for mediaType := range strings.SplitSeq(accept, ",") {
		parts := strings.Split(mediaType, ";")
		for _, part := range parts[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok || !strings.EqualFold(key, d.param) {
				continue
			}

			value = strings.Trim(value, `"`)
			if value != "" {
				return value, true
			}
		}
	}

	return "", false
}

// ═══════════════════════════════════════════════════════════════════════════════
// Media Type Detector
// ═══════════════════════════════════════════════════════════════════════════════

// mediaTypeDetector embeds the version in a vendor media type, e.g. pattern
// "application/vnd.api.{version}+json" matching
// "Accept: application/vnd.api.2.0+json".
type mediaTypeDetector struct {
	pattern string
	prefix  string // Part before {version}
	suffix  string // Part after {version}
}

func newMediaTypeDetector(pattern string) *mediaTypeDetector {
	d := &mediaTypeDetector{pattern: pattern}
	if idx := strings.Index(pattern, "{version}"); idx >= 0 {
		d.prefix = pattern[:idx]
		d.suffix = pattern[idx+len("{version}"):]
	}

	return d
}

func (d *mediaTypeDetector) Detect(req *http.Request) (string, bool) {
	if req == nil {
		return "", false
	}

	accept := req.Header.Get("Accept")
	if accept == "" {
		return "", false
	}

	return d.extractFromAccept(accept)
}

func (d *mediaTypeDetector) Method() string {
	return "media"
}

func (d *mediaTypeDetector) extractFromAccept(accept string) (string, bool) {
	for mediaType := range strings.SplitSeq(accept, ",") {
		mediaType = strings.TrimSpace(mediaType)

		// Remove quality and other parameters if present
		if semi := strings.IndexByte(mediaType, ';'); semi >= 0 {
			mediaType = mediaType[:semi]
		}

		if !strings.HasPrefix(mediaType, d.prefix) {
			continue
		}
		if !strings.HasSuffix(mediaType, d.suffix) {
			continue
		}

		version := mediaType[len(d.prefix) : len(mediaType)-len(d.suffix)]
		if version != "" {
			return version, true
		}
	}

	return "", false
}

// ═══════════════════════════════════════════════════════════════════════════════
// Custom Detector
// ═══════════════════════════════════════════════════════════════════════════════

type customDetector struct {
	fn func(*http.Request) string
}

func (d *customDetector) Detect(req *http.Request) (string, bool) {
	if d.fn == nil {
		return "", false
	}
	v := d.fn(req)

	return v, v != ""
}

func (d *customDetector) Method() string {
	return "custom"
}

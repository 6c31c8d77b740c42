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
	"strconv"
	"strings"
	"time"
)

// Format identifies the grammar used to parse and order version strings.
// All versions registered for a dispatcher share a single format; mixing
// formats is a configuration error reported at registration time.
type Format int

const (
	// FormatSemantic parses "major[.minor[.patch]][-prerelease]".
	// Missing components default to zero, so "1", "1.0" and "1.0.0" are equal.
	FormatSemantic Format = iota

	// FormatDate parses calendar versions in "YYYY-MM-DD" form.
	FormatDate

	// FormatInteger parses plain non-negative integers ("1", "2", "42").
	FormatInteger

	// FormatCustom orders versions by their position in a declared label list.
	// Requires WithCustomFormat.
	FormatCustom
)

// String returns the format name used in error messages and discovery output.
func (f Format) String() string {
	switch f {
	case FormatSemantic:
		return "semantic"
	case FormatDate:
		return "date"
	case FormatInteger:
		return "integer"
	case FormatCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Version is an immutable, comparable API version identifier.
// Two versions are comparable only when they share a format; the registry
// enforces this at registration time so request-path comparisons never mix
// formats.
//
// The zero Version is not valid; construct one with ParseVersion or
// Config.ParseVersion.
type Version struct {
	format     Format
	major      int
	minor      int
	patch      int
	prerelease string
	date       time.Time
	ordinal    int    // position in the declared order (custom format)
	label      string // raw label (custom format)
}

// ParseVersion parses raw according to format. FormatCustom cannot be parsed
// without a declared label order; use Config.ParseVersion for that.
func ParseVersion(raw string, format Format) (Version, error) {
	switch format {
	case FormatSemantic:
		return parseSemantic(raw)
	case FormatDate:
		return parseDate(raw)
	case FormatInteger:
		return parseInteger(raw)
	case FormatCustom:
		return Version{}, fmt.Errorf("%w: custom format requires a declared label order", ErrCustomOrderRequired)
	default:
		return Version{}, fmt.Errorf("%w: format %d", ErrUnknownFormat, int(format))
	}
}

// MustParseVersion is like ParseVersion but panics on error.
// Intended for tests and static registration tables.
func MustParseVersion(raw string, format Format) Version {
	v, err := ParseVersion(raw, format)
	if err != nil {
		panic(err)
	}

	return v
}

func parseSemantic(raw string) (Version, error) {
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrMalformedVersion)
	}

	core := raw
	prerelease := ""
	if idx := strings.IndexByte(raw, '-'); idx >= 0 {
		core = raw[:idx]
		prerelease = raw[idx+1:]
		if prerelease == "" {
			return Version{}, fmt.Errorf("%w: %q has empty prerelease", ErrMalformedVersion, raw)
		}
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("%w: %q has more than three components", ErrMalformedVersion, raw)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := parseComponent(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, raw)
		}
		nums[i] = n
	}

	return Version{
		format:     FormatSemantic,
		major:      nums[0],
		minor:      nums[1],
		patch:      nums[2],
		prerelease: prerelease,
	}, nil
}

// parseComponent parses one numeric version component.
// Leading zeros are rejected ("01" is not a valid component) so that every
// version has exactly one accepted spelling per component.
func parseComponent(s string) (int, error) {
	if s == "" {
		return 0, ErrMalformedVersion
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, ErrMalformedVersion
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrMalformedVersion
	}

	return n, nil
}

func parseDate(raw string) (Version, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrMalformedVersion, raw)
	}

	return Version{format: FormatDate, date: t}, nil
}

func parseInteger(raw string) (Version, error) {
	n, err := parseComponent(raw)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q is not a non-negative integer", ErrMalformedVersion, raw)
	}

	return Version{format: FormatInteger, major: n}, nil
}

func parseCustom(raw string, order []string) (Version, error) {
	for i, label := range order {
		if label == raw {
			return Version{format: FormatCustom, ordinal: i, label: label}, nil
		}
	}

	return Version{}, fmt.Errorf("%w: %q is not a declared custom version", ErrMalformedVersion, raw)
}

// Format returns the format this version was parsed under.
func (v Version) Format() Format {
	return v.format
}

// String returns the canonical form of the version: semantic versions are
// fully expanded ("1" becomes "1.0.0"), dates are "YYYY-MM-DD", integers are
// decimal, custom versions are their declared label. The canonical form is
// stable and round-trips through ParseVersion.
func (v Version) String() string {
	switch v.format {
	case FormatSemantic:
		s := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
		if v.prerelease != "" {
			s += "-" + v.prerelease
		}
		return s
	case FormatDate:
		return v.date.Format("2006-01-02")
	case FormatInteger:
		return strconv.Itoa(v.major)
	case FormatCustom:
		return v.label
	default:
		return ""
	}
}

// Compare returns -1, 0, or +1 when v orders before, equal to, or after
// other. Both versions must share a format; the registry guarantees this for
// all versions reaching the request path.
func (v Version) Compare(other Version) int {
	if v.format != other.format {
		// Formats are never mixed within a registry; fall back to format
		// ordering so Compare stays total.
		return compareInt(int(v.format), int(other.format))
	}

	switch v.format {
	case FormatSemantic:
		if c := compareInt(v.major, other.major); c != 0 {
			return c
		}
		if c := compareInt(v.minor, other.minor); c != 0 {
			return c
		}
		if c := compareInt(v.patch, other.patch); c != 0 {
			return c
		}
		return comparePrerelease(v.prerelease, other.prerelease)
	case FormatDate:
		switch {
		case v.date.Before(other.date):
			return -1
		case v.date.After(other.date):
			return 1
		default:
			return 0
		}
	case FormatCustom:
		return compareInt(v.ordinal, other.ordinal)
	default: // FormatInteger
		return compareInt(v.major, other.major)
	}
}

// Equal reports whether v and other denote the same version, ignoring
// cosmetic spelling differences ("1.0" equals "1.0.0").
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease orders prerelease tags per semantic versioning: a version
// without a prerelease orders after one with it, and tags compare dot-part by
// dot-part, numerically when both parts are numeric.
func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1 // release > prerelease
	}
	if b == "" {
		return -1
	}

	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")
	for i := 0; i < len(partsA) && i < len(partsB); i++ {
		pa, pb := partsA[i], partsB[i]
		na, errA := strconv.Atoi(pa)
		nb, errB := strconv.Atoi(pb)
		switch {
		case errA == nil && errB == nil:
			if c := compareInt(na, nb); c != 0 {
				return c
			}
		case errA == nil:
			return -1 // numeric parts order before alphanumeric ones
		case errB == nil:
			return 1
		default:
			if c := strings.Compare(pa, pb); c != 0 {
				return c
			}
		}
	}

	return compareInt(len(partsA), len(partsB))
}

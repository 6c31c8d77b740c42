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

//go:build !integration

package versioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionSemantic(t *testing.T) {
	t.Parallel()

	t.Run("full version", func(t *testing.T) {
		t.Parallel()
		v, err := ParseVersion("1.2.3", FormatSemantic)
		require.NoError(t, err)
		assert.Equal(t, "1.2.3", v.String())
	})

	t.Run("missing components default to zero", func(t *testing.T) {
		t.Parallel()
		v1, err := ParseVersion("1.0", FormatSemantic)
		require.NoError(t, err)
		v2, err := ParseVersion("1.0.0", FormatSemantic)
		require.NoError(t, err)
		assert.True(t, v1.Equal(v2))
		assert.Equal(t, "1.0.0", v1.String())

		v3, err := ParseVersion("2", FormatSemantic)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", v3.String())
	})

	t.Run("prerelease", func(t *testing.T) {
		t.Parallel()
		v, err := ParseVersion("2.0.0-beta.1", FormatSemantic)
		require.NoError(t, err)
		assert.Equal(t, "2.0.0-beta.1", v.String())
	})

	t.Run("canonical form round-trips", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"1", "1.2", "1.2.3", "2.0.0-rc.1"} {
			v := MustParseVersion(raw, FormatSemantic)
			again := MustParseVersion(v.String(), FormatSemantic)
			assert.True(t, v.Equal(again), "round-trip of %q", raw)
			assert.Equal(t, v.String(), again.String())
		}
	})

	t.Run("invalid versions rejected", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"", "1.2.3.4", "a.b.c", "1..2", "01.2", "-1", "1.0-", "1.-2"} {
			_, err := ParseVersion(raw, FormatSemantic)
			assert.ErrorIs(t, err, ErrMalformedVersion, "raw %q", raw)
		}
	})
}

func TestParseVersionDate(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("2025-06-01", FormatDate)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", v.String())

	for _, raw := range []string{"2025-13-01", "2025-06-32", "20250601", "yesterday", ""} {
		_, err := ParseVersion(raw, FormatDate)
		assert.ErrorIs(t, err, ErrMalformedVersion, "raw %q", raw)
	}
}

func TestParseVersionInteger(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion("3", FormatInteger)
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	for _, raw := range []string{"", "-1", "1.0", "03", "three"} {
		_, err := ParseVersion(raw, FormatInteger)
		assert.ErrorIs(t, err, ErrMalformedVersion, "raw %q", raw)
	}
}

func TestParseVersionCustom(t *testing.T) {
	t.Parallel()

	t.Run("requires declared order", func(t *testing.T) {
		t.Parallel()
		_, err := ParseVersion("beta", FormatCustom)
		assert.ErrorIs(t, err, ErrCustomOrderRequired)
	})

	t.Run("declared labels parse in order", func(t *testing.T) {
		t.Parallel()
		order := []string{"alpha", "beta", "stable"}

		alpha, err := parseCustom("alpha", order)
		require.NoError(t, err)
		stable, err := parseCustom("stable", order)
		require.NoError(t, err)

		assert.True(t, alpha.Less(stable))
		assert.Equal(t, "alpha", alpha.String())
	})

	t.Run("undeclared label rejected", func(t *testing.T) {
		t.Parallel()
		_, err := parseCustom("gamma", []string{"alpha", "beta"})
		assert.ErrorIs(t, err, ErrMalformedVersion)
	})
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	sem := func(raw string) Version { return MustParseVersion(raw, FormatSemantic) }

	t.Run("semantic ordering", func(t *testing.T) {
		t.Parallel()
		assert.True(t, sem("1.0.0").Less(sem("1.0.1")))
		assert.True(t, sem("1.9.0").Less(sem("1.10.0")))
		assert.True(t, sem("1.10.0").Less(sem("2.0.0")))
		assert.Equal(t, 0, sem("1.0").Compare(sem("1.0.0")))
	})

	t.Run("prerelease orders before release", func(t *testing.T) {
		t.Parallel()
		assert.True(t, sem("2.0.0-alpha").Less(sem("2.0.0")))
		assert.True(t, sem("2.0.0-alpha").Less(sem("2.0.0-beta")))
		assert.True(t, sem("2.0.0-beta.2").Less(sem("2.0.0-beta.11")))
		assert.True(t, sem("2.0.0-1").Less(sem("2.0.0-alpha")))
		assert.True(t, sem("2.0.0-beta").Less(sem("2.0.0-beta.1")))
	})

	t.Run("date ordering", func(t *testing.T) {
		t.Parallel()
		old := MustParseVersion("2024-01-15", FormatDate)
		recent := MustParseVersion("2025-06-01", FormatDate)
		assert.True(t, old.Less(recent))
		assert.True(t, recent.Equal(recent))
	})

	t.Run("integer ordering", func(t *testing.T) {
		t.Parallel()
		assert.True(t, MustParseVersion("2", FormatInteger).Less(MustParseVersion("10", FormatInteger)))
	})
}

func TestMustParseVersionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustParseVersion("not-a-version", FormatSemantic)
	})
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "semantic", FormatSemantic.String())
	assert.Equal(t, "date", FormatDate.String())
	assert.Equal(t, "integer", FormatInteger.String())
	assert.Equal(t, "custom", FormatCustom.String())
}

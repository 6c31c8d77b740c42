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
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNow    = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testSunset = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

func TestLifecycleOptions(t *testing.T) {
	t.Parallel()

	lc := ApplyLifecycleOptions(
		DeprecatedSince(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		Sunset(testSunset),
		DeprecationReason("superseded by the new billing model"),
		MigrationDocs("https://docs.example.com/v1-to-v2"),
		SuccessorVersion("2.0"),
	)

	assert.True(t, lc.Deprecated)
	assert.Equal(t, testSunset, lc.SunsetDate)
	assert.Equal(t, "superseded by the new billing model", lc.Reason)
	assert.Equal(t, "https://docs.example.com/v1-to-v2", lc.MigrationURL)
	assert.Equal(t, "2.0", lc.Successor)
}

func TestLifecycleDeprecatedDefaultsSinceToNow(t *testing.T) {
	t.Parallel()

	lc := ApplyLifecycleOptions(Deprecated())
	assert.True(t, lc.Deprecated)
	assert.WithinDuration(t, time.Now(), lc.DeprecatedSince, time.Second)
}

func TestLifecycleIsDeprecated(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		var lc *LifecycleConfig
		assert.False(t, lc.IsDeprecated(testNow))
		assert.False(t, lc.IsSunset(testNow))
	})

	t.Run("not deprecated before announcement date", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(DeprecatedSince(testNow.Add(24 * time.Hour)))
		assert.False(t, lc.IsDeprecated(testNow))
		assert.True(t, lc.IsDeprecated(testNow.Add(48*time.Hour)))
	})

	t.Run("sunset implies deprecated", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(Sunset(testNow.Add(-time.Hour)))
		assert.True(t, lc.IsSunset(testNow))
		assert.True(t, lc.IsDeprecated(testNow))
	})

	t.Run("sunset at the exact sunset instant", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(Sunset(testSunset))
		assert.True(t, lc.IsSunset(testSunset))
		assert.False(t, lc.IsSunset(testSunset.Add(-time.Second)))
	})

	t.Run("future sunset not yet sunset", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(Deprecated(), Sunset(testSunset))
		assert.False(t, lc.IsSunset(testNow))
		assert.True(t, lc.IsDeprecated(testNow))
	})
}

func TestLifecycleWarningMessage(t *testing.T) {
	t.Parallel()

	t.Run("bare deprecation", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(Deprecated())
		assert.Equal(t, "API version 1.0.0 is deprecated", lc.WarningMessage("1.0.0", testNow))
	})

	t.Run("full message", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(
			Deprecated(),
			Sunset(testSunset),
			DeprecationReason("billing moved to v2"),
			SuccessorVersion("2.0"),
		)

		msg := lc.WarningMessage("1.0.0", testNow)
		assert.Contains(t, msg, "API version 1.0.0 is deprecated: billing moved to v2")
		assert.Contains(t, msg, "removed on 2025-12-31")
		assert.Contains(t, msg, "days from now")
		assert.Contains(t, msg, "migrate to version 2.0")
	})

	t.Run("past sunset omits countdown", func(t *testing.T) {
		t.Parallel()
		lc := ApplyLifecycleOptions(Sunset(testNow.Add(-24 * time.Hour)))
		msg := lc.WarningMessage("1.0.0", testNow)
		assert.NotContains(t, msg, "days from now")
	})
}

func TestLifecycleApplyHeaders(t *testing.T) {
	t.Parallel()

	lc := ApplyLifecycleOptions(
		Deprecated(),
		Sunset(testSunset),
		MigrationDocs("https://docs.example.com/migrate"),
		SuccessorVersion("2.0"),
	)

	h := make(http.Header)
	lc.applyHeaders(h, "1.0.0", testNow, true)

	assert.Equal(t, "true", h.Get("Deprecation"))
	assert.Equal(t, testSunset.UTC().Format(http.TimeFormat), h.Get("Sunset"))
	assert.Contains(t, h.Get("Link"), `rel="deprecation"`)
	assert.Contains(t, h.Get("Link"), `rel="sunset"`)
	assert.Equal(t, "2.0", h.Get("X-API-Replacement"))
	assert.Contains(t, h.Get("Warning"), "299 - ")
	assert.Contains(t, h.Get("Warning"), "deprecated")

	noWarn := make(http.Header)
	lc.applyHeaders(noWarn, "1.0.0", testNow, false)
	assert.Empty(t, noWarn.Get("Warning"))
}

func TestLifecyclePayload(t *testing.T) {
	t.Parallel()

	t.Run("nil for active versions", func(t *testing.T) {
		t.Parallel()
		lc := &LifecycleConfig{}
		assert.Nil(t, lc.Payload("1.0.0", testNow))
	})

	t.Run("deprecated payload", func(t *testing.T) {
		t.Parallel()
		since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		lc := ApplyLifecycleOptions(
			DeprecatedSince(since),
			Sunset(testSunset),
			SuccessorVersion("2.0"),
		)

		p := lc.Payload("1.0.0", testNow)
		require.NotNil(t, p)
		assert.True(t, p.Deprecated)
		assert.Equal(t, since.Format(time.RFC3339), p.DeprecatedSince)
		assert.Equal(t, testSunset.Format(time.RFC3339), p.Sunset)
		assert.Equal(t, "2.0", p.Successor)
		assert.NotEmpty(t, p.Warning)
	})
}

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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscoveryDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	d := MustNew(
		WithPathDetection("/v{version}/"),
		WithHeaderDetection(""),
		WithDefault("2.0"),
		WithClock(func() time.Time { return testNow }),
	)

	require.NoError(t, d.Version("1.0",
		DeprecatedSince(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		Sunset(testSunset),
		SuccessorVersion("2.0"),
	).GET("/users", echoHandler("one")))
	require.NoError(t, d.Version("2.0").GET("/users", echoHandler("two")))
	require.NoError(t, d.Version("2.0").POST("/users", echoHandler("create")))

	return d
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	doc := newDiscoveryDispatcher(t).Discover()

	t.Run("versions ascending with lifecycle on deprecated only", func(t *testing.T) {
		t.Parallel()
		require.Len(t, doc.Versions, 2)

		assert.Equal(t, "1.0.0", doc.Versions[0].Version)
		require.NotNil(t, doc.Versions[0].Deprecation)
		assert.True(t, doc.Versions[0].Deprecation.Deprecated)
		assert.Equal(t, "2.0", doc.Versions[0].Deprecation.Successor)

		assert.Equal(t, "2.0.0", doc.Versions[1].Version)
		assert.Nil(t, doc.Versions[1].Deprecation)
	})

	t.Run("default and strategies", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "2.0.0", doc.DefaultVersion)
		assert.Equal(t, []string{"path", "header"}, doc.Strategies)
	})

	t.Run("endpoints list their versions", func(t *testing.T) {
		t.Parallel()
		require.Len(t, doc.Endpoints, 2)

		get := doc.Endpoints[0]
		assert.Equal(t, http.MethodGet, get.Method)
		assert.Equal(t, "/users", get.Path)
		assert.Equal(t, []string{"1.0.0", "2.0.0"}, get.Versions)

		post := doc.Endpoints[1]
		assert.Equal(t, http.MethodPost, post.Method)
		assert.Equal(t, []string{"2.0.0"}, post.Versions)
	})
}

func TestDiscoverReflectsClock(t *testing.T) {
	t.Parallel()

	// Same registration, clock moved past the sunset date: the descriptor
	// flips to sunset without re-registration.
	d := MustNew(
		WithHeaderDetection(""),
		WithClock(func() time.Time { return testSunset.Add(48 * time.Hour) }),
	)
	require.NoError(t, d.Version("1.0", Sunset(testSunset)).GET("/users", echoHandler("one")))

	doc := d.Discover()
	require.Len(t, doc.Versions, 1)
	require.NotNil(t, doc.Versions[0].Deprecation)
	assert.Equal(t, testSunset.Format(time.RFC3339), doc.Versions[0].Deprecation.Sunset)
}

func TestDiscoveryHandler(t *testing.T) {
	t.Parallel()

	d := newDiscoveryDispatcher(t)

	rec := httptest.NewRecorder()
	d.DiscoveryHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/versions", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var doc DiscoveryDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "2.0.0", doc.DefaultVersion)
	assert.Len(t, doc.Versions, 2)
}

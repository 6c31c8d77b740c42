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
	"sort"
	"sync"
	"sync/atomic"
)

// RouteKey identifies a logical route independent of version.
type RouteKey struct {
	Method string
	Path   string
}

func (k RouteKey) String() string {
	return k.Method + " " + k.Path
}

// Route is one versioned implementation of a logical route.
type Route struct {
	Key       RouteKey
	Version   Version
	Handler   http.Handler
	Lifecycle *LifecycleConfig
}

// registrySnapshot is an immutable view of all registered routes. Route
// slices are sorted ascending by version and never mutated after publish.
type registrySnapshot struct {
	routes map[RouteKey][]*Route
}

var emptySnapshot = &registrySnapshot{routes: map[RouteKey][]*Route{}}

// Registry maps route keys to their versioned handlers. Reads are lock-free
// against an atomic snapshot; writes copy the snapshot under a mutex and
// publish the replacement, so handlers can be added while serving traffic.
type Registry struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[registrySnapshot]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.snapshot.Store(emptySnapshot)

	return r
}

// Register adds a versioned handler for a route key. It returns a
// DuplicateVersionError when the same route+version pair is already
// registered, and ErrFormatMismatch when the version's format differs from
// the versions already registered for the key.
func (r *Registry) Register(key RouteKey, v Version, handler http.Handler, lc *LifecycleConfig) error {
	if handler == nil {
		return fmt.Errorf("%w: %s version %s", ErrNilHandler, key, v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.snapshot.Load()
	existing := current.routes[key]

	for _, rt := range existing {
		if rt.Version.Format() != v.Format() {
			return fmt.Errorf("%w: %s has %s versions, got %s", ErrFormatMismatch, key, rt.Version.Format(), v.Format())
		}
		if rt.Version.Equal(v) {
			return &DuplicateVersionError{Key: key, Version: v}
		}
	}

	next := &registrySnapshot{routes: make(map[RouteKey][]*Route, len(current.routes)+1)}
	for k, rts := range current.routes {
		next.routes[k] = rts
	}

	updated := make([]*Route, 0, len(existing)+1)
	updated = append(updated, existing...)
	updated = append(updated, &Route{Key: key, Version: v, Handler: handler, Lifecycle: lc})
	sort.Slice(updated, func(i, j int) bool {
		return updated[i].Version.Less(updated[j].Version)
	})
	next.routes[key] = updated

	r.snapshot.Store(next)

	return nil
}

// Versions returns the registered versions for a key in ascending order.
func (r *Registry) Versions(key RouteKey) []Version {
	routes := r.snapshot.Load().routes[key]
	if len(routes) == 0 {
		return nil
	}

	versions := make([]Version, len(routes))
	for i, rt := range routes {
		versions[i] = rt.Version
	}

	return versions
}

// HandlerFor returns the route registered for exactly the given version.
func (r *Registry) HandlerFor(key RouteKey, v Version) (*Route, bool) {
	for _, rt := range r.snapshot.Load().routes[key] {
		if rt.Version.Equal(v) {
			return rt, true
		}
	}

	return nil, false
}

// Match resolves a requested version against the key's registered versions
// under the given policy. With MatchNearestNotGreater it returns the highest
// registered version not exceeding the request; a request below the lowest
// registered version finds nothing.
func (r *Registry) Match(key RouteKey, requested Version, policy MatchPolicy) (*Route, bool) {
	routes := r.snapshot.Load().routes[key]
	if len(routes) == 0 {
		return nil, false
	}

	switch policy {
	case MatchNearestNotGreater:
		// Routes are sorted ascending; binary search for the first version
		// greater than the request, then step back one.
		idx := sort.Search(len(routes), func(i int) bool {
			return requested.Less(routes[i].Version)
		})
		if idx == 0 {
			return nil, false
		}

		return routes[idx-1], true
	default:
		for _, rt := range routes {
			if rt.Version.Equal(requested) {
				return rt, true
			}
		}

		return nil, false
	}
}

// Latest returns the highest registered version for a key.
func (r *Registry) Latest(key RouteKey) (*Route, bool) {
	routes := r.snapshot.Load().routes[key]
	if len(routes) == 0 {
		return nil, false
	}

	return routes[len(routes)-1], true
}

// Keys returns all registered route keys sorted by path then method.
func (r *Registry) Keys() []RouteKey {
	routes := r.snapshot.Load().routes
	keys := make([]RouteKey, 0, len(routes))
	for k := range routes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Path != keys[j].Path {
			return keys[i].Path < keys[j].Path
		}

		return keys[i].Method < keys[j].Method
	})

	return keys
}

// Routes returns the routes for a key in ascending version order. The
// returned slice is shared with the snapshot and must not be modified.
func (r *Registry) Routes(key RouteKey) []*Route {
	return r.snapshot.Load().routes[key]
}

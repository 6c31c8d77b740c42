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

import "context"

type contextKey struct{}

// NewContext returns a context carrying the resolved version.
func NewContext(ctx context.Context, rv ResolvedVersion) context.Context {
	return context.WithValue(ctx, contextKey{}, rv)
}

// FromContext returns the resolved version stored by the dispatcher, if any.
//
// Example:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    if rv, ok := versioning.FromContext(r.Context()); ok {
//	        log.Printf("serving version %s (from %s)", rv.Version, rv.Source)
//	    }
//	}
func FromContext(ctx context.Context) (ResolvedVersion, bool) {
	rv, ok := ctx.Value(contextKey{}).(ResolvedVersion)
	return rv, ok
}

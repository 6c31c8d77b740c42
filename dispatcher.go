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
	"fmt"
	"net/http"
	"time"
)

// Dispatcher routes requests to version-specific handlers. It owns the
// detection configuration, the route registry, and error rendering.
//
// Example:
//
//	d := versioning.MustNew(
//	    versioning.WithHeaderDetection(""),
//	    versioning.WithQueryDetection(""),
//	    versioning.WithDefault("1.0"),
//	)
//	d.Version("1.0").GET("/users", listUsersV1)
//	d.Version("2.0").GET("/users", listUsersV2)
//	http.ListenAndServe(":8080", d)
type Dispatcher struct {
	config   *Config
	registry *Registry
	resolver *Resolver
}

// New creates a dispatcher with the given options.
//
// Example:
//
//	d, err := versioning.New(
//	    versioning.WithPathDetection("/v{version}/"),
//	    versioning.WithDefault("1.0"),
//	)
func New(opts ...Option) (*Dispatcher, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()

	return &Dispatcher{
		config:   cfg,
		registry: reg,
		resolver: NewResolver(cfg, reg),
	}, nil
}

// MustNew is like New but panics on configuration errors.
// Use it for static configuration known to be valid.
func MustNew(opts ...Option) *Dispatcher {
	d, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("versioning: %v", err))
	}

	return d
}

// Config returns the dispatcher's configuration.
func (d *Dispatcher) Config() *Config {
	return d.config
}

// Registry returns the dispatcher's route registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// VersionRouter registers routes for one version with a shared lifecycle.
type VersionRouter struct {
	dispatcher *Dispatcher
	version    Version
	parseErr   error
	lifecycle  *LifecycleConfig
}

// Version creates a registration scope for one version with optional
// lifecycle configuration. An unparseable version is reported by the first
// Handle call, keeping registration chains fluent.
//
// Example:
//
//	v1 := d.Version("1.0",
//	    versioning.Deprecated(),
//	    versioning.Sunset(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
//	)
//	v1.GET("/users", listUsersV1)
func (d *Dispatcher) Version(raw string, opts ...LifecycleOption) *VersionRouter {
	vr := &VersionRouter{
		dispatcher: d,
		lifecycle:  ApplyLifecycleOptions(opts...),
	}

	v, err := d.config.Parse(raw)
	if err != nil {
		vr.parseErr = fmt.Errorf("version %q: %w", raw, err)
		return vr
	}
	vr.version = v

	return vr
}

// Configure applies lifecycle options to an existing version router. Routes
// already registered through this router pick up the change, so lifecycle
// can be configured after defining routes.
//
// Example:
//
//	v1 := d.Version("1.0")
//	v1.GET("/users", listUsersV1)
//	v1.Configure(versioning.Deprecated(), versioning.Sunset(sunsetDate))
func (vr *VersionRouter) Configure(opts ...LifecycleOption) *VersionRouter {
	for _, opt := range opts {
		opt(vr.lifecycle)
	}

	return vr
}

// Handle registers a handler for the given method and unversioned path.
// It returns a DuplicateVersionError when the route+version pair is already
// registered.
//
// Example:
//
//	if err := vr.Handle("GET", "/users", listUsers); err != nil {
//	    log.Fatal(err)
//	}
func (vr *VersionRouter) Handle(method, path string, handler http.Handler) error {
	if vr.parseErr != nil {
		return vr.parseErr
	}

	key := RouteKey{Method: method, Path: path}

	return vr.dispatcher.registry.Register(key, vr.version, handler, vr.lifecycle)
}

// HandleFunc registers an http.HandlerFunc for the given method and path.
func (vr *VersionRouter) HandleFunc(method, path string, handler http.HandlerFunc) error {
	return vr.Handle(method, path, handler)
}

// GET registers a GET handler.
func (vr *VersionRouter) GET(path string, handler http.HandlerFunc) error {
	return vr.Handle(http.MethodGet, path, handler)
}

// POST registers a POST handler.
func (vr *VersionRouter) POST(path string, handler http.HandlerFunc) error {
	return vr.Handle(http.MethodPost, path, handler)
}

// PUT registers a PUT handler.
func (vr *VersionRouter) PUT(path string, handler http.HandlerFunc) error {
	return vr.Handle(http.MethodPut, path, handler)
}

// DELETE registers a DELETE handler.
func (vr *VersionRouter) DELETE(path string, handler http.HandlerFunc) error {
	return vr.Handle(http.MethodDelete, path, handler)
}

// PATCH registers a PATCH handler.
func (vr *VersionRouter) PATCH(path string, handler http.HandlerFunc) error {
	return vr.Handle(http.MethodPatch, path, handler)
}

// routingPath strips the version segment from the request path when a path
// detection strategy matches, so routes register unversioned templates.
// "/v2.0/users" with pattern "/v{version}/" routes as "/users".
func (d *Dispatcher) routingPath(path string) string {
	for _, det := range d.config.detectors {
		if pd, ok := det.(*pathDetector); ok {
			if _, found := pd.extractFromPath(path); found {
				return pd.StripVersion(path)
			}
		}
	}

	return path
}

// ServeHTTP resolves the request's version and dispatches to the matching
// handler. Version and lifecycle headers are written before the handler runs
// so they survive handlers that write their own status.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	key := RouteKey{Method: req.Method, Path: d.routingPath(req.URL.Path)}

	if len(d.registry.Versions(key)) == 0 {
		http.NotFound(w, req)
		return
	}

	rv, err := d.resolver.Resolve(req, key)
	if err != nil {
		d.writeError(w, req, err)
		return
	}

	route := rv.Served
	now := d.config.Now()

	if route.Lifecycle.IsSunset(now) && !d.config.serveSunset {
		d.config.logWarn("refusing sunset version",
			"version", route.Version.String(), "route", key.String())
		d.writeError(w, req, &SunsetError{
			Version:     route.Version,
			SunsetDate:  route.Lifecycle.SunsetDate,
			Replacement: route.Lifecycle.Successor,
		})

		return
	}

	d.applyResponseHeaders(w, rv, key, now)

	req = req.WithContext(NewContext(req.Context(), rv))
	route.Handler.ServeHTTP(w, req)
}

// applyResponseHeaders stamps version provenance and lifecycle headers.
func (d *Dispatcher) applyResponseHeaders(w http.ResponseWriter, rv ResolvedVersion, key RouteKey, now time.Time) {
	h := w.Header()

	if d.config.sendVersionHeader {
		h.Set(d.config.versionHeader, rv.Served.Version.String())
		h.Set(d.config.sourceHeader, rv.Source)
	}

	lc := rv.Served.Lifecycle
	if !lc.IsDeprecated(now) {
		return
	}

	lc.applyHeaders(h, rv.Served.Version.String(), now, d.config.sendWarning299)

	d.config.logWarn("deprecated version in use",
		"version", rv.Served.Version.String(), "route", key.String())
	if obs := d.config.observer; obs != nil && obs.OnDeprecatedUse != nil {
		obs.OnDeprecatedUse(rv.Served.Version.String(), key.String())
	}
}

// HandlerFor returns the handler that would serve the given method, path,
// and raw version, applying the configured match policy. Host routers can
// use it to integrate versioned dispatch without going through ServeHTTP.
func (d *Dispatcher) HandlerFor(method, path, raw string) (http.Handler, error) {
	v, err := d.config.Parse(raw)
	if err != nil {
		return nil, err
	}

	key := RouteKey{Method: method, Path: path}
	route, ok := d.registry.Match(key, v, d.config.matchPolicy)
	if !ok {
		return nil, &UnsupportedVersionError{Key: key, Requested: v, Available: d.registry.Versions(key)}
	}

	return route.Handler, nil
}

// Middleware resolves the request's version identity and stores it in the
// request context without dispatching. Use it when a host router owns
// routing and handlers read the version via FromContext. Malformed versions
// are rejected here; matching against registered handlers is skipped.
func (d *Dispatcher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		raw, source, found := d.resolver.Detect(req)

		var rv ResolvedVersion
		switch {
		case found:
			v, err := d.config.Parse(raw)
			if err != nil {
				d.writeError(w, req, &InvalidFormatError{Raw: raw, Format: d.config.format, Source: source})
				return
			}
			rv = ResolvedVersion{Version: v, Source: source, Raw: raw}
		default:
			def, ok := d.config.DefaultVersion()
			if !ok {
				d.writeError(w, req, &NotFoundError{Key: RouteKey{Method: req.Method, Path: req.URL.Path}})
				return
			}
			rv = ResolvedVersion{Version: def, Source: SourceDefault}
		}

		if d.config.sendVersionHeader {
			w.Header().Set(d.config.versionHeader, rv.Version.String())
			w.Header().Set(d.config.sourceHeader, rv.Source)
		}

		next.ServeHTTP(w, req.WithContext(NewContext(req.Context(), rv)))
	})
}

// writeError renders a resolution error through the configured formatter.
func (d *Dispatcher) writeError(w http.ResponseWriter, req *http.Request, err error) {
	resp := d.config.formatter.Format(req, err)

	h := w.Header()
	h.Set("Content-Type", resp.ContentType)
	for k, vals := range resp.Headers {
		for _, v := range vals {
			h.Add(k, v)
		}
	}

	w.WriteHeader(resp.Status)
	if resp.Body != nil {
		_ = json.NewEncoder(w).Encode(resp.Body)
	}
}

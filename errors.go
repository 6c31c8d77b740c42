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
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	riverrors "rivaas.dev/errors"
)

// Static errors for configuration and registration validation.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Detection strategy errors
	ErrEmptyPathPattern          = errors.New("path pattern cannot be empty")
	ErrMissingVersionPlaceholder = errors.New("pattern must contain {version} placeholder")
	ErrEmptyHeaderName           = errors.New("header name cannot be empty")
	ErrEmptyQueryParam           = errors.New("query parameter name cannot be empty")
	ErrEmptyAcceptParam          = errors.New("accept parameter name cannot be empty")
	ErrNilCustomDetector         = errors.New("custom detector function cannot be nil")

	// Configuration errors
	ErrEmptyDefaultVersion = errors.New("default version cannot be empty")
	ErrUnknownFormat       = errors.New("unknown version format")
	ErrCustomOrderRequired = errors.New("custom version order is required")
	ErrEmptyVersionEntry   = errors.New("version cannot be empty")
	ErrNilHandler          = errors.New("handler cannot be nil")
	ErrNilFormatter        = errors.New("formatter cannot be nil")

	// Parse and registration errors
	ErrMalformedVersion = errors.New("malformed version string")
	ErrFormatMismatch   = errors.New("version format mismatch")
)

// Error codes surfaced to clients in structured error bodies.
const (
	CodeVersionNotFound      = "VERSION_NOT_FOUND"
	CodeInvalidVersionFormat = "INVALID_VERSION_FORMAT"
	CodeUnsupportedVersion   = "UNSUPPORTED_VERSION"
	CodeVersionSunset        = "VERSION_SUNSET"
	CodeDuplicateVersion     = "DUPLICATE_VERSION"
)

// NotFoundError is returned when no detection strategy extracted a version
// from the request and no default version is configured.
type NotFoundError struct {
	Key RouteKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no API version specified for %s and no default version is configured", e.Key)
}

// HTTPStatus implements the rivaas.dev/errors ErrorType interface.
func (e *NotFoundError) HTTPStatus() int { return http.StatusBadRequest }

// Code implements the rivaas.dev/errors ErrorCode interface.
func (e *NotFoundError) Code() string { return CodeVersionNotFound }

// InvalidFormatError is returned when an extracted version string does not
// match the configured format grammar. The error is final: extraction never
// falls through to a lower-priority strategy after a malformed value.
type InvalidFormatError struct {
	Raw    string
	Format Format
	Source string // detection strategy that produced the raw value
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid %s version %q (from %s)", e.Format, e.Raw, e.Source)
}

// HTTPStatus implements the rivaas.dev/errors ErrorType interface.
func (e *InvalidFormatError) HTTPStatus() int { return http.StatusBadRequest }

// Code implements the rivaas.dev/errors ErrorCode interface.
func (e *InvalidFormatError) Code() string { return CodeInvalidVersionFormat }

// Details implements the rivaas.dev/errors ErrorDetails interface.
func (e *InvalidFormatError) Details() any {
	return map[string]any{
		"raw":    e.Raw,
		"format": e.Format.String(),
		"source": e.Source,
	}
}

// UnsupportedVersionError is returned when a well-formed requested version has
// no handler satisfying the route's match policy.
type UnsupportedVersionError struct {
	Key       RouteKey
	Requested Version
	Available []Version
}

func (e *UnsupportedVersionError) Error() string {
	msg := fmt.Sprintf("version %s is not supported for %s", e.Requested, e.Key)
	if len(e.Available) > 0 {
		msg += ". Available versions: " + joinVersions(e.Available)
	}

	return msg
}

// HTTPStatus implements the rivaas.dev/errors ErrorType interface.
func (e *UnsupportedVersionError) HTTPStatus() int { return http.StatusNotFound }

// Code implements the rivaas.dev/errors ErrorCode interface.
func (e *UnsupportedVersionError) Code() string { return CodeUnsupportedVersion }

// Details implements the rivaas.dev/errors ErrorDetails interface.
func (e *UnsupportedVersionError) Details() any {
	available := make([]string, len(e.Available))
	for i, v := range e.Available {
		available[i] = v.String()
	}

	return map[string]any{
		"requested": e.Requested.String(),
		"available": available,
	}
}

// SunsetError is returned when the resolved version is past its sunset date
// and sunset serving is not permitted. It is distinct from
// UnsupportedVersionError so clients can tell "never existed" from "retired".
type SunsetError struct {
	Version     Version
	SunsetDate  time.Time
	Replacement string
}

func (e *SunsetError) Error() string {
	msg := fmt.Sprintf("version %s reached its sunset date on %s", e.Version, e.SunsetDate.Format("2006-01-02"))
	if e.Replacement != "" {
		msg += ". Please use " + e.Replacement + " instead"
	}

	return msg
}

// HTTPStatus implements the rivaas.dev/errors ErrorType interface.
func (e *SunsetError) HTTPStatus() int { return http.StatusGone }

// Code implements the rivaas.dev/errors ErrorCode interface.
func (e *SunsetError) Code() string { return CodeVersionSunset }

// Details implements the rivaas.dev/errors ErrorDetails interface.
func (e *SunsetError) Details() any {
	details := map[string]any{
		"version":     e.Version.String(),
		"sunset_date": e.SunsetDate.UTC().Format(time.RFC3339),
	}
	if e.Replacement != "" {
		details["replacement"] = e.Replacement
	}

	return details
}

// DuplicateVersionError is returned by registration when the same
// route+version pair is registered twice. Registration errors are fatal at
// startup; they are never surfaced to clients.
type DuplicateVersionError struct {
	Key     RouteKey
	Version Version
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("version %s is already registered for %s", e.Version, e.Key)
}

// Code implements the rivaas.dev/errors ErrorCode interface.
func (e *DuplicateVersionError) Code() string { return CodeDuplicateVersion }

// defaultFormatter renders errors as {"error_kind", "message", "detail"}
// JSON bodies. It honors the rivaas.dev/errors interfaces so custom error
// types keep control of their status, code, and details. Swap it out with
// WithErrorFormatter, e.g. for errors.NewRFC9457.
type defaultFormatter struct{}

func (defaultFormatter) Format(_ *http.Request, err error) riverrors.Response {
	status := http.StatusInternalServerError
	var typed riverrors.ErrorType
	if errors.As(err, &typed) {
		status = typed.HTTPStatus()
	}

	body := map[string]any{
		"message": err.Error(),
	}

	var coded riverrors.ErrorCode
	if errors.As(err, &coded) {
		body["error_kind"] = coded.Code()
	}

	var detailed riverrors.ErrorDetails
	if errors.As(err, &detailed) {
		body["detail"] = detailed.Details()
	}

	return riverrors.Response{
		Status:      status,
		ContentType: "application/json; charset=utf-8",
		Body:        body,
	}
}

func joinVersions(versions []Version) string {
	var b strings.Builder
	for i, v := range versions {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}

	return b.String()
}

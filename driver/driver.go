// Copyright (C) 2021-2025 Chronicle Labs, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package driver provides the protocol driver catalog used for lexical
// operations on storage URIs.
//
// A Driver describes how a single URI scheme strips its scheme prefix,
// extracts scheme-specific options from a URI, and derives the parent of a
// path, together with a small set of traits that control how the flavour
// engine splits and joins paths for that scheme. Drivers are looked up
// through a Catalog, which synthesizes a generic driver for schemes it does
// not know about, so lookups never fail.
package driver

import (
	"strings"
)

// Sep is the path separator used by every supported scheme.
const Sep = "/"

// Driver describes the lexical quirks of a URI scheme.
//
// A driver is constructed once, registered with a catalog, and never mutated
// afterwards. All functions must be total over syntactically well-formed
// input; malformed input degrades to best-effort stripping.
type Driver struct {
	// Schemes lists the scheme aliases handled by this driver. The first
	// entry is the canonical scheme name.
	Schemes []string

	// RootMarker is the canonical string denoting the root of the scheme's
	// path space. It is either "" or "/".
	RootMarker string

	// AnchorIsNetloc reports that the host or bucket portion of a URI
	// behaves as the path's drive.
	AnchorIsNetloc bool

	// EmptyPartsSignificant reports that empty path components carry
	// meaning and must not be collapsed when joining or splitting.
	EmptyPartsSignificant bool

	// TrailingSlashSignificant reports that a trailing separator is
	// semantically meaningful for this scheme.
	TrailingSlashSignificant bool

	// NativeLocal reports that the scheme addresses the local filesystem
	// and path operations should use OS-native semantics.
	NativeLocal bool

	// OpaquePath reports that the whole path is a single opaque token,
	// such as a data URI, and is never split into components.
	OpaquePath bool

	// Passthrough reports that the scheme is a wrapper layer that owns no
	// path of its own and forwards the inner layer's path.
	Passthrough bool

	// StripScheme removes the scheme prefix from a URI and normalizes the
	// remainder into the scheme's path form.
	StripScheme func(path string) string

	// ExtractOptions extracts scheme-specific storage options encoded in
	// a URI, e.g. the host and port of an sftp URI.
	ExtractOptions func(uri string) map[string]any

	// Parent strips one path segment from the right.
	Parent func(path string) string
}

// Scheme returns the canonical scheme name of the driver.
func (d *Driver) Scheme() string {
	if len(d.Schemes) == 0 {
		return ""
	}
	return d.Schemes[0]
}

// newDriver fills in default behavior for fields left unset: the abstract
// scheme stripping, an empty option extractor and the abstract parent
// derivation.
func newDriver(d Driver) *Driver {
	if d.StripScheme == nil {
		d.StripScheme = abstractStrip(d.Schemes, d.RootMarker)
	}
	if d.ExtractOptions == nil {
		d.ExtractOptions = noOptions
	}
	if d.Parent == nil {
		d.Parent = abstractParent(d.StripScheme, d.RootMarker)
	}
	return &d
}

func noOptions(string) map[string]any {
	return map[string]any{}
}

// abstractStrip returns the default scheme stripping: a leading
// "scheme://" or "scheme::" prefix is removed for every scheme alias,
// trailing separators are dropped and the root marker is returned for an
// empty remainder.
func abstractStrip(schemes []string, rootMarker string) func(string) string {
	return func(path string) string {
		for _, scheme := range schemes {
			if strings.HasPrefix(path, scheme+"://") {
				path = path[len(scheme)+3:]
			} else if strings.HasPrefix(path, scheme+"::") {
				path = path[len(scheme)+2:]
			}
		}
		path = strings.TrimRight(path, Sep)
		if path == "" {
			return rootMarker
		}
		return path
	}
}

// abstractParent returns the default parent derivation: one segment is
// stripped from the right of the stripped path.
func abstractParent(strip func(string) string, rootMarker string) func(string) string {
	return func(path string) string {
		path = strip(path)
		if i := strings.LastIndex(path, Sep); i >= 0 {
			parent := path[:i]
			if rootMarker != "" {
				parent = strings.TrimLeft(parent, rootMarker)
			}
			return rootMarker + parent
		}
		return rootMarker
	}
}

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

// Package flavour implements the lexical path operations shared by all
// storage URI schemes, parameterized by a driver record.
//
// Different backends disagree on whether slashes are idempotent, whether the
// host or bucket acts as an anchor, and whether trailing slashes carry
// meaning. The flavour engine folds those differences into a handful of
// functions (join, split, split-drive, split-root, is-absolute,
// normalize-case) driven entirely by the driver's traits. All functions are
// pure, perform no I/O and are total over syntactically well-formed input;
// malformed input degrades to best-effort stripping.
package flavour

import (
	netURL "net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/chronicleprotocol/urichain/driver"
)

// Flavour binds the lexical path operations to a single driver record.
type Flavour struct {
	d *driver.Driver
}

// New creates a flavour for the given driver.
func New(d *driver.Driver) *Flavour {
	return &Flavour{d: d}
}

// ForScheme creates a flavour for the given scheme, resolved through the
// default driver catalog.
func ForScheme(scheme string) *Flavour {
	return New(driver.Lookup(scheme))
}

// Driver returns the underlying driver record.
func (f *Flavour) Driver() *driver.Driver { return f.d }

// Sep returns the path separator.
func (f *Flavour) Sep() string { return driver.Sep }

// RootMarker returns the effective root marker: the driver's root marker,
// or the separator when the anchor is the netloc and the marker is empty.
func (f *Flavour) RootMarker() string {
	if f.d.RootMarker == "" && f.d.AnchorIsNetloc {
		return driver.Sep
	}
	return f.d.RootMarker
}

// Strip removes the scheme prefix from a path. The single slash URI form is
// normalized to the canonical triple slash form first.
func (f *Flavour) Strip(path string) string {
	return f.d.StripScheme(driver.NormalizeEmptyNetloc(path))
}

// SplitDrive splits a path into drive and rest.
//
// When the anchor is the netloc and the stripped path still parses as a URI
// with a scheme (e.g. http), the drive is the scheme plus netloc portion and
// the rest is the path, query and fragment portion. The drive is rebuilt
// from the parsed components directly, so no compensation for doubled
// leading slashes is needed. When the stripped path has no scheme, the first
// path segment up to the first separator is the drive (e.g. a bucket name).
// Native local paths delegate to OS-native drive splitting. All other
// schemes have no drive.
func (f *Flavour) SplitDrive(path string) (string, string) {
	stripped := f.Strip(path)
	switch {
	case f.d.AnchorIsNetloc:
		if u, err := netURL.Parse(stripped); err == nil && u.Scheme != "" && strings.Contains(stripped, "://") {
			drive := u.Scheme + "://"
			if u.User != nil {
				drive += u.User.String() + "@"
			}
			drive += u.Host
			rest := u.EscapedPath()
			if u.ForceQuery || u.RawQuery != "" {
				rest += "?" + u.RawQuery
			}
			if u.Fragment != "" {
				rest += "#" + u.EscapedFragment()
			}
			if rest == "" {
				rest = f.RootMarker()
			}
			return drive, rest
		}
		drive, rest, found := strings.Cut(stripped, driver.Sep)
		if !found {
			return drive, ""
		}
		return drive, driver.Sep + rest
	case f.d.NativeLocal:
		vol := filepath.ToSlash(filepath.VolumeName(filepath.FromSlash(stripped)))
		return vol, stripped[len(vol):]
	default:
		return "", stripped
	}
}

// SplitRoot splits a path into drive, root and the relative tail with a
// single leading separator removed.
func (f *Flavour) SplitRoot(path string) (drive, root, rel string) {
	drive, rest := f.SplitDrive(path)
	return drive, f.RootMarker(), strings.TrimPrefix(rest, driver.Sep)
}

// Join joins path components, inserting the separator as needed.
//
// When the anchor is the netloc, the drive is split off the base first; if
// the base supplies neither drive nor path, the first operand supplies the
// drive instead. Schemes with significant empty parts join by literal
// separator concatenation, with exactly one trailing separator removed from
// the base to avoid doubling. All other schemes use POSIX join semantics,
// where an absolute operand resets the path.
func (f *Flavour) Join(base string, parts ...string) string {
	var drv, p0 string
	pN := parts
	if f.d.AnchorIsNetloc {
		drv, p0 = f.SplitDrive(base)
		if drv == "" && p0 == "" {
			if len(pN) == 0 {
				return ""
			}
			drv, p0 = f.SplitDrive(pN[0])
			pN = pN[1:]
		}
		if p0 == "" {
			p0 = driver.Sep
		}
	} else {
		p0 = f.Strip(base)
		if p0 == "" {
			p0 = f.d.RootMarker
		}
	}
	if f.d.EmptyPartsSignificant {
		elems := append([]string{strings.TrimSuffix(p0, driver.Sep)}, pN...)
		return drv + strings.Join(elems, driver.Sep)
	}
	return drv + posixJoin(p0, pN...)
}

// Split splits a path into its parent and final component.
func (f *Flavour) Split(path string) (parent, name string) {
	stripped := f.Strip(path)
	parent = f.d.Parent(stripped)
	name = strings.TrimPrefix(stripped, parent)
	name = strings.TrimPrefix(name, driver.Sep)
	return parent, name
}

// IsAbsolute reports whether the path is anchored to the scheme's root.
func (f *Flavour) IsAbsolute(path string) bool {
	stripped := f.Strip(path)
	switch {
	case f.d.NativeLocal:
		return filepath.IsAbs(filepath.FromSlash(stripped))
	case f.d.AnchorIsNetloc:
		drive, rest := f.SplitDrive(path)
		return drive != "" || strings.HasPrefix(rest, driver.Sep)
	case f.d.RootMarker != "":
		return strings.HasPrefix(stripped, f.d.RootMarker)
	default:
		return strings.HasPrefix(stripped, driver.Sep)
	}
}

// NormCase normalizes the case of a path. It is the identity for all
// non-local schemes and for case sensitive local filesystems.
func (f *Flavour) NormCase(path string) string {
	if f.d.NativeLocal && runtime.GOOS == "windows" {
		return strings.ToLower(path)
	}
	return path
}

// posixJoin joins components the way posixpath.join does: an operand with a
// leading separator discards everything before it, and no normalization is
// performed.
func posixJoin(base string, parts ...string) string {
	path := base
	for _, p := range parts {
		switch {
		case strings.HasPrefix(p, driver.Sep):
			path = p
		case path == "" || strings.HasSuffix(path, driver.Sep):
			path += p
		default:
			path += driver.Sep + p
		}
	}
	return path
}

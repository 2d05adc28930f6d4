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

package chain

import (
	"maps"
	"reflect"
)

// Option keys used to fold a chain into a single nested segment and to
// unfold it back. Cache wrappers and other layered filesystems address
// their inner layer through these keys.
const (
	targetPathKey     = "fo"
	targetProtocolKey = "target_protocol"
	targetOptionsKey  = "target_options"
)

// Segment is a single link of a storage chain. Path is nil for
// passthrough segments such as cache wrappers, which operate on the
// path of the next concrete segment instead of carrying their own.
type Segment struct {
	Path    *string
	Scheme  string
	Options map[string]any
}

// NewSegment returns a concrete segment with the given path.
func NewSegment(path, scheme string, options map[string]any) Segment {
	if options == nil {
		options = map[string]any{}
	}
	return Segment{Path: &path, Scheme: scheme, Options: options}
}

// NewPassthroughSegment returns a segment without a path of its own.
func NewPassthroughSegment(scheme string, options map[string]any) Segment {
	if options == nil {
		options = map[string]any{}
	}
	return Segment{Scheme: scheme, Options: options}
}

// WithOptions returns a copy of the segment with the given options.
func (s Segment) WithOptions(options map[string]any) Segment {
	return Segment{Path: s.Path, Scheme: s.Scheme, Options: options}
}

// Equal reports whether two segments carry the same path, scheme and
// options. Nil and empty option maps compare as equal.
func (s Segment) Equal(o Segment) bool {
	if s.Scheme != o.Scheme {
		return false
	}
	if (s.Path == nil) != (o.Path == nil) {
		return false
	}
	if s.Path != nil && *s.Path != *o.Path {
		return false
	}
	return OptionsEqual(s.Options, o.Options)
}

// OptionsEqual reports whether two option maps are equal, descending
// into nested option maps. Nil and empty maps compare as equal.
func OptionsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if am, ok := av.(map[string]any); ok {
			bm, ok := bv.(map[string]any)
			if !ok || !OptionsEqual(am, bm) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

// mergeOptions returns a new map with the entries of a overlaid by the
// entries of b.
func mergeOptions(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

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

// Package chain models chained storage URIs. A chained URI such as
// "simplecache::zip://a.txt::s3://bucket/f.zip" describes a stack of
// filesystems where each segment is resolved through the one to its
// right. Segments are kept outermost first.
package chain

import (
	"fmt"

	"github.com/chronicleprotocol/urichain/sliceutil"
)

var (
	errEmptyChain     = fmt.Errorf("chain.Chain: chain must have at least one segment")
	errChainIndex     = fmt.Errorf("chain.Chain: segment index out of range")
	errNoConcretePath = fmt.Errorf("chain.Chain: no segment at or after the cursor carries a path")
)

// Chain is an immutable sequence of segments with a cursor pointing at
// the segment a path value currently addresses. The cursor is almost
// always zero; it moves only when a path object is rebased onto an
// inner layer of the same chain.
type Chain struct {
	segments []Segment
	index    int
}

// New returns a chain over the given segments with the cursor at index.
func New(segments []Segment, index int) (*Chain, error) {
	if len(segments) == 0 {
		return nil, errEmptyChain
	}
	if index < 0 || index >= len(segments) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", errChainIndex, index, len(segments))
	}
	return &Chain{segments: sliceutil.Copy(segments), index: index}, nil
}

// FromList is New with the cursor at the outermost segment.
func FromList(segments []Segment) (*Chain, error) {
	return New(segments, 0)
}

// Len returns the number of segments.
func (c *Chain) Len() int {
	return len(c.segments)
}

// Index returns the cursor position.
func (c *Chain) Index() int {
	return c.index
}

// Current returns the segment under the cursor.
func (c *Chain) Current() Segment {
	return c.segments[c.index]
}

// Segments returns a copy of the segments, outermost first.
func (c *Chain) Segments() []Segment {
	return sliceutil.Copy(c.segments)
}

// pathIndex returns the index of the first segment at or after the
// cursor that carries a path. Passthrough segments have none and defer
// to the layer they wrap.
func (c *Chain) pathIndex() (int, error) {
	for i := c.index; i < len(c.segments); i++ {
		if c.segments[i].Path != nil {
			return i, nil
		}
	}
	return 0, errNoConcretePath
}

// ActivePath returns the path value addressed by the cursor.
func (c *Chain) ActivePath() (string, error) {
	i, err := c.pathIndex()
	if err != nil {
		return "", err
	}
	return *c.segments[i].Path, nil
}

// ActiveScheme returns the scheme of the segment under the cursor.
func (c *Chain) ActiveScheme() string {
	return c.segments[c.index].Scheme
}

// ActiveOptions returns the options of the segment under the cursor.
func (c *Chain) ActiveOptions() map[string]any {
	return c.segments[c.index].Options
}

// Replacement modifies a chain copy produced by Replace.
type Replacement func(*replacement)

type replacement struct {
	path    *string
	scheme  *string
	options map[string]any
}

// WithPath replaces the path of the segment that currently carries the
// active path.
func WithPath(path string) Replacement {
	return func(r *replacement) { r.path = &path }
}

// WithScheme replaces the scheme of the segment under the cursor.
func WithScheme(scheme string) Replacement {
	return func(r *replacement) { r.scheme = &scheme }
}

// WithOptions replaces the options of the segment under the cursor.
func WithOptions(options map[string]any) Replacement {
	return func(r *replacement) { r.options = options }
}

// Replace returns a new chain with the given replacements applied. The
// receiver is left untouched.
func (c *Chain) Replace(rs ...Replacement) (*Chain, error) {
	var r replacement
	for _, apply := range rs {
		apply(&r)
	}
	segments := sliceutil.Copy(c.segments)
	if r.path != nil {
		i, err := c.pathIndex()
		if err != nil {
			return nil, err
		}
		segments[i] = NewSegment(*r.path, segments[i].Scheme, segments[i].Options)
	}
	if r.scheme != nil {
		seg := segments[c.index]
		segments[c.index] = Segment{Path: seg.Path, Scheme: *r.scheme, Options: seg.Options}
	}
	if r.options != nil {
		segments[c.index] = segments[c.index].WithOptions(r.options)
	}
	return &Chain{segments: segments, index: c.index}, nil
}

// ToList returns the segments with nested filesystem options unfolded
// into segments of their own. A segment that addresses its inner layer
// through "fo" and "target_protocol" options is split in two, with the
// inner layer inserted after it. Consecutive duplicate segments are
// collapsed.
func (c *Chain) ToList() []Segment {
	queue := sliceutil.Copy(c.segments)
	var segments []Segment
	for len(queue) > 0 {
		seg := queue[0]
		queue = queue[1:]
		fo, hasFo := seg.Options[targetPathKey].(string)
		proto, hasProto := seg.Options[targetProtocolKey].(string)
		if hasFo && hasProto {
			opts := mergeOptions(seg.Options, nil)
			targetOpts, _ := opts[targetOptionsKey].(map[string]any)
			delete(opts, targetPathKey)
			delete(opts, targetProtocolKey)
			delete(opts, targetOptionsKey)
			queue = append([]Segment{NewSegment(fo, proto, targetOpts)}, queue...)
			segments = append(segments, Segment{Path: seg.Path, Scheme: seg.Scheme, Options: opts})
			continue
		}
		if n := len(segments); n == 0 || !seg.Equal(segments[n-1]) {
			segments = append(segments, seg)
		}
	}
	return segments
}

// Nest folds the chain into a single segment whose options address the
// inner layers through "fo", "target_protocol" and "target_options".
// It is the inverse of ToList for chains produced by the parser.
func (c *Chain) Nest() Segment {
	n := len(c.segments)
	inkwargs := map[string]any{}
	prev := c.segments[n-1].Path
	for i := 0; i < n; i++ {
		seg := c.segments[n-1-i]
		path := seg.Path
		if path == nil {
			path = prev
		}
		prev = path
		if i == n-1 {
			inkwargs = mergeOptions(seg.Options, inkwargs)
			continue
		}
		nested := map[string]any{
			targetOptionsKey:  mergeOptions(seg.Options, inkwargs),
			targetProtocolKey: seg.Scheme,
		}
		if path != nil {
			nested[targetPathKey] = *path
		} else {
			nested[targetPathKey] = ""
		}
		inkwargs = nested
	}
	outer := c.segments[0]
	return Segment{Path: outer.Path, Scheme: outer.Scheme, Options: inkwargs}
}

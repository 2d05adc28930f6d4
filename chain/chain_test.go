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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seg := NewSegment("bucket/key", "s3", nil)

	t.Run("valid", func(t *testing.T) {
		c, err := New([]Segment{seg}, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 0, c.Index())
		assert.True(t, seg.Equal(c.Current()))
	})

	t.Run("empty segments", func(t *testing.T) {
		_, err := New(nil, 0)
		assert.ErrorIs(t, err, errEmptyChain)
	})

	t.Run("cursor out of range", func(t *testing.T) {
		_, err := New([]Segment{seg}, 1)
		assert.ErrorIs(t, err, errChainIndex)
		_, err = New([]Segment{seg}, -1)
		assert.ErrorIs(t, err, errChainIndex)
	})
}

func TestActivePath(t *testing.T) {
	t.Run("concrete segment", func(t *testing.T) {
		c, err := FromList([]Segment{NewSegment("a/b", "zip", nil)})
		require.NoError(t, err)
		path, err := c.ActivePath()
		require.NoError(t, err)
		assert.Equal(t, "a/b", path)
	})

	t.Run("passthrough defers to inner", func(t *testing.T) {
		c, err := FromList([]Segment{
			NewPassthroughSegment("simplecache", nil),
			NewSegment("bucket/key", "s3", nil),
		})
		require.NoError(t, err)
		path, err := c.ActivePath()
		require.NoError(t, err)
		assert.Equal(t, "bucket/key", path)
		assert.Equal(t, "simplecache", c.ActiveScheme())
	})

	t.Run("no concrete path", func(t *testing.T) {
		c, err := FromList([]Segment{NewPassthroughSegment("simplecache", nil)})
		require.NoError(t, err)
		_, err = c.ActivePath()
		assert.ErrorIs(t, err, errNoConcretePath)
	})
}

func TestReplace(t *testing.T) {
	c, err := FromList([]Segment{
		NewPassthroughSegment("simplecache", nil),
		NewSegment("bucket/key", "s3", map[string]any{"anon": true}),
	})
	require.NoError(t, err)

	t.Run("path lands on concrete segment", func(t *testing.T) {
		r, err := c.Replace(WithPath("bucket/other"))
		require.NoError(t, err)
		path, err := r.ActivePath()
		require.NoError(t, err)
		assert.Equal(t, "bucket/other", path)
		// receiver untouched
		path, err = c.ActivePath()
		require.NoError(t, err)
		assert.Equal(t, "bucket/key", path)
	})

	t.Run("scheme and options land on cursor", func(t *testing.T) {
		r, err := c.Replace(WithScheme("filecache"), WithOptions(map[string]any{"expiry": 60}))
		require.NoError(t, err)
		assert.Equal(t, "filecache", r.ActiveScheme())
		assert.Equal(t, map[string]any{"expiry": 60}, r.ActiveOptions())
		assert.Equal(t, "simplecache", c.ActiveScheme())
	})
}

func TestToListNest(t *testing.T) {
	t.Run("nest two segments", func(t *testing.T) {
		c, err := FromList([]Segment{
			NewSegment("file.csv", "zip", nil),
			NewSegment("bucket/archive.zip", "s3", map[string]any{"anon": true}),
		})
		require.NoError(t, err)

		nested := c.Nest()
		require.NotNil(t, nested.Path)
		assert.Equal(t, "file.csv", *nested.Path)
		assert.Equal(t, "zip", nested.Scheme)
		assert.Equal(t, map[string]any{
			"fo":              "bucket/archive.zip",
			"target_protocol": "s3",
			"target_options":  map[string]any{"anon": true},
		}, nested.Options)
	})

	t.Run("unnest is the inverse", func(t *testing.T) {
		original := []Segment{
			NewSegment("file.csv", "zip", nil),
			NewSegment("bucket/archive.zip", "s3", map[string]any{"anon": true}),
		}
		c, err := FromList(original)
		require.NoError(t, err)

		folded, err := FromList([]Segment{c.Nest()})
		require.NoError(t, err)
		unfolded := folded.ToList()
		require.Len(t, unfolded, len(original))
		for i := range original {
			assert.True(t, original[i].Equal(unfolded[i]), "segment %d", i)
		}
	})

	t.Run("nesting key collision is lossy", func(t *testing.T) {
		c, err := FromList([]Segment{
			NewSegment("file.csv", "zip", map[string]any{"fo": "user-supplied"}),
			NewSegment("bucket/archive.zip", "s3", nil),
		})
		require.NoError(t, err)

		// The nesting keys own the option namespace. A literal "fo"
		// option on the outer segment is overwritten by the inner
		// layer's path and does not survive a fold and unfold cycle.
		nested := c.Nest()
		assert.Equal(t, map[string]any{
			"fo":              "bucket/archive.zip",
			"target_protocol": "s3",
			"target_options":  map[string]any{},
		}, nested.Options)

		folded, err := FromList([]Segment{nested})
		require.NoError(t, err)
		unfolded := folded.ToList()
		require.Len(t, unfolded, 2)
		assert.True(t, NewSegment("file.csv", "zip", nil).Equal(unfolded[0]))
		assert.True(t, NewSegment("bucket/archive.zip", "s3", nil).Equal(unfolded[1]))
	})

	t.Run("three levels", func(t *testing.T) {
		original := []Segment{
			NewSegment("a/b/c.txt", "zip", nil),
			NewSegment("blah.zip", "tar", nil),
			NewSegment("/file.tar", "memory", nil),
		}
		c, err := FromList(original)
		require.NoError(t, err)

		folded, err := FromList([]Segment{c.Nest()})
		require.NoError(t, err)
		unfolded := folded.ToList()
		require.Len(t, unfolded, len(original))
		for i := range original {
			assert.True(t, original[i].Equal(unfolded[i]), "segment %d", i)
		}
	})

	t.Run("single segment nest merges nothing", func(t *testing.T) {
		c, err := FromList([]Segment{NewSegment("bucket/key", "s3", map[string]any{"anon": true})})
		require.NoError(t, err)
		nested := c.Nest()
		assert.Equal(t, map[string]any{"anon": true}, nested.Options)
	})

	t.Run("consecutive duplicates collapse", func(t *testing.T) {
		seg := NewSegment("bucket/key", "s3", nil)
		c, err := FromList([]Segment{seg, seg})
		require.NoError(t, err)
		assert.Len(t, c.ToList(), 1)
	})
}

func TestSegmentEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Segment
		want bool
	}{
		{
			name: "equal",
			a:    NewSegment("a", "s3", map[string]any{"x": 1}),
			b:    NewSegment("a", "s3", map[string]any{"x": 1}),
			want: true,
		},
		{
			name: "nil and empty options equal",
			a:    NewSegment("a", "s3", nil),
			b:    NewSegment("a", "s3", map[string]any{}),
			want: true,
		},
		{
			name: "different path",
			a:    NewSegment("a", "s3", nil),
			b:    NewSegment("b", "s3", nil),
			want: false,
		},
		{
			name: "passthrough differs from concrete",
			a:    NewPassthroughSegment("simplecache", nil),
			b:    NewSegment("", "simplecache", nil),
			want: false,
		},
		{
			name: "nested options compared",
			a:    NewSegment("a", "zip", map[string]any{"target_options": map[string]any{"anon": true}}),
			b:    NewSegment("a", "zip", map[string]any{"target_options": map[string]any{"anon": true}}),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

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

package driver

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()

	t.Run("builtin scheme", func(t *testing.T) {
		d := c.Lookup("s3")
		require.NotNil(t, d)
		assert.Equal(t, "s3", d.Scheme())
		assert.True(t, d.AnchorIsNetloc)
	})

	t.Run("alias resolves to same driver", func(t *testing.T) {
		assert.Same(t, c.Lookup("s3"), c.Lookup("s3a"))
	})

	t.Run("empty scheme is local", func(t *testing.T) {
		assert.Same(t, c.Lookup("file"), c.Lookup(""))
	})

	t.Run("unknown scheme synthesized", func(t *testing.T) {
		d := c.Lookup("foo")
		require.NotNil(t, d)
		assert.Equal(t, "foo", d.Scheme())
		assert.Equal(t, "bar/baz", d.StripScheme("foo://bar/baz"))
	})

	t.Run("lookups memoized", func(t *testing.T) {
		assert.Same(t, c.Lookup("foo"), c.Lookup("foo"))
	})
}

func TestCatalogWarnsOncePerScheme(t *testing.T) {
	var buf bytes.Buffer
	c := NewCatalog(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	c.Lookup("doesnotexist")
	c.Lookup("doesnotexist")
	c.Lookup("doesnotexist")

	assert.Equal(t, 1, strings.Count(buf.String(), "doesnotexist"))

	c.Lookup("alsomissing")
	assert.Equal(t, 1, strings.Count(buf.String(), "alsomissing"))
}

func TestCatalogWithDrivers(t *testing.T) {
	custom := newDriver(Driver{
		Schemes:    []string{"s3"},
		RootMarker: "/",
	})
	c := NewCatalog(WithDrivers(custom))
	assert.Same(t, custom, c.Lookup("s3"))
}

func TestCatalogSchemes(t *testing.T) {
	schemes := NewCatalog().Schemes()
	for _, s := range []string{"file", "memory", "s3", "http", "simplecache", "zip"} {
		assert.Contains(t, schemes, s)
	}
	assert.NotContains(t, schemes, "unregistered")
}

func TestStripAny(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "scheme form", uri: "s3://bucket/key", want: "bucket/key"},
		{name: "no scheme unchanged", uri: "/a/b", want: "/a/b"},
		{name: "single slash normalized", uri: "memory:/a/b", want: "/a/b"},
		{name: "unknown scheme abstract strip", uri: "foo://bar/baz/", want: "bar/baz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAny(tt.uri))
		})
	}
}

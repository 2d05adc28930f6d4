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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "double slash", uri: "s3://bucket/key", want: "s3"},
		{name: "single slash", uri: "memory:/a/b", want: "memory"},
		{name: "plus in scheme", uri: "webdav+https://host/a", want: "webdav+https"},
		{name: "no scheme", uri: "/a/b", want: ""},
		{name: "relative path", uri: "a/b", want: ""},
		{name: "data uri", uri: "data:text/plain,hello", want: "data"},
		{name: "windows drive is not a scheme", uri: "c:/a/b", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SchemeOf(tt.uri))
		})
	}
}

func TestNormalizeEmptyNetloc(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{name: "single slash rewritten", uri: "memory:/a/b", want: "memory:///a/b"},
		{name: "double slash untouched", uri: "memory://a/b", want: "memory://a/b"},
		{name: "triple slash untouched", uri: "memory:///a/b", want: "memory:///a/b"},
		{name: "no scheme untouched", uri: "/a/b", want: "/a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmptyNetloc(tt.uri))
		})
	}
}

func TestCompatibleScheme(t *testing.T) {
	tests := []struct {
		name   string
		scheme string
		uris   []string
		want   bool
	}{
		{name: "same scheme", scheme: "s3", uris: []string{"s3://bucket/a"}, want: true},
		{name: "no scheme", scheme: "s3", uris: []string{"a/b"}, want: true},
		{name: "different scheme", scheme: "s3", uris: []string{"gs://bucket/a"}, want: false},
		{name: "plus variant", scheme: "webdav", uris: []string{"webdav+http://host/a"}, want: true},
		{name: "mixed", scheme: "s3", uris: []string{"s3://a", "gs://b"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompatibleScheme(tt.scheme, tt.uris...))
		})
	}
}

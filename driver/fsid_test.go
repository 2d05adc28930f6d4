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
	"github.com/stretchr/testify/require"
)

func TestFSID(t *testing.T) {
	tests := []struct {
		name   string
		scheme string
		opts   map[string]any
		want   string
		wantOK bool
	}{
		{name: "local", scheme: "file", want: "local", wantOK: true},
		{name: "empty scheme is local", scheme: "", want: "local", wantOK: true},
		{name: "http", scheme: "https", want: "http", wantOK: true},
		{name: "gcs global endpoint", scheme: "gs", want: "gcs", wantOK: true},
		{name: "s3 default endpoint", scheme: "s3", want: "s3_aws", wantOK: true},
		{
			name:   "s3 aws endpoint variants collapse",
			scheme: "s3",
			opts:   map[string]any{"endpoint_url": "https://s3.eu-west-1.amazonaws.com"},
			want:   "s3_aws",
			wantOK: true,
		},
		{name: "memory has no identity", scheme: "memory"},
		{name: "zip has no identity", scheme: "zip"},
		{name: "unknown has no identity", scheme: "doesnotexist"},
		{name: "sftp needs host", scheme: "sftp"},
		{name: "abfs needs account", scheme: "abfs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FSID(tt.scheme, tt.opts)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFSIDStability(t *testing.T) {
	t.Run("sftp default port folds", func(t *testing.T) {
		implicit, ok := FSID("sftp", map[string]any{"host": "example.com"})
		require.True(t, ok)
		explicit, ok := FSID("sftp", map[string]any{"host": "example.com", "port": 22})
		require.True(t, ok)
		assert.Equal(t, implicit, explicit)

		other, ok := FSID("sftp", map[string]any{"host": "example.com", "port": 23})
		require.True(t, ok)
		assert.NotEqual(t, implicit, other)
	})

	t.Run("s3 custom endpoints distinguished", func(t *testing.T) {
		a, ok := FSID("s3", map[string]any{"endpoint_url": "http://localhost:9000"})
		require.True(t, ok)
		b, ok := FSID("s3", map[string]any{"endpoint_url": "http://localhost:9001"})
		require.True(t, ok)
		assert.NotEqual(t, a, b)
		assert.NotEqual(t, "s3_aws", a)

		again, ok := FSID("s3", map[string]any{"endpoint_url": "http://localhost:9000"})
		require.True(t, ok)
		assert.Equal(t, a, again)
	})

	t.Run("credentials do not change identity", func(t *testing.T) {
		a, ok := FSID("sftp", map[string]any{"host": "example.com", "username": "alice"})
		require.True(t, ok)
		b, ok := FSID("sftp", map[string]any{"host": "example.com", "username": "bob"})
		require.True(t, ok)
		assert.Equal(t, a, b)
	})
}

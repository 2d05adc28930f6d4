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
	"regexp"
	"strings"
)

// schemeRE matches fsspec style scheme prefixes. Single slash usage is
// matched too for compatibility.
var schemeRE = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9+]+):(//?)(.*)$`)

// dataURIRE matches data URIs, which carry no slashes after the scheme.
var dataURIRE = regexp.MustCompile(`^data:[^,]*,`)

// SchemeOf returns the scheme of the given URI, or "" if the URI carries
// no scheme prefix.
func SchemeOf(uri string) string {
	if m := schemeRE.FindStringSubmatch(uri); m != nil {
		return m[1]
	}
	if dataURIRE.MatchString(uri) {
		return "data"
	}
	return ""
}

// NormalizeEmptyNetloc rewrites the single slash form "scheme:/path" to the
// canonical triple slash form "scheme:///path". Other inputs are returned
// unchanged. The rewrite removes the ambiguity between an empty netloc and
// a malformed URI before any further processing.
func NormalizeEmptyNetloc(uri string) string {
	if m := schemeRE.FindStringSubmatch(uri); m != nil && m[2] == "/" {
		return m[1] + ":///" + m[3]
	}
	return uri
}

// CompatibleScheme reports whether the schemes of the given URIs are
// compatible with scheme. Schemes are considered equivalent if they match up
// to the first "+"; only identical or empty schemes can combine.
func CompatibleScheme(scheme string, uris ...string) bool {
	for _, uri := range uris {
		other := SchemeOf(uri)
		other, _, _ = strings.Cut(other, "+")
		if other != "" && other != scheme {
			return false
		}
	}
	return true
}

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
	netURL "net/url"
	"regexp"
	"strconv"
	"strings"
)

// uriParts is the decomposition of a URI into the components that driver
// records consume when stripping schemes and extracting storage options.
type uriParts struct {
	Scheme   string
	Username string
	Password string
	Host     string
	Port     int
	Path     string
	Query    string
	Fragment string
}

var uriSchemeRE = regexp.MustCompile(`^[a-zA-Z0-9+]+://`)

// inferURI decomposes a URI into its parts. Inputs without a scheme prefix
// are treated as plain file paths. Malformed URIs degrade to a parts value
// carrying the whole input as path.
func inferURI(uri string) uriParts {
	if !uriSchemeRE.MatchString(uri) {
		return uriParts{Scheme: "file", Path: uri}
	}
	u, err := netURL.Parse(uri)
	if err != nil {
		return uriParts{Path: uri}
	}
	p := uriParts{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
	}
	if u.User != nil {
		p.Username = u.User.Username()
		p.Password, _ = u.User.Password()
	}
	if port := u.Port(); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			p.Port = n
		}
	}
	return p
}

// hostOptions returns the host, port and credential components of a URI as
// a storage option mapping, the way sftp-like schemes encode them.
func hostOptions(uri string) map[string]any {
	p := inferURI(uri)
	out := map[string]any{}
	if p.Host != "" {
		out["host"] = p.Host
	}
	if p.Port != 0 {
		out["port"] = p.Port
	}
	if p.Username != "" {
		out["username"] = p.Username
	}
	if p.Password != "" {
		out["password"] = p.Password
	}
	return out
}

// queryValues parses a raw URI query string into a flat mapping, keeping the
// first value of repeated keys.
func queryValues(rawQuery string) map[string]string {
	out := map[string]string{}
	if rawQuery == "" {
		return out
	}
	vs, err := netURL.ParseQuery(rawQuery)
	if err != nil {
		return out
	}
	for k, v := range vs {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// splitQuery splits a path-with-query string on the query delimiter.
func splitQuery(path string) (string, string) {
	p, q, _ := strings.Cut(path, "?")
	return p, q
}

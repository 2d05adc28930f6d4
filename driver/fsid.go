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
	"encoding/hex"
	"fmt"
	netURL "net/url"
	"strings"

	"github.com/defiweb/go-anymapper"
	"golang.org/x/crypto/sha3"
)

// FSID computes the identity fingerprint for a scheme from its storage
// options. The fingerprint is derived only from options that determine which
// physical backend endpoint is addressed (host, account, endpoint URL,
// region), never from authentication options. Two paths address the same
// filesystem iff their schemes match and their fingerprints match.
//
// The second return value is false for schemes without a fingerprint rule
// (non-durable stores, wrappers, archives, unknown schemes); callers then
// fall back to comparing the full storage option mappings.
func FSID(scheme string, opts map[string]any) (string, bool) {
	switch scheme {
	case "", "file", "local":
		return "local", true
	case "http", "https":
		return "http", true
	case "gs", "gcs":
		// single global endpoint
		return "gcs", true
	case "box":
		return "box", true
	case "dropbox":
		return "dropbox", true

	case "sftp", "ssh":
		return hostPortFSID("sftp", opts, 22)
	case "smb":
		return hostPortFSID("smb", opts, 445)
	case "ftp":
		return hostPortFSID("ftp", opts, 21)
	case "webhdfs", "webHDFS":
		return hostPortFSID("webhdfs", opts, 50070)

	case "s3", "s3a":
		endpoint := optString(opts, "endpoint_url", "https://s3.amazonaws.com")
		if u, err := netURL.Parse(endpoint); err == nil && strings.HasSuffix(u.Host, ".amazonaws.com") {
			return "s3_aws", true
		}
		return "s3_" + tokenize(endpoint), true
	case "abfs", "az", "abfss":
		if account := optString(opts, "account_name", ""); account != "" {
			return "abfs_" + tokenize(account), true
		}
		return "", false
	case "adl":
		tenant := optString(opts, "tenant_id", "")
		store := optString(opts, "store_name", "")
		if tenant != "" && store != "" {
			return "adl_" + tokenize(tenant, store), true
		}
		return "", false
	case "oci", "ocilake":
		if region := optString(opts, "region", ""); region != "" {
			return "oci_" + tokenize(region), true
		}
		return "", false
	case "oss":
		if endpoint := optString(opts, "endpoint", ""); endpoint != "" {
			return "oss_" + tokenize(endpoint), true
		}
		return "", false

	case "git":
		path := optString(opts, "path", "")
		ref := optString(opts, "ref", "")
		if path != "" {
			return "git_" + tokenize(path, ref), true
		}
		return "", false
	case "github":
		org := optString(opts, "org", "")
		repo := optString(opts, "repo", "")
		sha := optString(opts, "sha", "")
		if org != "" && repo != "" {
			return "github_" + tokenize(org, repo, sha), true
		}
		return "", false

	case "hf":
		return "hf_" + tokenize(optString(opts, "endpoint", "huggingface.co")), true
	case "lakefs":
		if host := optString(opts, "host", ""); host != "" {
			return "lakefs_" + tokenize(host), true
		}
		return "", false
	case "webdav", "dav", "webdav+http", "webdav+https":
		if base := optString(opts, "base_url", ""); base != "" {
			return "webdav_" + tokenize(base), true
		}
		return "", false

	default:
		// memory, data, wrappers, archives and unknown schemes have no
		// durable endpoint identity.
		return "", false
	}
}

// hostPortOptions is the subset of storage options identifying a host based
// backend endpoint.
type hostPortOptions struct {
	Host string `map:"host"`
	Port int    `map:"port"`
}

func hostPortFSID(prefix string, opts map[string]any, defaultPort int) (string, bool) {
	var hp hostPortOptions
	if err := decodeOptions(opts, &hp); err != nil || hp.Host == "" {
		return "", false
	}
	if hp.Port == 0 {
		hp.Port = defaultPort
	}
	return prefix + "_" + tokenize(hp.Host, hp.Port), true
}

// decodeOptions maps a storage option mapping onto a typed option struct.
func decodeOptions(opts map[string]any, dst any) error {
	return anymapper.Map(opts, dst)
}

func optString(opts map[string]any, key, def string) string {
	if v, ok := opts[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// tokenize derives a stable short token from the given values.
func tokenize(vals ...any) string {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "%v", vals)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

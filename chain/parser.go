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
	"log/slog"
	"strings"
	"sync"

	"github.com/chronicleprotocol/urichain/driver"
	"github.com/chronicleprotocol/urichain/sliceutil"
)

// Link separates the segments of a chained URI.
const Link = "::"

// ParserOption modifies a parser created by NewParser.
type ParserOption func(*Parser)

// WithCatalog sets the driver catalog used to resolve schemes.
func WithCatalog(catalog *driver.Catalog) ParserOption {
	return func(p *Parser) {
		p.catalog = catalog
	}
}

// WithLogger sets the logger used for recoverable parse anomalies.
func WithLogger(log *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser splits chained URIs into segments and joins segments back
// into chained URIs. The zero value is not usable, use NewParser.
type Parser struct {
	link    string
	catalog *driver.Catalog
	log     *slog.Logger

	knownOnce sync.Once
	known     map[string]struct{}
}

// NewParser returns a parser backed by the default driver catalog
// unless WithCatalog overrides it.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		link:    Link,
		catalog: driver.Default,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the driver catalog the parser resolves schemes with.
func (p *Parser) Catalog() *driver.Catalog {
	return p.catalog
}

// DefaultParser is the parser used by the package level functions.
var DefaultParser = NewParser()

// Unchain splits the chained URI with the default parser.
func Unchain(urlpath string, opts UnchainOptions) []Segment {
	return DefaultParser.Unchain(urlpath, opts)
}

// UnchainOptions carries the out-of-band inputs of Unchain.
type UnchainOptions struct {
	// Scheme, when set, overrides the scheme of the outermost segment
	// regardless of what the URI itself declares.
	Scheme string

	// StorageOptions maps a scheme to options merged into the first
	// segment of that scheme, counted from the innermost end. Options
	// given here win over options extracted from the URI.
	StorageOptions map[string]map[string]any
}

// isKnownScheme reports whether the catalog has a driver for the
// scheme. The scheme set is materialized on first use, so drivers
// registered afterwards are not picked up by bare-scheme detection.
func (p *Parser) isKnownScheme(scheme string) bool {
	p.knownOnce.Do(func() {
		p.known = p.catalog.Schemes()
	})
	_, ok := p.known[scheme]
	return ok
}

// Unchain splits a chained URI on the link token and resolves every
// bit into a segment, outermost first. A bit that is just the name of
// a known scheme, such as "simplecache", is treated as "scheme://".
// Bits are resolved right to left so that a passthrough segment can
// adopt the path of the layer it wraps.
func (p *Parser) Unchain(urlpath string, opts UnchainOptions) []Segment {
	bits := strings.Split(urlpath, p.link)
	for i, bit := range bits {
		if i == 0 && opts.Scheme != "" {
			continue
		}
		if strings.Contains(bit, "://") || strings.Contains(bit, "/") {
			continue
		}
		if p.isKnownScheme(bit) {
			bits[i] = bit + "://"
		}
	}

	external := make(map[string]map[string]any, len(opts.StorageOptions))
	for scheme, kw := range opts.StorageOptions {
		external[scheme] = kw
	}

	segments := make([]Segment, 0, len(bits))
	var previous *string
	for i := len(bits) - 1; i >= 0; i-- {
		bit := bits[i]
		scheme := driver.SchemeOf(bit)
		if i == 0 && opts.Scheme != "" {
			scheme = opts.Scheme
		}
		d := p.catalog.Lookup(scheme)

		kw := mergeOptions(d.ExtractOptions(bit), external[scheme])
		delete(external, scheme)
		if _, ok := kw[targetProtocolKey]; ok {
			if _, ok := kw[targetOptionsKey]; !ok {
				kw[targetOptionsKey] = map[string]any{}
			}
		}

		stripped := d.StripScheme(driver.NormalizeEmptyNetloc(bit))
		if stripped == "" {
			stripped = d.RootMarker
		}
		if d.Passthrough {
			segments = append(segments, NewPassthroughSegment(scheme, kw))
			if previous != nil {
				stripped = *previous
			}
		} else {
			segments = append(segments, NewSegment(stripped, scheme, kw))
		}
		previous = &stripped
	}
	return sliceutil.Reverse(segments)
}

// Chain joins segments back into a chained URI and collects their
// options per scheme. It is the inverse of Unchain up to URI
// normalization. Segments with neither a path nor a scheme are logged
// and skipped.
func (p *Parser) Chain(segments []Segment) (string, map[string]map[string]any) {
	urlpaths := make([]string, 0, len(segments))
	options := map[string]map[string]any{}
	for _, seg := range segments {
		switch {
		case seg.Scheme != "" && seg.Path != nil:
			// Schemes like http and data keep their own scheme prefix
			// in the stripped path; such paths render as they are.
			if strings.HasPrefix(*seg.Path, seg.Scheme+":") {
				urlpaths = append(urlpaths, *seg.Path)
			} else {
				urlpaths = append(urlpaths, seg.Scheme+"://"+*seg.Path)
			}
		case seg.Scheme != "":
			urlpaths = append(urlpaths, seg.Scheme)
		case seg.Path != nil:
			urlpaths = append(urlpaths, *seg.Path)
		default:
			p.log.Warn("skipping chain segment with neither path nor scheme")
			continue
		}
		if len(seg.Options) > 0 {
			options[seg.Scheme] = seg.Options
		}
	}
	return strings.Join(urlpaths, p.link), options
}

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
	"log/slog"
	"sync"
)

type CatalogOption func(*Catalog)

// WithLogger sets the logger used for unknown scheme warnings.
func WithLogger(log *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		c.log = log
	}
}

// WithDrivers registers additional drivers. They take precedence over the
// builtin table, so a live backend implementation can replace the static
// record for its scheme.
func WithDrivers(drivers ...*Driver) CatalogOption {
	return func(c *Catalog) {
		for _, d := range drivers {
			c.register(d)
		}
	}
}

// NewCatalog creates a new driver catalog populated with the builtin quirk
// table.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		static: map[string]*Driver{},
		log:    slog.Default(),
	}
	registerBuiltins(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Catalog resolves URI schemes to drivers.
//
// Lookups are total: schemes without a registered or builtin driver resolve
// to a synthesized generic driver, with a warning emitted once per scheme.
// Resolved drivers are memoized for the catalog lifetime. Concurrent lookups
// of the same uncached scheme may race to compute the driver; computation is
// pure and idempotent, so duplicate work is harmless and no locking is used
// beyond the atomicity of the cache insert.
type Catalog struct {
	static map[string]*Driver // built before first lookup, read-only after
	cache  sync.Map           // scheme -> *Driver
	warned sync.Map           // scheme -> struct{}
	log    *slog.Logger
}

// register adds a driver for all its scheme aliases. The last registration
// for a scheme wins.
func (c *Catalog) register(d *Driver) {
	for _, scheme := range d.Schemes {
		c.static[scheme] = d
	}
}

// Lookup returns the driver for scheme. It never fails: unknown schemes
// resolve to a generic driver.
func (c *Catalog) Lookup(scheme string) *Driver {
	if d, ok := c.cache.Load(scheme); ok {
		return d.(*Driver)
	}
	d, ok := c.static[scheme]
	if !ok {
		d = genericDriver(scheme)
		if _, warned := c.warned.LoadOrStore(scheme, struct{}{}); !warned && scheme != "" {
			c.log.Warn("urichain: no driver registered for scheme, using generic driver",
				"scheme", scheme)
		}
	}
	actual, _ := c.cache.LoadOrStore(scheme, d)
	return actual.(*Driver)
}

// Schemes returns the set of schemes with a registered or builtin driver.
func (c *Catalog) Schemes() map[string]struct{} {
	out := make(map[string]struct{}, len(c.static))
	for scheme := range c.static {
		out[scheme] = struct{}{}
	}
	return out
}

// Default is the catalog used by the package level helpers and by the chain
// parser unless configured otherwise.
var Default = NewCatalog()

// Lookup returns the driver for scheme from the default catalog.
func Lookup(scheme string) *Driver {
	return Default.Lookup(scheme)
}

// StripAny strips the scheme prefix of a URI using the driver of its own
// detected scheme. Inputs without a scheme are returned unchanged.
func StripAny(uri string) string {
	scheme := SchemeOf(uri)
	if scheme == "" {
		return uri
	}
	return Lookup(scheme).StripScheme(NormalizeEmptyNetloc(uri))
}

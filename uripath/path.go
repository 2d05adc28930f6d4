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

// Package uripath provides a lexical path value over storage URIs. A
// Path wraps a storage chain and exposes pathlib style operations:
// joining, parent and name access, relative decomposition and lexical
// resolution. All operations are pure string manipulation, no backend
// is ever contacted.
package uripath

import (
	"fmt"
	netURL "net/url"
	"strings"

	"github.com/chronicleprotocol/urichain/chain"
	"github.com/chronicleprotocol/urichain/driver"
	"github.com/chronicleprotocol/urichain/errutil"
	"github.com/chronicleprotocol/urichain/flavour"
	"github.com/chronicleprotocol/urichain/sliceutil"
)

var (
	// ErrIncompatibleFilesystems is returned when two paths that live on
	// different filesystems are combined.
	ErrIncompatibleFilesystems = fmt.Errorf("uripath.Path: paths are on incompatible filesystems")

	// ErrNotRelative is returned by RelativeTo when the receiver does not
	// lexically descend from the other path.
	ErrNotRelative = fmt.Errorf("uripath.Path: path is not relative to the other path")
)

// Path is an immutable lexical path over a storage chain. Operations
// return new values and never modify the receiver.
type Path struct {
	chain  *chain.Chain
	parser *chain.Parser
	flav   *flavour.Flavour

	active string
	drive  string
	root   string
	parts  []string
}

// PathOption modifies how New parses a URI.
type PathOption func(*pathConfig)

type pathConfig struct {
	scheme  string
	storage map[string]map[string]any
	parser  *chain.Parser
}

// WithScheme overrides the scheme of the outermost chain segment.
func WithScheme(scheme string) PathOption {
	return func(c *pathConfig) {
		c.scheme = scheme
	}
}

// WithStorageOptions supplies per-scheme options merged into the
// matching chain segments. They win over options encoded in the URI.
func WithStorageOptions(opts map[string]map[string]any) PathOption {
	return func(c *pathConfig) {
		c.storage = opts
	}
}

// WithParser sets the chain parser, and with it the driver catalog,
// used to parse and render the path.
func WithParser(p *chain.Parser) PathOption {
	return func(c *pathConfig) {
		c.parser = p
	}
}

// New parses a URI, chained or plain, into a path value.
func New(urlpath string, opts ...PathOption) (*Path, error) {
	c := pathConfig{parser: chain.DefaultParser}
	for _, opt := range opts {
		opt(&c)
	}
	segments := c.parser.Unchain(urlpath, chain.UnchainOptions{
		Scheme:         c.scheme,
		StorageOptions: c.storage,
	})
	ch, err := chain.FromList(segments)
	if err != nil {
		return nil, err
	}
	return fromChain(ch, c.parser)
}

// FromChain builds a path value over an existing chain.
func FromChain(ch *chain.Chain) (*Path, error) {
	return fromChain(ch, chain.DefaultParser)
}

// FromURL parses an already structured URL into a path value. This is
// the single conversion point for structured input; everything past it
// operates on the rendered string form.
func FromURL(u *netURL.URL, opts ...PathOption) (*Path, error) {
	return New(u.String(), opts...)
}

func fromChain(ch *chain.Chain, parser *chain.Parser) (*Path, error) {
	active, err := ch.ActivePath()
	if err != nil {
		return nil, err
	}
	// The flavour follows the segment that carries the active path, so
	// that a passthrough wrapper borrows the semantics of the layer it
	// wraps.
	fscheme := ch.ActiveScheme()
	for _, seg := range ch.Segments()[ch.Index():] {
		if seg.Path != nil {
			fscheme = seg.Scheme
			break
		}
	}
	f := flavour.New(parser.Catalog().Lookup(fscheme))
	p := &Path{chain: ch, parser: parser, flav: f, active: active}
	p.drive, p.root, p.parts = deriveParts(f, active)
	return p, nil
}

// deriveParts splits a stripped path into drive, root and parts. The
// anchor, drive plus root, is the first part when it is not empty.
// Empty and "." components are dropped unless the scheme gives empty
// parts meaning, and a single trailing empty component is dropped
// unless the scheme gives trailing separators meaning. An opaque path
// forms a single part with no anchor.
func deriveParts(f *flavour.Flavour, path string) (drive, root string, parts []string) {
	d := f.Driver()
	if d.OpaquePath {
		if path == "" {
			return "", "", nil
		}
		return "", "", []string{path}
	}
	drive, root, rel := f.SplitRoot(path)
	var tail []string
	if rel != "" || strings.HasSuffix(path, f.Sep()) {
		for _, part := range strings.Split(rel, f.Sep()) {
			if !d.EmptyPartsSignificant && (part == "" || part == ".") {
				continue
			}
			tail = append(tail, part)
		}
	}
	if n := len(tail); n > 0 && tail[n-1] == "" && !d.TrailingSlashSignificant {
		tail = tail[:n-1]
	}
	if anchor := drive + root; anchor != "" {
		parts = append(parts, anchor)
	}
	return drive, root, append(parts, tail...)
}

// withActivePath returns a copy of the path with the active path
// replaced and all derived state recomputed.
func (p *Path) withActivePath(active string) *Path {
	ch := errutil.Must(p.chain.Replace(chain.WithPath(active)))
	return errutil.Must(fromChain(ch, p.parser))
}

// Chain returns the underlying storage chain.
func (p *Path) Chain() *chain.Chain {
	return p.chain
}

// Scheme returns the scheme of the segment under the chain cursor.
func (p *Path) Scheme() string {
	return p.chain.ActiveScheme()
}

// Options returns the options of the segment under the chain cursor.
func (p *Path) Options() map[string]any {
	return p.chain.ActiveOptions()
}

// ActivePath returns the stripped path the value operates on.
func (p *Path) ActivePath() string {
	return p.active
}

// Drive returns the drive portion of the anchor, such as a bucket name
// or a scheme qualified host.
func (p *Path) Drive() string {
	return p.drive
}

// Root returns the root marker portion of the anchor.
func (p *Path) Root() string {
	return p.root
}

// Anchor returns the drive and root concatenated.
func (p *Path) Anchor() string {
	return p.drive + p.root
}

// Parts returns the path components, with the anchor first when it is
// not empty.
func (p *Path) Parts() []string {
	return sliceutil.Copy(p.parts)
}

// tail returns the parts without the anchor.
func (p *Path) tail() []string {
	if p.Anchor() != "" && len(p.parts) > 0 {
		return p.parts[1:]
	}
	return p.parts
}

// Name returns the final non-empty path component, or "" for a path
// that is all anchor.
func (p *Path) Name() string {
	tail := p.tail()
	for i := len(tail) - 1; i >= 0; i-- {
		if tail[i] != "" {
			return tail[i]
		}
	}
	return ""
}

// Join appends components to the path. Join never navigates above the
// anchor; it is purely concatenative.
func (p *Path) Join(parts ...string) *Path {
	if len(parts) == 0 {
		return p
	}
	return p.withActivePath(p.flav.Join(p.active, parts...))
}

// Parent returns the path with the final component removed. The parent
// of a path that is all anchor is the path itself.
func (p *Path) Parent() *Path {
	tail := p.tail()
	if len(tail) == 0 {
		return p
	}
	return p.withActivePath(p.pathFromTail(tail[:len(tail)-1]))
}

// pathFromTail rebuilds an active path from the anchor and a tail.
func (p *Path) pathFromTail(tail []string) string {
	rel := strings.Join(tail, p.flav.Sep())
	if p.drive == "" && p.root == "" {
		return rel
	}
	return p.drive + p.root + rel
}

// IsAbsolute reports whether the path is anchored.
func (p *Path) IsAbsolute() bool {
	return p.flav.IsAbsolute(p.active)
}

// Resolve collapses "." and ".." components lexically. A ".." at the
// anchor is dropped. For schemes where trailing separators carry
// meaning, resolving a path that ends in "." or ".." keeps a trailing
// separator.
func (p *Path) Resolve() *Path {
	tail := p.tail()
	var resolved []string
	for _, part := range tail {
		switch part {
		case ".":
		case "..":
			if len(resolved) > 0 {
				resolved = resolved[:len(resolved)-1]
			}
		default:
			resolved = append(resolved, part)
		}
	}
	if n := len(tail); n > 0 && (tail[n-1] == "." || tail[n-1] == "..") &&
		p.flav.Driver().TrailingSlashSignificant {

		resolved = append(resolved, "")
	}
	return p.withActivePath(p.pathFromTail(resolved))
}

// RelativeTo decomposes the path against another path on the same
// filesystem. The other path's parts must be an exact lexical prefix
// of the receiver's; no ".." components are ever produced.
func (p *Path) RelativeTo(other *Path) (*Path, error) {
	if !p.sameFilesystem(other) {
		return nil, fmt.Errorf("%w: %q and %q", ErrIncompatibleFilesystems, p, other)
	}
	op, pp := other.parts, p.parts
	if len(op) > len(pp) {
		return nil, fmt.Errorf("%w: %q is not a prefix of %q", ErrNotRelative, other, p)
	}
	for i := range op {
		if p.flav.NormCase(op[i]) != p.flav.NormCase(pp[i]) {
			return nil, fmt.Errorf("%w: %q is not a prefix of %q", ErrNotRelative, other, p)
		}
	}
	tail := sliceutil.Copy(pp[len(op):])
	rel := strings.Join(tail, p.flav.Sep())
	ch := errutil.Must(p.chain.Replace(chain.WithPath(rel)))
	return &Path{
		chain:  ch,
		parser: p.parser,
		flav:   p.flav,
		active: rel,
		parts:  tail,
	}, nil
}

// IsRelativeTo reports whether RelativeTo would succeed.
func (p *Path) IsRelativeTo(other *Path) bool {
	_, err := p.RelativeTo(other)
	return err == nil
}

// FSID returns the filesystem identity fingerprint of the segment
// under the chain cursor, when one can be derived from its scheme and
// options alone.
func (p *Path) FSID() (string, bool) {
	return driver.FSID(p.Scheme(), p.Options())
}

// canonicalScheme resolves the cursor scheme to its canonical driver
// name, folding aliases like s3a into s3 and "" into file. A "+"
// qualified scheme is reduced to its base first.
func (p *Path) canonicalScheme() string {
	s, _, _ := strings.Cut(p.Scheme(), "+")
	return p.parser.Catalog().Lookup(s).Scheme()
}

// sameFilesystem reports whether two paths address the same
// filesystem: compatible schemes and either matching identity
// fingerprints or, when no fingerprint exists, equal options.
func (p *Path) sameFilesystem(o *Path) bool {
	if p.canonicalScheme() != o.canonicalScheme() {
		return false
	}
	pid, pok := p.FSID()
	oid, ook := o.FSID()
	if pok && ook {
		return pid == oid
	}
	return chain.OptionsEqual(p.Options(), o.Options())
}

// Equal reports whether two paths have the same parts and address the
// same filesystem. Trailing separators that the scheme gives no
// meaning are already normalized away at parse time.
func (p *Path) Equal(o *Path) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.parts) != len(o.parts) {
		return false
	}
	for i := range p.parts {
		if p.flav.NormCase(p.parts[i]) != p.flav.NormCase(o.parts[i]) {
			return false
		}
	}
	return p.sameFilesystem(o)
}

// String renders the path back into a URI, chained when the underlying
// chain has more than one segment.
func (p *Path) String() string {
	urlpath, _ := p.parser.Chain(p.chain.Segments())
	return urlpath
}

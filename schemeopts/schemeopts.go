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

// Package schemeopts loads per-scheme storage options from HCL
// configuration files. Options declared here are fed to the chain
// parser as external storage options:
//
//	scheme "s3" {
//	  endpoint_url = "http://localhost:9000"
//	  anon         = true
//	}
package schemeopts

import (
	"fmt"
	"math/big"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/chronicleprotocol/urichain/errutil"
)

var (
	errReadFile        = fmt.Errorf("schemeopts: unable to read configuration file")
	errUnsupportedType = fmt.Errorf("schemeopts: unsupported attribute type")
)

var configSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "scheme", LabelNames: []string{"name"}},
	},
}

// Load reads per-scheme storage options from an HCL file.
func Load(path string) (map[string]map[string]any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errReadFile, err)
	}
	return Decode(src, path)
}

// Decode parses HCL source into per-scheme storage options. Attribute
// values must be constant; expressions that reference variables or
// functions are rejected. Repeated blocks for the same scheme merge,
// with later attributes winning. Errors from all blocks are collected
// and reported together.
func Decode(src []byte, filename string) (map[string]map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	content, diags := file.Body.Content(configSchema)
	if diags.HasErrors() {
		return nil, diags
	}
	var errs error
	out := map[string]map[string]any{}
	for _, block := range content.Blocks {
		attrs, diags := block.Body.JustAttributes()
		if diags.HasErrors() {
			errs = errutil.Append(errs, diags)
			continue
		}
		scheme := block.Labels[0]
		opts := out[scheme]
		if opts == nil {
			opts = map[string]any{}
			out[scheme] = opts
		}
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				errs = errutil.Append(errs, diags)
				continue
			}
			native, err := ctyToNative(val)
			if err != nil {
				errs = errutil.Append(errs, fmt.Errorf("%s: %s: %w", filename, name, err))
				continue
			}
			opts[name] = native
		}
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// ctyToNative converts a cty value into plain Go values: strings,
// bools, int64 or float64 numbers, []any and map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Bool:
		return v.True(), nil
	case t == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			kv, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			out[kv.AsString()] = native
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", errUnsupportedType, t.FriendlyName())
}

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

// Package errutil provides the error aggregation helpers used across the
// module.
package errutil

import (
	"strings"
)

// Append accumulates errors into a MultiError. Nil errors are skipped and
// nested MultiError values are flattened. It returns nil when nothing was
// accumulated and the single error when only one was.
func Append(err error, errs ...error) error {
	var mErr MultiError
	if m, ok := err.(MultiError); ok {
		mErr = m
	} else if err != nil {
		mErr = MultiError{err}
	}
	for _, e := range errs {
		switch m := e.(type) {
		case nil:
		case MultiError:
			mErr = append(mErr, m...)
		default:
			mErr = append(mErr, e)
		}
	}
	switch len(mErr) {
	case 0:
		return nil
	case 1:
		return mErr[0]
	default:
		return mErr
	}
}

// MultiError is a collection of errors.
type MultiError []error

// Error implements the error interface.
func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("following errors occurred: [")
	for i, err := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(err.Error())
	}
	b.WriteString("]")
	return b.String()
}

// Unwrap unwraps all errors.
func (m MultiError) Unwrap() []error {
	return m
}

// Must returns the first argument and panics when the error is not nil. It
// is reserved for operations that cannot fail on already validated input.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

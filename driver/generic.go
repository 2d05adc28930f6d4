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

// genericDriver synthesizes a driver for an unknown scheme. It uses the
// abstract stripping and parent rules with an empty root marker and no
// traits set.
func genericDriver(scheme string) *Driver {
	schemes := []string{scheme}
	if scheme == "" {
		schemes = nil
	}
	return newDriver(Driver{
		Schemes:    schemes,
		RootMarker: "",
	})
}

// Copyright 2024 The ondemand Authors
// This file is part of the ondemand library.
//
// The ondemand library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ondemand library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ondemand library. If not, see <http://www.gnu.org/licenses/>.

package ondemand

import "github.com/ethereum/go-ethereum/p2p/enode"

// PeerID identifies a remote peer. It is the same stable identity type used
// to key peers throughout the p2p stack.
type PeerID = enode.ID

// Role is a bitset of the capabilities a connecting peer advertises.
type Role uint32

const (
	RoleLight Role = 1 << iota
	RoleFull
	RoleCollator
	RoleValidator
)

// servingRoles is the set of roles that hold enough local state to answer
// on-demand requests. Light peers carry none, so they are never admitted.
const servingRoles = RoleFull | RoleCollator | RoleValidator

// CanServe reports whether a peer advertising this role set may be admitted
// into the idle pool.
func (r Role) CanServe() bool {
	return r&servingRoles != 0
}

func (r Role) String() string {
	if r == 0 {
		return "none"
	}
	var s string
	add := func(flag Role, name string) {
		if r&flag != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(RoleLight, "light")
	add(RoleFull, "full")
	add(RoleCollator, "collator")
	add(RoleValidator, "validator")
	return s
}

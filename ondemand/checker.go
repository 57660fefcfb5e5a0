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

// FetchChecker verifies the proofs returned by remote peers against a
// locally known block root. It is a pure predicate: many concurrent
// verifications are safe, and it never mutates dispatcher state directly.
// Implementations live outside this package (cryptographic proof checking
// is explicitly out of scope for the dispatcher itself).
type FetchChecker interface {
	// CheckReadProof validates proof as the Merkle path proving the value
	// of req.Key at req.Block. found is false if the proof establishes
	// the key is absent. An error means the proof failed to validate.
	CheckReadProof(req ReadPayload, proof [][]byte) (value []byte, found bool, err error)

	// CheckExecutionProof validates proof as the execution trace proving
	// that evaluating req against req.Block yields value. An error means
	// the proof failed to validate.
	CheckExecutionProof(req CallPayload, value []byte, proof [][]byte) (CallResult, error)
}

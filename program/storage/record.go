// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

// Record is a typed, RLP encoded record stored at a derived address.
type Record[V any] struct {
	state *state.State
	addr  richie.Address
}

func NewRecord[V any](st *state.State, addr richie.Address) *Record[V] {
	return &Record[V]{state: st, addr: addr}
}

// Address returns the record address.
func (r *Record[V]) Address() richie.Address {
	return r.addr
}

// Get decodes the record. It returns nil if the record does not exist.
func (r *Record[V]) Get() (*V, error) {
	raw, err := r.state.Get(r.addr)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v V
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return nil, errors.Wrapf(err, "decode record %v", r.addr)
	}
	return &v, nil
}

// Exists returns whether the record exists.
func (r *Record[V]) Exists() (bool, error) {
	return r.state.Exists(r.addr)
}

// Set encodes and stores the record.
func (r *Record[V]) Set(v *V) error {
	raw, err := rlp.EncodeToBytes(v)
	if err != nil {
		return errors.Wrapf(err, "encode record %v", r.addr)
	}
	r.state.Set(r.addr, raw)
	return nil
}

// Delete removes the record.
func (r *Record[V]) Delete() {
	r.state.Delete(r.addr)
}

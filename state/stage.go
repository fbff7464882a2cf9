// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"slices"

	"github.com/golang/snappy"

	"github.com/richie-labs/richie/kv"
	"github.com/richie-labs/richie/richie"
)

// Stage abstracts the changes to be committed.
type Stage struct {
	stater  *Stater
	addrs   []richie.Address // sorted
	changes map[richie.Address][]byte
}

func newStage(stater *Stater, changes map[richie.Address][]byte) *Stage {
	addrs := make([]richie.Address, 0, len(changes))
	for addr := range changes {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b richie.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return &Stage{stater, addrs, changes}
}

// Len returns the count of changed records.
func (s *Stage) Len() int {
	return len(s.addrs)
}

// Hash computes the digest of the changes.
func (s *Stage) Hash() richie.Bytes32 {
	return richie.Blake2bFn(func(w io.Writer) {
		for _, addr := range s.addrs {
			w.Write(addr[:])
			v := richie.Blake2b(s.changes[addr])
			w.Write(v[:])
		}
	})
}

// Commit writes all changes atomically into the store.
func (s *Stage) Commit() error {
	return s.CommitWith(nil)
}

// CommitWith writes all changes, plus whatever fn puts into the raw store, in a single batch.
func (s *Stage) CommitWith(fn func(kv.Putter) error) error {
	if len(s.addrs) == 0 && fn == nil {
		return nil
	}
	bulk := s.stater.db.Bulk()
	records := recordBucket.NewPutter(bulk)
	for _, addr := range s.addrs {
		val := s.changes[addr]
		if len(val) == 0 {
			if err := records.Delete(addr[:]); err != nil {
				return &Error{err}
			}
			continue
		}
		if err := records.Put(addr[:], snappy.Encode(nil, val)); err != nil {
			return &Error{err}
		}
	}
	if fn != nil {
		if err := fn(bulk); err != nil {
			return err
		}
	}
	if err := bulk.Write(); err != nil {
		return &Error{err}
	}
	for _, addr := range s.addrs {
		s.stater.cache.Add(addr, s.changes[addr])
	}
	return nil
}

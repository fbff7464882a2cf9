// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State holds the uncommitted changes of records on top of the committed ones.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[richie.Address, []byte]
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(stater.load)
	return s
}

// Get returns the raw value of the record at addr. A nil value is returned for absent records.
func (s *State) Get(addr richie.Address) ([]byte, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// Exists returns whether a record exists at addr.
func (s *State) Exists(addr richie.Address) (bool, error) {
	v, err := s.Get(addr)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Set sets the raw value of the record at addr. An empty value deletes the record.
func (s *State) Set(addr richie.Address, val []byte) {
	s.sm.Put(addr, bytes.Clone(val))
}

// Delete deletes the record at addr.
func (s *State) Delete(addr richie.Address) {
	s.sm.Put(addr, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the cumulative changes into a stage object, ready to be committed.
func (s *State) Stage() *Stage {
	changes := make(map[richie.Address][]byte)
	s.sm.Journal(func(addr richie.Address, val []byte) bool {
		changes[addr] = val
		return true
	})
	return newStage(s.stater, changes)
}

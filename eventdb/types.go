// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/richie"
)

// Event is a program event together with the instruction that emitted it.
type Event struct {
	InstructionID richie.Bytes32    `json:"instructionID"`
	Index         uint32            `json:"index"`
	Op            instruction.Op    `json:"op"`
	Signer        richie.Address    `json:"signer"`
	Time          uint64            `json:"time"`
	Kind          program.EventKind `json:"kind"`
	Account       richie.Address    `json:"account"`
	Epoch         uint64            `json:"epoch"`
	Amount        uint64            `json:"amount"`
	Penalty       uint64            `json:"penalty"`
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range bounds event time, both ends included. A zero To leaves the range open.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Account *richie.Address    `json:"account"`
	Kind    *program.EventKind `json:"kind"`
	Epoch   *uint64            `json:"epoch"`
	Range   *Range             `json:"range"`
	Order   Order              `json:"order"` // default asc
	Options *Options           `json:"options"`
}

// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
)

// Receipt is the outcome of an executed instruction.
type Receipt struct {
	ID       richie.Bytes32   `json:"id"`
	Op       instruction.Op   `json:"op"`
	Signer   richie.Address   `json:"signer"`
	Reverted bool             `json:"reverted"`
	Code     reverts.Code     `json:"code,omitempty"`
	Error    string           `json:"error,omitempty"`
	Events   []*program.Event `json:"events"`
	Time     uint64           `json:"time"`
}

// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instructions

// RawInstruction carries a signed instruction in its hex encoded binary form.
type RawInstruction struct {
	Raw string `json:"raw"`
}

// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/ecdsa"
	"crypto/rand"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/richie-labs/richie/richie"
)

func RandomHash() richie.Bytes32 {
	var b32 richie.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr richie.Address) {
	rand.Read(addr[:])
	return
}

// RandKey generates a secp256k1 key and its principal address.
func RandKey() (*ecdsa.PrivateKey, richie.Address) {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return key, richie.PubkeyToAddress(key.PublicKey)
}

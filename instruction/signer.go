// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/richie"
)

// MustSign signs an instruction using the provided private key. It panics if signing fails.
func MustSign(ix *Instruction, pk *ecdsa.PrivateKey) *Instruction {
	signed, err := Sign(ix, pk)
	if err != nil {
		panic(err)
	}
	return signed
}

// Sign signs an instruction using the provided private key.
func Sign(ix *Instruction, pk *ecdsa.PrivateKey) (*Instruction, error) {
	sig, err := crypto.Sign(ix.SigningHash().Bytes(), pk)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign instruction")
	}
	return ix.WithSignature(sig), nil
}

// Signer recovers the address that signed the instruction.
func (ix *Instruction) Signer() (richie.Address, error) {
	if cached := ix.cache.signer.Load(); cached != nil {
		return *cached, nil
	}
	if len(ix.body.Signature) == 0 {
		return richie.Address{}, errUnsigned
	}
	pub, err := crypto.SigToPub(ix.SigningHash().Bytes(), ix.body.Signature)
	if err != nil {
		return richie.Address{}, errors.Wrap(err, "recover signer")
	}
	signer := richie.PubkeyToAddress(*pub)
	ix.cache.signer.Store(&signer)
	return signer, nil
}

// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the host token system consumed by the staking program:
// mints, token accounts and the transfer, burn and mint primitives.
package token

import (
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/storage"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

var logger = log.WithContext("pkg", "token")

// ProgramID is the identity of the token program.
var ProgramID = richie.BytesToAddress([]byte("richie-token"))

var (
	ErrMintNotFound      = reverts.New(7000, "mint not found")
	ErrMintExists        = reverts.New(7001, "mint already exists")
	ErrAccountNotFound   = reverts.New(7002, "token account not found")
	ErrAccountExists     = reverts.New(7003, "token account already exists")
	ErrMintMismatch      = reverts.New(7004, "mint mismatch")
	ErrOwnerMismatch     = reverts.New(7005, "owner does not match")
	ErrInsufficientFunds = reverts.New(7006, "insufficient funds")
	ErrOverflow          = reverts.New(7007, "supply overflow")
)

// Mint describes a fungible token.
type Mint struct {
	Authority richie.Address // may mint new supply
	Supply    uint64
	Decimals  uint8
}

// Account holds a balance of a single mint.
type Account struct {
	Mint   richie.Address
	Owner  richie.Address // may transfer and burn
	Amount uint64
}

// AssociatedAddress returns the canonical token account of owner for mint.
func AssociatedAddress(owner, mint richie.Address) richie.Address {
	return richie.DeriveAddress(ProgramID, owner[:], mint[:])
}

// Ledger executes token primitives on the state.
type Ledger struct {
	state *state.State
}

func New(st *state.State) *Ledger {
	return &Ledger{state: st}
}

// GetMint returns the mint at addr.
func (l *Ledger) GetMint(addr richie.Address) (*Mint, error) {
	m, err := storage.NewRecord[Mint](l.state, addr).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get mint")
	}
	if m == nil {
		return nil, ErrMintNotFound.Wrap(addr.String())
	}
	return m, nil
}

// GetAccount returns the token account at addr.
func (l *Ledger) GetAccount(addr richie.Address) (*Account, error) {
	a, err := storage.NewRecord[Account](l.state, addr).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token account")
	}
	if a == nil {
		return nil, ErrAccountNotFound.Wrap(addr.String())
	}
	return a, nil
}

// Balance returns the balance of the token account at addr, zero if absent.
func (l *Ledger) Balance(addr richie.Address) (uint64, error) {
	a, err := storage.NewRecord[Account](l.state, addr).Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get token account")
	}
	if a == nil {
		return 0, nil
	}
	return a.Amount, nil
}

// CreateMint creates a mint at addr.
func (l *Ledger) CreateMint(addr, authority richie.Address, decimals uint8) error {
	rec := storage.NewRecord[Mint](l.state, addr)
	exists, err := rec.Exists()
	if err != nil {
		return err
	}
	if exists {
		return ErrMintExists.Wrap(addr.String())
	}
	logger.Debug("creating mint", "mint", addr, "authority", authority)
	return rec.Set(&Mint{Authority: authority, Decimals: decimals})
}

// CreateAccount creates a token account of mint at addr, owned by owner.
func (l *Ledger) CreateAccount(addr, mint, owner richie.Address) error {
	if _, err := l.GetMint(mint); err != nil {
		return err
	}
	rec := storage.NewRecord[Account](l.state, addr)
	exists, err := rec.Exists()
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountExists.Wrap(addr.String())
	}
	return rec.Set(&Account{Mint: mint, Owner: owner})
}

// EnsureAssociated creates the associated account of owner for mint if absent, and returns its address.
func (l *Ledger) EnsureAssociated(owner, mint richie.Address) (richie.Address, error) {
	addr := AssociatedAddress(owner, mint)
	exists, err := l.state.Exists(addr)
	if err != nil {
		return richie.Address{}, err
	}
	if !exists {
		if err := l.CreateAccount(addr, mint, owner); err != nil {
			return richie.Address{}, err
		}
	}
	return addr, nil
}

// MintTo issues amount of new supply into dest. authority must be the mint authority.
func (l *Ledger) MintTo(mint, dest, authority richie.Address, amount uint64) error {
	m, err := l.GetMint(mint)
	if err != nil {
		return err
	}
	if m.Authority != authority {
		return ErrOwnerMismatch
	}
	acc, err := l.GetAccount(dest)
	if err != nil {
		return err
	}
	if acc.Mint != mint {
		return ErrMintMismatch
	}
	if m.Supply+amount < m.Supply {
		return ErrOverflow
	}
	m.Supply += amount
	acc.Amount += amount
	if err := storage.NewRecord[Mint](l.state, mint).Set(m); err != nil {
		return err
	}
	return storage.NewRecord[Account](l.state, dest).Set(acc)
}

// Transfer moves amount from source to dest. authority must own source.
func (l *Ledger) Transfer(source, dest, authority richie.Address, amount uint64) error {
	src, err := l.GetAccount(source)
	if err != nil {
		return err
	}
	dst, err := l.GetAccount(dest)
	if err != nil {
		return err
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	if source == dest {
		return nil
	}
	src.Amount -= amount
	dst.Amount += amount // bounded by the mint supply

	logger.Debug("transfer", "from", source, "to", dest, "amount", amount)
	if err := storage.NewRecord[Account](l.state, source).Set(src); err != nil {
		return err
	}
	return storage.NewRecord[Account](l.state, dest).Set(dst)
}

// Burn destroys amount from source, shrinking the supply of mint. authority must own source.
func (l *Ledger) Burn(mint, source, authority richie.Address, amount uint64) error {
	m, err := l.GetMint(mint)
	if err != nil {
		return err
	}
	src, err := l.GetAccount(source)
	if err != nil {
		return err
	}
	if src.Owner != authority {
		return ErrOwnerMismatch
	}
	if src.Mint != mint {
		return ErrMintMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	src.Amount -= amount
	m.Supply -= amount

	logger.Debug("burn", "mint", mint, "from", source, "amount", amount)
	if err := storage.NewRecord[Mint](l.state, mint).Set(m); err != nil {
		return err
	}
	return storage.NewRecord[Account](l.state, source).Set(src)
}

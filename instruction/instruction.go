// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package instruction defines the signed instructions accepted by the runtime.
package instruction

import (
	"io"
	"slices"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/richie"
)

var (
	errUnsigned       = errors.New("instruction unsigned")
	errMissingAccount = errors.New("missing account")
)

// Instruction is an immutable, signed call of a single operation.
type Instruction struct {
	body body

	cache struct {
		signingHash atomic.Pointer[richie.Bytes32]
		signer      atomic.Pointer[richie.Address]
		id          atomic.Pointer[richie.Bytes32]
	}
}

type body struct {
	Op        Op
	Nonce     uint64
	Accounts  []richie.Address
	Args      []byte // RLP of the op's args
	Signature []byte
}

func newInstruction(op Op, nonce uint64, args any, accounts ...richie.Address) *Instruction {
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		panic(err) // args are plain structs of unsigned integers
	}
	return &Instruction{body: body{
		Op:       op,
		Nonce:    nonce,
		Accounts: accounts,
		Args:     data,
	}}
}

// Op returns the operation.
func (ix *Instruction) Op() Op {
	return ix.body.Op
}

// Nonce returns the nonce, chosen by the signer to tell identical calls apart.
func (ix *Instruction) Nonce() uint64 {
	return ix.body.Nonce
}

// Accounts returns the account references.
func (ix *Instruction) Accounts() []richie.Address {
	return slices.Clone(ix.body.Accounts)
}

// Account returns the i-th account reference.
func (ix *Instruction) Account(i int) (richie.Address, error) {
	if i < 0 || i >= len(ix.body.Accounts) {
		return richie.Address{}, errors.Wrapf(errMissingAccount, "index %d", i)
	}
	return ix.body.Accounts[i], nil
}

// DecodeArgs decodes the args into v.
func (ix *Instruction) DecodeArgs(v any) error {
	return errors.Wrapf(rlp.DecodeBytes(ix.body.Args, v), "decode %v args", ix.body.Op)
}

// Signature returns the signature.
func (ix *Instruction) Signature() []byte {
	return slices.Clone(ix.body.Signature)
}

// WithSignature create a new instruction with signature set.
func (ix *Instruction) WithSignature(sig []byte) *Instruction {
	newIx := Instruction{body: ix.body}
	newIx.body.Signature = slices.Clone(sig)
	return &newIx
}

// SigningHash returns the hash of the instruction excluding the signature.
func (ix *Instruction) SigningHash() richie.Bytes32 {
	if cached := ix.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	h := richie.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			ix.body.Op,
			ix.body.Nonce,
			ix.body.Accounts,
			ix.body.Args,
		})
	})
	ix.cache.signingHash.Store(&h)
	return h
}

// ID returns the id of the instruction, unique per signer.
// It returns zero bytes if the signer can't be recovered.
func (ix *Instruction) ID() (id richie.Bytes32) {
	if cached := ix.cache.id.Load(); cached != nil {
		return *cached
	}
	signer, err := ix.Signer()
	if err != nil {
		return
	}
	id = richie.Blake2b(ix.SigningHash().Bytes(), signer.Bytes())
	ix.cache.id.Store(&id)
	return
}

// EncodeRLP implements rlp.Encoder
func (ix *Instruction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &ix.body)
}

// DecodeRLP implements rlp.Decoder
func (ix *Instruction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*ix = Instruction{body: b}
	return nil
}

// Encode returns the wire form of ix.
func Encode(ix *Instruction) ([]byte, error) {
	return rlp.EncodeToBytes(ix)
}

// Decode parses the wire form of an instruction.
func Decode(data []byte) (*Instruction, error) {
	var ix Instruction
	if err := rlp.DecodeBytes(data, &ix); err != nil {
		return nil, errors.Wrap(err, "decode instruction")
	}
	if !ix.body.Op.IsValid() {
		return nil, errors.Errorf("unknown op %d", ix.body.Op)
	}
	return &ix, nil
}

// NewInitializeStakeVault creates the config and stake vault for stakeMint.
func NewInitializeStakeVault(nonce uint64, stakeMint richie.Address, aprBps uint64, epochDuration int64) *Instruction {
	return newInstruction(OpInitializeStakeVault, nonce,
		&InitializeStakeVaultArgs{AprBps: aprBps, EpochDuration: uint64(epochDuration)}, stakeMint)
}

// NewInitializeRewardVault creates the reward vault for rewardMint.
func NewInitializeRewardVault(nonce uint64, rewardMint richie.Address) *Instruction {
	return newInstruction(OpInitializeRewardVault, nonce, &noArgs{}, rewardMint)
}

func NewUpdateEpochDuration(nonce uint64, duration int64) *Instruction {
	return newInstruction(OpUpdateEpochDuration, nonce, &UpdateEpochDurationArgs{Duration: uint64(duration)})
}

func NewUpdateMultiplier(nonce uint64, multiplier []uint64) *Instruction {
	return newInstruction(OpUpdateMultiplier, nonce, &UpdateMultiplierArgs{Multiplier: multiplier})
}

func NewUpdateAprBps(nonce uint64, aprBps uint64) *Instruction {
	return newInstruction(OpUpdateAprBps, nonce, &UpdateAprBpsArgs{AprBps: aprBps})
}

func NewToggle(nonce uint64, index, rewardAmount uint64) *Instruction {
	return newInstruction(OpToggle, nonce, &ToggleArgs{Index: index, RewardAmount: rewardAmount})
}

// NewManageStakerReward settles user for the epoch index.
func NewManageStakerReward(nonce uint64, user richie.Address, index uint64) *Instruction {
	return newInstruction(OpManageStakerReward, nonce, &ManageStakerRewardArgs{Index: index}, user)
}

func NewStake(nonce uint64, index, amount uint64, lockPeriod uint8) *Instruction {
	return newInstruction(OpStake, nonce, &StakeArgs{Index: index, Amount: amount, LockPeriod: lockPeriod})
}

func NewClaim(nonce uint64) *Instruction {
	return newInstruction(OpClaim, nonce, &noArgs{})
}

func NewWithdraw(nonce uint64, index uint64) *Instruction {
	return newInstruction(OpWithdraw, nonce, &WithdrawArgs{Index: index})
}

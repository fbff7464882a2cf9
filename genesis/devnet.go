// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/richie-labs/richie/richie"
)

// DevAccount account for development.
type DevAccount struct {
	Address    richie.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Pointer[[]DevAccount]

// DevAccounts returns pre-funded accounts for solo mode. The first one is the admin.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return *accs
	}

	var accs []DevAccount
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{richie.PubkeyToAddress(pk.PublicKey), pk})
	}
	devAccounts.Store(&accs)
	return accs
}

const (
	devStakeBalance  = 1_000_000_000_000 // 1000 tokens at 9 decimals
	devRewardBalance = 10_000_000_000_000
)

// NewDevnet creates the genesis for solo mode.
func NewDevnet(launchTime int64, epochDuration int64) *Genesis {
	accs := DevAccounts()
	admin := accs[0].Address
	authority := richie.DeriveAddress(admin, []byte("mint-authority"))

	gen := &Genesis{
		LaunchTime: launchTime,
		Admin:      admin,
		StakeMint: Mint{
			Address:   richie.DeriveAddress(admin, []byte("stake-mint")),
			Authority: authority,
			Decimals:  9,
		},
		RewardMint: Mint{
			Address:   richie.DeriveAddress(admin, []byte("reward-mint")),
			Authority: authority,
			Decimals:  9,
		},
		Params: Params{
			AprBps:        500,
			EpochDuration: epochDuration,
		},
	}
	gen.Accounts = append(gen.Accounts, Account{Owner: admin, Reward: devRewardBalance})
	for _, acc := range accs[1:] {
		gen.Accounts = append(gen.Accounts, Account{Owner: acc.Address, Stake: devStakeBalance})
	}
	return gen
}

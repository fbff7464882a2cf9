// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richie-labs/richie/lvldb"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
	"github.com/richie-labs/richie/test/datagen"
)

const (
	genesisTime   int64 = 1_700_000_000
	epochDuration int64 = 3600
)

type testEnv struct {
	t     *testing.T
	state *state.State
	prog  *Program

	admin      richie.Address
	mintAuth   richie.Address
	stakeMint  richie.Address
	rewardMint richie.Address
	now        int64
}

func newTestEnv(t *testing.T) *testEnv {
	st := state.NewStater(lvldb.NewMem(), 0).NewState()
	env := &testEnv{
		t:          t,
		state:      st,
		prog:       New(st),
		admin:      datagen.RandAddress(),
		mintAuth:   datagen.RandAddress(),
		stakeMint:  datagen.RandAddress(),
		rewardMint: datagen.RandAddress(),
		now:        genesisTime,
	}
	tokens := env.prog.Tokens()
	require.NoError(t, tokens.CreateMint(env.stakeMint, env.mintAuth, 9))
	require.NoError(t, tokens.CreateMint(env.rewardMint, env.mintAuth, 9))
	env.mint(env.rewardMint, env.admin, 1_000_000)

	require.NoError(t, env.prog.InitializeStakeVault(env.admin, env.stakeMint, 500, epochDuration, env.now))
	require.NoError(t, env.prog.InitializeRewardVault(env.admin, env.rewardMint))
	return env
}

func (env *testEnv) mint(mint, owner richie.Address, amount uint64) {
	tokens := env.prog.Tokens()
	acc, err := tokens.EnsureAssociated(owner, mint)
	require.NoError(env.t, err)
	require.NoError(env.t, tokens.MintTo(mint, acc, env.mintAuth, amount))
}

func (env *testEnv) newUser(balance uint64) richie.Address {
	user := datagen.RandAddress()
	env.mint(env.stakeMint, user, balance)
	return user
}

func (env *testEnv) balance(mint, owner richie.Address) uint64 {
	b, err := env.prog.Tokens().Balance(token.AssociatedAddress(owner, mint))
	require.NoError(env.t, err)
	return b
}

func (env *testEnv) advance(seconds int64) {
	env.now += seconds
}

func (env *testEnv) toggle(index, reward uint64) {
	require.NoError(env.t, env.prog.Toggle(env.admin, index, reward, env.now))
}

func (env *testEnv) settle(user richie.Address, index uint64) uint64 {
	reward, err := env.prog.ManageStakerReward(env.admin, user, index, env.now)
	require.NoError(env.t, err)
	return reward
}

// openPreLaunch opens the pre-launch window, lets users stake into it and settles it.
func (env *testEnv) openPreLaunch(deposits map[richie.Address]uint64) {
	env.toggle(0, 0)
	for user, amount := range deposits {
		require.NoError(env.t, env.prog.Stake(user, 0, amount, 1, env.now))
	}
	env.advance(richie.PreLaunchDuration + 1)
	for user := range deposits {
		assert.Equal(env.t, uint64(0), env.settle(user, 0))
	}
}

func (env *testEnv) pending(user richie.Address) uint64 {
	us, err := env.prog.UserStake(user)
	require.NoError(env.t, err)
	require.NotNil(env.t, us)
	return us.PendingReward
}

// assertTotalStaked checks the global principal equals the sum over every entry.
func (env *testEnv) assertTotalStaked() {
	cfg, err := env.prog.Config()
	require.NoError(env.t, err)
	stakes, err := env.prog.Stakes()
	require.NoError(env.t, err)

	var sum uint64
	for _, addr := range stakes.List {
		us, err := env.prog.userStakeService.GetAt(addr)
		require.NoError(env.t, err)
		sum += us.TotalAmount()
	}
	assert.Equal(env.t, cfg.TotalStaked, sum)

	vault, err := env.prog.StakeVaultBalance()
	require.NoError(env.t, err)
	assert.Equal(env.t, cfg.TotalStaked, vault)
}

func TestInitialize(t *testing.T) {
	env := newTestEnv(t)

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, env.admin, cfg.Admin)
	assert.Equal(t, uint64(500), cfg.AprBps)
	assert.Equal(t, epochDuration, cfg.EpochDuration)
	assert.Equal(t, genesisTime, cfg.LastEpochTime)
	assert.Equal(t, richie.DefaultMultiplier, cfg.Multiplier)
	assert.Equal(t, richie.StakeVaultAddress(), cfg.StakeVault)
	assert.Equal(t, richie.RewardVaultAddress(), cfg.RewardVault)
	assert.Equal(t, env.rewardMint, cfg.RewardTokenMint)
	assert.Equal(t, uint64(0), cfg.Index)

	vault, err := env.prog.Tokens().GetAccount(richie.StakeVaultAddress())
	require.NoError(t, err)
	assert.Equal(t, richie.ConfigAddress(), vault.Owner)

	err = env.prog.InitializeStakeVault(env.admin, env.stakeMint, 500, epochDuration, env.now)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)
	err = env.prog.InitializeRewardVault(env.admin, env.rewardMint)
	assert.ErrorIs(t, err, reverts.ErrAlreadyInitialized)

	kinds := make([]EventKind, 0)
	for _, ev := range env.prog.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{EventInitialized, EventRewardVaultInitialized}, kinds)
}

func TestInitializeInvalidDuration(t *testing.T) {
	st := state.NewStater(lvldb.NewMem(), 0).NewState()
	p := New(st)
	mint := datagen.RandAddress()
	require.NoError(t, p.Tokens().CreateMint(mint, datagen.RandAddress(), 0))

	assert.ErrorIs(t, p.InitializeStakeVault(datagen.RandAddress(), mint, 0, 0, genesisTime), reverts.ErrInvalidEpochDuration)
	assert.ErrorIs(t, p.InitializeStakeVault(datagen.RandAddress(), mint, 0, -1, genesisTime), reverts.ErrInvalidEpochDuration)

	_, err := p.Config()
	assert.ErrorIs(t, err, reverts.ErrNotInitialized)
}

func TestAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	stranger := datagen.RandAddress()

	assert.ErrorIs(t, env.prog.UpdateEpochDuration(stranger, 10), reverts.ErrUnAuthorized)
	assert.ErrorIs(t, env.prog.UpdateMultiplier(stranger, []uint64{100}), reverts.ErrUnAuthorized)
	assert.ErrorIs(t, env.prog.UpdateAprBps(stranger, 1), reverts.ErrUnAuthorized)
	assert.ErrorIs(t, env.prog.Toggle(stranger, 0, 0, env.now), reverts.ErrUnAuthorized)
	_, err := env.prog.ManageStakerReward(stranger, stranger, 0, env.now)
	assert.ErrorIs(t, err, reverts.ErrUnAuthorized)
}

func TestUpdateConfig(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.prog.UpdateEpochDuration(env.admin, 7200))
	assert.ErrorIs(t, env.prog.UpdateEpochDuration(env.admin, 0), reverts.ErrInvalidEpochDuration)
	require.NoError(t, env.prog.UpdateMultiplier(env.admin, []uint64{100, 110}))
	assert.ErrorIs(t, env.prog.UpdateMultiplier(env.admin, []uint64{1, 2, 3, 4, 5, 6}), reverts.ErrTooManyMultipliers)
	require.NoError(t, env.prog.UpdateAprBps(env.admin, 800))

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, int64(7200), cfg.EpochDuration)
	assert.Equal(t, []uint64{100, 110}, cfg.Multiplier)
	assert.Equal(t, uint64(800), cfg.AprBps)

	// slot of lock period 4 is beyond the shortened table
	env.toggle(0, 0)
	env.toggle(1, 10)
	user := env.newUser(100)
	assert.ErrorIs(t, env.prog.Stake(user, 1, 100, 4, env.now), reverts.ErrInvalidLockPeriod)
	require.NoError(t, env.prog.Stake(user, 1, 100, 2, env.now))
}

func TestToggle(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.prog.Toggle(env.admin, 0, 5, env.now), reverts.ErrInvalidRewardAmount)
	assert.ErrorIs(t, env.prog.Toggle(env.admin, 1, 5, env.now), reverts.ErrInvalidEpochIndex)

	env.toggle(0, 0)
	ep, err := env.prog.Epoch(0)
	require.NoError(t, err)
	require.NotNil(t, ep)
	assert.Equal(t, env.now, ep.StakedStartTime)
	assert.Equal(t, richie.PreLaunchDuration, ep.StakeDuration)
	assert.Equal(t, env.now+richie.PreLaunchDuration, ep.StakedEndTime)
	assert.Equal(t, uint64(0), ep.Reward)

	assert.ErrorIs(t, env.prog.Toggle(env.admin, 0, 0, env.now), reverts.ErrInvalidEpochIndex)
	assert.ErrorIs(t, env.prog.Toggle(env.admin, 1, 0, env.now), reverts.ErrInvalidRewardAmount)
	assert.ErrorIs(t, env.prog.Toggle(env.admin, 2, 10, env.now), reverts.ErrInvalidEpochIndex)

	env.advance(100)
	env.toggle(1, 500)
	ep, err = env.prog.Epoch(1)
	require.NoError(t, err)
	assert.Equal(t, epochDuration, ep.StakeDuration)
	assert.Equal(t, uint64(500), ep.Reward)

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.Index)
	assert.Equal(t, env.now, cfg.LastEpochTime)

	vault, err := env.prog.RewardVaultBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), vault)
	assert.Equal(t, uint64(1_000_000-500), env.balance(env.rewardMint, env.admin))

	// unfunded admin
	err = env.prog.Toggle(env.admin, 2, 2_000_000, env.now)
	assert.ErrorIs(t, err, token.ErrInsufficientFunds)
}

// Single user, one epoch, lock of one epoch.
func TestSingleUserOneEpoch(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.openPreLaunch(map[richie.Address]uint64{user: 1000})

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000*3600), cfg.TotalCurve)

	env.toggle(1, 500)
	env.advance(epochDuration + 1)
	assert.Equal(t, uint64(500), env.settle(user, 1))
	assert.Equal(t, uint64(500), env.pending(user))

	ep, err := env.prog.Epoch(1)
	require.NoError(t, err)
	assert.True(t, ep.Claimable)
	assert.Equal(t, uint64(500), ep.Distributed)

	claimed, err := env.prog.Claim(user)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), claimed)
	assert.Equal(t, uint64(0), env.pending(user))
	assert.Equal(t, uint64(500), env.balance(env.rewardMint, user))

	_, err = env.prog.Claim(user)
	assert.ErrorIs(t, err, reverts.ErrNoReward)
	env.assertTotalStaked()
}

// Two users split the budget in proportion to their principal.
func TestProportionalSplit(t *testing.T) {
	env := newTestEnv(t)
	a := env.newUser(1000)
	b := env.newUser(3000)

	env.openPreLaunch(map[richie.Address]uint64{a: 1000, b: 3000})
	env.toggle(1, 400)

	ep, err := env.prog.Epoch(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(4000*3600), ep.TotalCurve)
	assert.Equal(t, uint64(4000), ep.TotalStakedAmount)

	env.advance(epochDuration + 1)
	assert.Equal(t, uint64(100), env.settle(a, 1))
	assert.Equal(t, uint64(300), env.settle(b, 1))
	env.assertTotalStaked()
}

// A locked deposit carries its boost while locked and drops it once the lock expires.
func TestBoostAndLockExpiry(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.prog.UpdateMultiplier(env.admin, []uint64{100, 120, 200, 250, 300}))
	user := env.newUser(1000)

	env.toggle(0, 0)
	env.advance(richie.PreLaunchDuration + 1)
	env.toggle(1, 600)
	require.NoError(t, env.prog.Stake(user, 1, 1000, 4, env.now))

	us, err := env.prog.UserStake(user)
	require.NoError(t, err)
	entry := us.StakeEntries[0]
	assert.Equal(t, uint64(3_600_000), entry.BaseCurve)
	assert.Equal(t, uint64(7_200_000), entry.BoostedCurve)
	assert.Equal(t, uint64(200), entry.Multiplier)

	ep, err := env.prog.Epoch(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(7_200_000), ep.TotalCurve)

	for index := uint64(1); index <= 5; index++ {
		if index > 1 {
			env.toggle(index, 600)
		}
		env.advance(epochDuration + 1)
		assert.Equal(t, uint64(600), env.settle(user, index), "epoch %d", index)

		us, err := env.prog.UserStake(user)
		require.NoError(t, err)
		entry := us.StakeEntries[0]
		assert.Equal(t, uint64(3_600_000), entry.BaseCurve, "epoch %d", index)
		if index < 4 {
			assert.Equal(t, uint64(7_200_000), entry.BoostedCurve, "epoch %d", index)
		} else {
			assert.Equal(t, entry.BaseCurve, entry.BoostedCurve, "epoch %d", index)
		}
	}

	ep, err = env.prog.Epoch(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(3_600_000), ep.TotalCurve)
	assert.Equal(t, uint64(3000), env.pending(user))
}

// Withdrawing before the lock ends burns the penalty and drops the boosted curve.
func TestEarlyWithdraw(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.toggle(0, 0)
	env.advance(richie.PreLaunchDuration + 1)
	env.toggle(1, 600)
	require.NoError(t, env.prog.Stake(user, 1, 1000, 4, env.now))
	env.advance(epochDuration + 1)
	env.settle(user, 1)
	env.toggle(2, 600)

	us, err := env.prog.UserStake(user)
	require.NoError(t, err)
	boosted := us.StakeEntries[0].BoostedCurve
	ep, err := env.prog.Epoch(2)
	require.NoError(t, err)
	assert.Equal(t, boosted, ep.TotalCurve)

	supplyBefore := mintSupply(t, env.prog, env.stakeMint)

	res, err := env.prog.Withdraw(user, 1)
	require.NoError(t, err)
	assert.Equal(t, &WithdrawResult{Amount: 950, Penalty: 50, Entries: 1}, res)

	assert.Equal(t, uint64(950), env.balance(env.stakeMint, user))
	assert.Equal(t, supplyBefore-50, mintSupply(t, env.prog, env.stakeMint))
	vault, err := env.prog.StakeVaultBalance()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), vault)

	ep, err = env.prog.Epoch(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ep.TotalCurve)

	us, err = env.prog.UserStake(user)
	require.NoError(t, err)
	assert.Empty(t, us.StakeEntries)
	env.assertTotalStaked()

	_, err = env.prog.Withdraw(user, 1)
	assert.ErrorIs(t, err, reverts.ErrNothingToWithdraw)
}

// Staking then withdrawing once the lock elapsed returns exactly the principal.
func TestOnTimeWithdrawRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.toggle(0, 0)
	env.toggle(1, 100)
	require.NoError(t, env.prog.Stake(user, 1, 1000, 1, env.now))
	env.advance(epochDuration + 1)
	env.toggle(2, 100)

	supplyBefore := mintSupply(t, env.prog, env.stakeMint)
	res, err := env.prog.Withdraw(user, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), res.Amount)
	assert.Equal(t, uint64(0), res.Penalty)
	assert.Equal(t, uint64(1000), env.balance(env.stakeMint, user))
	assert.Equal(t, supplyBefore, mintSupply(t, env.prog, env.stakeMint))
	env.assertTotalStaked()
}

// Withdrawing an entry settled for the current epoch also removes its carried curve.
func TestWithdrawSettledEntry(t *testing.T) {
	env := newTestEnv(t)
	a := env.newUser(1000)
	b := env.newUser(1000)

	env.toggle(0, 0)
	env.toggle(1, 100)
	require.NoError(t, env.prog.Stake(a, 1, 1000, 1, env.now))
	require.NoError(t, env.prog.Stake(b, 1, 1000, 1, env.now))
	env.advance(epochDuration + 1)
	env.settle(a, 1)
	env.settle(b, 1)

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(2*3_600_000), cfg.TotalCurve)

	_, err = env.prog.Withdraw(a, 1)
	require.NoError(t, err)
	cfg, err = env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(3_600_000), cfg.TotalCurve)
	assert.Equal(t, uint64(1000), cfg.TotalStaked)
	env.assertTotalStaked()
}

// Withdrawing a settled entry leaves the epoch curve intact for the stakers not yet settled.
func TestWithdrawSettledKeepsEpochShares(t *testing.T) {
	env := newTestEnv(t)
	a := env.newUser(1000)
	b := env.newUser(1000)
	c := env.newUser(1000)

	env.toggle(0, 0)
	env.toggle(1, 900)
	require.NoError(t, env.prog.Stake(b, 1, 1000, 1, env.now))
	require.NoError(t, env.prog.Stake(c, 1, 1000, 1, env.now))
	env.advance(epochDuration / 2)
	require.NoError(t, env.prog.Stake(a, 1, 1000, 1, env.now))
	env.advance(epochDuration/2 + 1)

	assert.Equal(t, uint64(180), env.settle(a, 1))
	_, err := env.prog.Withdraw(a, 1)
	require.NoError(t, err)

	ep, err := env.prog.Epoch(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(9_000_000), ep.TotalCurve)

	assert.Equal(t, uint64(360), env.settle(b, 1))
	assert.Equal(t, uint64(360), env.settle(c, 1))

	cfg, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(2*3_600_000), cfg.TotalCurve)
	assert.Equal(t, uint64(2000), cfg.TotalStaked)
	env.assertTotalStaked()
}

// Settling twice credits once.
func TestIdempotentSettlement(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.openPreLaunch(map[richie.Address]uint64{user: 1000})
	env.toggle(1, 500)
	env.advance(epochDuration + 1)
	env.settle(user, 1)

	cfg, err := env.prog.Config()
	require.NoError(t, err)

	_, err = env.prog.ManageStakerReward(env.admin, user, 1, env.now)
	assert.ErrorIs(t, err, reverts.ErrAlreadyCalculated)
	assert.Equal(t, uint64(500), env.pending(user))

	after, err := env.prog.Config()
	require.NoError(t, err)
	assert.Equal(t, cfg.TotalCurve, after.TotalCurve)
}

func TestSettlementPreconditions(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)
	stranger := datagen.RandAddress()

	_, err := env.prog.ManageStakerReward(env.admin, user, 0, env.now)
	assert.ErrorIs(t, err, reverts.ErrInvalidEpochIndex)

	env.toggle(0, 0)
	require.NoError(t, env.prog.Stake(user, 0, 1000, 1, env.now))

	_, err = env.prog.ManageStakerReward(env.admin, user, 0, env.now+richie.PreLaunchDuration)
	assert.ErrorIs(t, err, reverts.ErrUnFinishedEpoch)
	_, err = env.prog.ManageStakerReward(env.admin, user, 1, env.now)
	assert.ErrorIs(t, err, reverts.ErrInvalidEpochIndex)
	_, err = env.prog.ManageStakerReward(env.admin, stranger, 0, env.now+richie.PreLaunchDuration+1)
	assert.ErrorIs(t, err, reverts.ErrInvalidUserStake)
}

// Credits never exceed the epoch budget.
func TestSettlementClampedToBudget(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.openPreLaunch(map[richie.Address]uint64{user: 1000})
	env.toggle(1, 500)

	ep, err := env.prog.Epoch(1)
	require.NoError(t, err)
	ep.Distributed = 490
	require.NoError(t, env.prog.epochService.Set(ep))

	env.advance(epochDuration + 1)
	assert.Equal(t, uint64(10), env.settle(user, 1))

	ep, err = env.prog.Epoch(1)
	require.NoError(t, err)
	assert.Equal(t, ep.Reward, ep.Distributed)
}

func TestStakeWindow(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(10_000)

	assert.ErrorIs(t, env.prog.Stake(user, 0, 100, 1, env.now), reverts.ErrInvalidStakeTime)

	env.toggle(0, 0)
	assert.ErrorIs(t, env.prog.Stake(user, 0, 100, 2, env.now), reverts.ErrInvalidLockPeriod)
	assert.ErrorIs(t, env.prog.Stake(user, 0, 100, 3, env.now), reverts.ErrInvalidLockPeriod)
	assert.ErrorIs(t, env.prog.Stake(user, 0, 0, 1, env.now), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, env.prog.Stake(user, 1, 100, 1, env.now), reverts.ErrInvalidEpochIndex)

	env.toggle(1, 100)
	start := env.now
	assert.ErrorIs(t, env.prog.Stake(user, 0, 100, 1, start), reverts.ErrInvalidEpochIndex)
	assert.ErrorIs(t, env.prog.Stake(user, 1, 100, 1, start-1), reverts.ErrInvalidStakeTime)
	require.NoError(t, env.prog.Stake(user, 1, 100, 1, start+epochDuration))
	assert.ErrorIs(t, env.prog.Stake(user, 1, 100, 1, start+epochDuration+1), reverts.ErrInvalidStakeTime)

	// a deposit at the very end of the window carries no curve
	us, err := env.prog.UserStake(user)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), us.StakeEntries[0].BaseCurve)

	poor := env.newUser(10)
	assert.ErrorIs(t, env.prog.Stake(poor, 1, 100, 1, start), token.ErrInsufficientFunds)
}

func TestPreLaunchMerge(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.toggle(0, 0)
	require.NoError(t, env.prog.Stake(user, 0, 300, 1, env.now))
	require.NoError(t, env.prog.Stake(user, 0, 200, 1, env.now+10))

	us, err := env.prog.UserStake(user)
	require.NoError(t, err)
	require.Len(t, us.StakeEntries, 1)
	assert.Equal(t, uint64(500), us.StakeEntries[0].Amount)
	assert.Equal(t, uint64(0), us.StakeEntries[0].BaseCurve)
	assert.Equal(t, uint64(0), us.StakeEntries[0].BoostedCurve)

	stakes, err := env.prog.Stakes()
	require.NoError(t, err)
	assert.Equal(t, []richie.Address{richie.UserStakeAddress(user)}, stakes.List)

	ep, err := env.prog.Epoch(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ep.TotalCurve)
	env.assertTotalStaked()
}

func TestStakeEntryCap(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.toggle(0, 0)
	env.toggle(1, 100)
	for rangeIdx := 0; rangeIdx < richie.MaxStakeEntries; rangeIdx++ {
		require.NoError(t, env.prog.Stake(user, 1, 1, 1, env.now))
	}
	assert.ErrorIs(t, env.prog.Stake(user, 1, 1, 1, env.now), reverts.ErrTooManyStakeEntries)
	env.assertTotalStaked()
}

func TestStakerCap(t *testing.T) {
	env := newTestEnv(t)
	env.toggle(0, 0)

	for rangeIdx := 0; rangeIdx < richie.MaxStakers; rangeIdx++ {
		require.NoError(t, env.prog.Stake(env.newUser(1), 0, 1, 1, env.now))
	}
	assert.ErrorIs(t, env.prog.Stake(env.newUser(1), 0, 1, 1, env.now), reverts.ErrTooManyStakers)

	stakes, err := env.prog.Stakes()
	require.NoError(t, err)
	assert.Len(t, stakes.List, richie.MaxStakers)
}

func TestRestakeAfterDrainNotDuplicated(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser(1000)

	env.toggle(0, 0)
	env.toggle(1, 100)
	require.NoError(t, env.prog.Stake(user, 1, 500, 1, env.now))
	_, err := env.prog.Withdraw(user, 1)
	require.NoError(t, err)
	require.NoError(t, env.prog.Stake(user, 1, 400, 1, env.now))

	stakes, err := env.prog.Stakes()
	require.NoError(t, err)
	assert.Len(t, stakes.List, 1)
	env.assertTotalStaked()
}

func TestClaimWithoutStake(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.prog.Claim(datagen.RandAddress())
	assert.ErrorIs(t, err, reverts.ErrNoReward)
	_, err = env.prog.Withdraw(datagen.RandAddress(), 0)
	assert.ErrorIs(t, err, reverts.ErrNothingToWithdraw)
}

func mintSupply(t *testing.T, p *Program, mint richie.Address) uint64 {
	m, err := p.Tokens().GetMint(mint)
	require.NoError(t, err)
	return m.Supply
}

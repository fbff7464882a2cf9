// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
	"github.com/richie-labs/richie/test/datagen"
)

func newReceipt(op instruction.Op, t uint64, events ...*program.Event) *runtime.Receipt {
	return &runtime.Receipt{
		ID:     datagen.RandomHash(),
		Op:     op,
		Signer: datagen.RandAddress(),
		Events: events,
		Time:   t,
	}
}

func TestWriteAndFilter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	receipts := []*runtime.Receipt{
		newReceipt(instruction.OpStake, 100, &program.Event{Kind: program.EventStaked, Account: alice, Epoch: 1, Amount: 1000}),
		newReceipt(instruction.OpStake, 200, &program.Event{Kind: program.EventStaked, Account: bob, Epoch: 1, Amount: 3000}),
		newReceipt(instruction.OpManageStakerReward, 300,
			&program.Event{Kind: program.EventRewardSettled, Account: alice, Epoch: 1, Amount: 100},
		),
		newReceipt(instruction.OpWithdraw, 400,
			&program.Event{Kind: program.EventWithdrawn, Account: bob, Epoch: 1, Amount: 2850, Penalty: 150},
		),
	}
	reverted := newReceipt(instruction.OpClaim, 500)
	reverted.Reverted = true

	for _, r := range append(receipts, reverted) {
		require.NoError(t, db.Write(ctx, r))
	}
	// idempotent
	require.NoError(t, db.Write(ctx, receipts[0]))

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, &Event{
		InstructionID: receipts[3].ID,
		Index:         0,
		Op:            instruction.OpWithdraw,
		Signer:        receipts[3].Signer,
		Time:          400,
		Kind:          program.EventWithdrawn,
		Account:       bob,
		Epoch:         1,
		Amount:        2850,
		Penalty:       150,
	}, all[3])

	kind := program.EventStaked
	staked, err := db.Filter(ctx, &Filter{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, staked, 2)

	byAlice, err := db.Filter(ctx, &Filter{Account: &alice, Order: DESC})
	require.NoError(t, err)
	require.Len(t, byAlice, 2)
	assert.Equal(t, program.EventRewardSettled, byAlice[0].Kind)

	ranged, err := db.Filter(ctx, &Filter{Range: &Range{From: 150, To: 300}})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	open, err := db.Filter(ctx, &Filter{Range: &Range{From: 250}})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	epoch := uint64(2)
	none, err := db.Filter(ctx, &Filter{Epoch: &epoch})
	require.NoError(t, err)
	assert.Empty(t, none)

	paged, err := db.Filter(ctx, &Filter{Options: &Options{Offset: 1, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, receipts[1].ID, paged[0].InstructionID)
}

func TestLargeAmounts(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	r := newReceipt(instruction.OpClaim, 1, &program.Event{Kind: program.EventClaimed, Amount: ^uint64(0)})
	require.NoError(t, db.Write(context.Background(), r))

	events, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ^uint64(0), events[0].Amount)
}

type feedSource struct {
	feed event.Feed
}

func (s *feedSource) SubscribeReceipts(ch chan *runtime.Receipt) event.Subscription {
	return s.feed.Subscribe(ch)
}

func TestSync(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	src := &feedSource{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- db.Sync(ctx, src) }()

	account := richie.BytesToAddress([]byte("acc"))
	r := newReceipt(instruction.OpClaim, 1, &program.Event{Kind: program.EventClaimed, Account: account, Amount: 5})
	// wait for the subscription
	require.Eventually(t, func() bool { return src.feed.Send(r) == 1 }, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		events, err := db.Filter(context.Background(), &Filter{Account: &account})
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

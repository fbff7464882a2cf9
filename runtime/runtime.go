// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the staking program. It executes signed instructions one at a time,
// each one atomically: every mutation commits together with its receipt, or none does.
package runtime

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/kv"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

var logger = log.WithContext("pkg", "runtime")

const (
	receiptBucket     = kv.Bucket("x")
	receiptCacheBytes = 8 * 1024 * 1024
	stateCacheSize    = 4096
	publishQueueSize  = 1024
)

var (
	ErrKnownInstruction = errors.New("known instruction")
	ErrUnknownOp        = errors.New("unknown op")
	ErrClosed           = errors.New("runtime closed")
)

// Runtime executes instructions against the persisted state.
type Runtime struct {
	lock     sync.RWMutex
	stater   *state.Stater
	receipts kv.Store
	cache    *directcache.Cache
	clock    Clock

	feed    event.Feed
	scope   event.SubscriptionScope
	publish chan *Receipt
	done    chan struct{}
	once    sync.Once
	goes    sync.WaitGroup
}

// New creates a runtime on store.
func New(store kv.Store, clock Clock) *Runtime {
	rt := &Runtime{
		stater:   state.NewStater(store, stateCacheSize),
		receipts: receiptBucket.NewStore(store),
		cache:    directcache.New(receiptCacheBytes),
		clock:    clock,
		publish:  make(chan *Receipt, publishQueueSize),
		done:     make(chan struct{}),
	}
	rt.goes.Add(1)
	go func() {
		defer rt.goes.Done()
		rt.publishLoop()
	}()
	return rt
}

// Close stops publishing receipts and unsubscribes all subscribers.
func (rt *Runtime) Close() {
	rt.once.Do(func() {
		close(rt.done)
		rt.goes.Wait()
		rt.scope.Close()
	})
}

// Clock returns the timestamp source.
func (rt *Runtime) Clock() Clock {
	return rt.clock
}

// SubscribeReceipts delivers every receipt, in execution order.
func (rt *Runtime) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

func (rt *Runtime) publishLoop() {
	for {
		select {
		case <-rt.done:
			return
		case r := <-rt.publish:
			rt.feed.Send(r)
		}
	}
}

// View runs fn against the latest committed state. Mutations made by fn are discarded.
func (rt *Runtime) View(fn func(p *program.Program) error) error {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	return fn(program.New(rt.stater.NewState()))
}

// Apply runs fn without signature checks and commits its mutations if it succeeds.
// It is meant for bootstrapping, e.g. applying the genesis.
func (rt *Runtime) Apply(fn func(p *program.Program) error) error {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	st := rt.stater.NewState()
	if err := fn(program.New(st)); err != nil {
		return err
	}
	return st.Stage().Commit()
}

// Execute runs a signed instruction. A nil receipt means the instruction was rejected and left no trace.
// A reverted instruction yields a receipt together with the revert error; its mutations are dropped
// but the receipt is kept, so it can't be replayed.
func (rt *Runtime) Execute(ix *instruction.Instruction) (*Receipt, error) {
	start := time.Now()
	defer func() {
		metricExecutionDuration().Observe(time.Since(start).Milliseconds())
	}()

	signer, err := ix.Signer()
	if err != nil {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Op().String(), "result": "rejected"})
		return nil, err
	}
	h, ok := handlers[ix.Op()]
	if !ok {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Op().String(), "result": "rejected"})
		return nil, errors.Wrapf(ErrUnknownOp, "%d", ix.Op())
	}
	id := ix.ID()

	rt.lock.Lock()
	defer rt.lock.Unlock()

	select {
	case <-rt.done:
		return nil, ErrClosed
	default:
	}
	known, err := rt.hasReceipt(id)
	if err != nil {
		return nil, err
	}
	if known {
		return nil, ErrKnownInstruction
	}

	now := rt.clock.Now()
	logger.Debug("executing instruction", "id", id, "op", ix.Op(), "signer", signer)

	st := rt.stater.NewState()
	p := program.New(st)
	checkpoint := st.NewCheckpoint()

	receipt := &Receipt{
		ID:     id,
		Op:     ix.Op(),
		Signer: signer,
		Time:   uint64(now),
	}
	execErr := h(p, signer, ix, now)
	if execErr != nil {
		if !reverts.IsRevertErr(execErr) {
			metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Op().String(), "result": "rejected"})
			logger.Info("instruction rejected", "id", id, "op", ix.Op(), "error", execErr)
			return nil, execErr
		}
		st.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.Code, _ = reverts.CodeOf(execErr)
		receipt.Error = execErr.Error()
	} else {
		receipt.Events = p.Events()
	}

	enc, err := rlp.EncodeToBytes(receipt)
	if err != nil {
		return nil, err
	}
	if err := st.Stage().CommitWith(func(putter kv.Putter) error {
		return receiptBucket.NewPutter(putter).Put(id[:], enc)
	}); err != nil {
		return nil, errors.Wrap(err, "commit")
	}
	_ = rt.cache.Set(id[:], enc)

	if receipt.Reverted {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Op().String(), "result": "reverted"})
		logger.Debug("instruction reverted", "id", id, "op", ix.Op(), "error", execErr)
	} else {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Op().String(), "result": "success"})
		logger.Debug("instruction executed", "id", id, "op", ix.Op(), "events", len(receipt.Events))
	}
	if rate, changed := rt.stater.CacheStats().Changed(); changed {
		metricStateCacheHitRate().Set(rate)
		logger.Debug("state cache hit rate", "permille", rate)
	}

	select {
	case rt.publish <- receipt:
	case <-rt.done:
	}
	return receipt, execErr
}

func (rt *Runtime) hasReceipt(id richie.Bytes32) (bool, error) {
	if rt.cache.AdvGet(id[:], func([]byte) {}, true) {
		return true, nil
	}
	return rt.receipts.Has(id[:])
}

// GetReceipt returns the receipt of instruction id, nil if unknown.
func (rt *Runtime) GetReceipt(id richie.Bytes32) (*Receipt, error) {
	var enc []byte
	if !rt.cache.AdvGet(id[:], func(val []byte) {
		enc = append([]byte(nil), val...)
	}, false) {
		val, err := rt.receipts.Get(id[:])
		if err != nil {
			if rt.receipts.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		enc = val
		_ = rt.cache.Set(id[:], enc)
	}

	var r Receipt
	if err := rlp.DecodeBytes(enc, &r); err != nil {
		return nil, errors.Wrap(err, "decode receipt")
	}
	return &r, nil
}

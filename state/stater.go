// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/cache"
	"github.com/richie-labs/richie/kv"
	"github.com/richie-labs/richie/richie"
)

const recordBucket = kv.Bucket("r")

// Stater is the state creator. It owns the committed records and their read cache.
type Stater struct {
	db    kv.Store
	store kv.Store
	cache *cache.LRU[richie.Address, []byte]
}

// NewStater create a new stater on top of the given store.
func NewStater(store kv.Store, cacheSize int) *Stater {
	c, err := cache.NewLRU[richie.Address, []byte](max(cacheSize, 16))
	if err != nil {
		panic(err) // size is always positive
	}
	return &Stater{
		db:    store,
		store: recordBucket.NewStore(store),
		cache: c,
	}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return newState(s)
}

// CacheStats returns the hit/miss stats of the record cache.
func (s *Stater) CacheStats() *cache.Stats {
	return s.cache.Stats()
}

// load implements stackedmap.MapGetter.
func (s *Stater) load(addr richie.Address) ([]byte, bool, error) {
	val, err := s.cache.GetOrLoad(addr, s.loadCommitted)
	if err != nil {
		return nil, false, err
	}
	return val, len(val) > 0, nil
}

func (s *Stater) loadCommitted(addr richie.Address) ([]byte, error) {
	enc, err := s.store.Get(addr[:])
	if err != nil {
		if s.store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load record")
	}
	val, err := snappy.Decode(nil, enc)
	if err != nil {
		return nil, errors.Wrap(err, "decode record")
	}
	return val, nil
}

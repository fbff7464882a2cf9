// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richie-labs/richie/lvldb"
	"github.com/richie-labs/richie/state"
)

func TestWindow(t *testing.T) {
	e := &Epoch{StakedStartTime: 1000, StakeDuration: 3600, StakedEndTime: 4600}

	tests := []struct {
		now      int64
		inWindow bool
		ended    bool
	}{
		{999, false, false},
		{1000, true, false},
		{4600, true, false},
		{4601, false, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.inWindow, e.InWindow(tt.now), "now %d", tt.now)
		assert.Equal(t, tt.ended, e.Ended(tt.now), "now %d", tt.now)
	}

	assert.Equal(t, int64(3600), e.AvailableTime(1000))
	assert.Equal(t, int64(0), e.AvailableTime(4600))
	assert.Equal(t, int64(1800), e.AvailableTime(2800))
}

func TestUndistributed(t *testing.T) {
	e := &Epoch{Reward: 100}
	assert.Equal(t, uint64(100), e.Undistributed())
	e.Distributed = 60
	assert.Equal(t, uint64(40), e.Undistributed())
	e.Distributed = 100
	assert.Equal(t, uint64(0), e.Undistributed())
}

func TestService(t *testing.T) {
	svc := New(state.NewStater(lvldb.NewMem(), 0).NewState())

	e, err := svc.Get(1)
	require.NoError(t, err)
	assert.Nil(t, e)

	exists, err := svc.Exists(1)
	require.NoError(t, err)
	assert.False(t, exists)

	want := &Epoch{
		Index:             1,
		StakedStartTime:   100,
		StakeDuration:     3600,
		StakedEndTime:     3700,
		Reward:            500,
		TotalCurve:        3_600_000,
		TotalStakedAmount: 1000,
		Claimable:         true,
		Distributed:       499,
	}
	require.NoError(t, svc.Set(want))

	got, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	other, err := svc.Get(2)
	require.NoError(t, err)
	assert.Nil(t, other)
}

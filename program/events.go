// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"encoding/json"
	"fmt"

	"github.com/richie-labs/richie/richie"
)

// EventKind discriminates events emitted by the program.
type EventKind uint8

const (
	EventInitialized EventKind = iota + 1
	EventRewardVaultInitialized
	EventConfigUpdated
	EventEpochOpened
	EventStaked
	EventRewardSettled
	EventWithdrawn
	EventClaimed
)

var eventNames = map[EventKind]string{
	EventInitialized:            "initialized",
	EventRewardVaultInitialized: "rewardVaultInitialized",
	EventConfigUpdated:          "configUpdated",
	EventEpochOpened:            "epochOpened",
	EventStaked:                 "staked",
	EventRewardSettled:          "rewardSettled",
	EventWithdrawn:              "withdrawn",
	EventClaimed:                "claimed",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

func (k EventKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *EventKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, ok := ParseEventKind(s)
	if !ok {
		return fmt.Errorf("unknown event kind %q", s)
	}
	*k = kind
	return nil
}

// ParseEventKind returns the kind named s.
func ParseEventKind(s string) (EventKind, bool) {
	for k, name := range eventNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Event records an effect of a successful operation.
type Event struct {
	Kind    EventKind      `json:"kind"`
	Account richie.Address `json:"account"` // the principal the event is about
	Epoch   uint64         `json:"epoch"`
	Amount  uint64         `json:"amount"`
	Penalty uint64         `json:"penalty"` // burned on early withdrawal
}

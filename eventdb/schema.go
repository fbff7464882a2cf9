// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// amounts are stored as the int64 reinterpretation of their uint64 value
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	instructionID BLOB(32) NOT NULL,
	eventIndex INTEGER NOT NULL,
	op TEXT NOT NULL,
	signer BLOB(20) NOT NULL,
	time INTEGER NOT NULL,
	kind TEXT NOT NULL,
	account BLOB(20) NOT NULL,
	epoch INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	penalty INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_event_instruction ON event(instructionID, eventIndex);
CREATE INDEX IF NOT EXISTS idx_event_account ON event(account);
CREATE INDEX IF NOT EXISTS idx_event_kind_epoch ON event(kind, epoch);
CREATE INDEX IF NOT EXISTS idx_event_time ON event(time);`

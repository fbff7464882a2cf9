// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb indexes program events in sqlite for querying.
package eventdb

import (
	"context"
	"database/sql"

	"github.com/ethereum/go-ethereum/event"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

var logger = log.WithContext("pkg", "eventdb")

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open event db at given path.
func New(path string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Close close the event db.
func (db *EventDB) Close() error {
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// Write indexes the events of a receipt. Reverted receipts carry no events.
func (db *EventDB) Write(ctx context.Context, r *runtime.Receipt) error {
	if r.Reverted || len(r.Events) == 0 {
		return nil
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO event(instructionID, eventIndex, op, signer, time, kind, account, epoch, amount, penalty)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ev := range r.Events {
		if _, err := stmt.ExecContext(ctx,
			r.ID.Bytes(),
			i,
			r.Op.String(),
			r.Signer.Bytes(),
			int64(r.Time),
			ev.Kind.String(),
			ev.Account.Bytes(),
			int64(ev.Epoch),
			int64(ev.Amount),
			int64(ev.Penalty),
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	return tx.Commit()
}

// ReceiptSource publishes receipts of executed instructions.
type ReceiptSource interface {
	SubscribeReceipts(ch chan *runtime.Receipt) event.Subscription
}

// Sync indexes every receipt published by src until ctx is done.
func (db *EventDB) Sync(ctx context.Context, src ReceiptSource) error {
	ch := make(chan *runtime.Receipt, 256)
	sub := src.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case r := <-ch:
			if err := db.Write(ctx, r); err != nil {
				logger.Warn("failed to index receipt", "id", r.ID, "error", err)
				continue
			}
			metricIndexedEvents().Add(int64(len(r.Events)))
		}
	}
}

// Filter returns the events matching filter.
func (db *EventDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	const query = "SELECT instructionID, eventIndex, op, signer, time, kind, account, epoch, amount, penalty FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}

	var args []any
	stmt := query + " WHERE 1"
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.Kind != nil {
		args = append(args, filter.Kind.String())
		stmt += " AND kind = ?"
	}
	if filter.Epoch != nil {
		args = append(args, int64(*filter.Epoch))
		stmt += " AND epoch = ?"
	}
	if filter.Range != nil {
		args = append(args, int64(filter.Range.From))
		stmt += " AND time >= ?"
		if filter.Range.To >= filter.Range.From && filter.Range.To > 0 {
			args = append(args, int64(filter.Range.To))
			stmt += " AND time <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *EventDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			instructionID []byte
			index         uint32
			op            string
			signer        []byte
			time          int64
			kind          string
			account       []byte
			epoch         int64
			amount        int64
			penalty       int64
		)
		if err := rows.Scan(
			&instructionID,
			&index,
			&op,
			&signer,
			&time,
			&kind,
			&account,
			&epoch,
			&amount,
			&penalty,
		); err != nil {
			return nil, err
		}
		parsedOp, err := instruction.ParseOp(op)
		if err != nil {
			return nil, err
		}
		parsedKind, ok := program.ParseEventKind(kind)
		if !ok {
			return nil, errors.Errorf("unknown event kind %q", kind)
		}
		events = append(events, &Event{
			InstructionID: richie.BytesToBytes32(instructionID),
			Index:         index,
			Op:            parsedOp,
			Signer:        richie.BytesToAddress(signer),
			Time:          uint64(time),
			Kind:          parsedKind,
			Account:       richie.BytesToAddress(account),
			Epoch:         uint64(epoch),
			Amount:        uint64(amount),
			Penalty:       uint64(penalty),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Code discriminates the kinds of revert.
type Code uint16

// ErrRevert is a protocol failure surfaced to the caller. It aborts the instruction.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Code returns the kind of the revert.
func (e *ErrRevert) Code() Code {
	return e.code
}

// Is reports whether target is a revert of the same kind.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// Wrap returns a revert of the same kind with extra context in the message.
func (e *ErrRevert) Wrap(detail string) *ErrRevert {
	return &ErrRevert{code: e.code, message: e.message + ": " + detail}
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the code of the revert in the chain of err.
func CodeOf(err error) (Code, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code, true
	}
	return 0, false
}

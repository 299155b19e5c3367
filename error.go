// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock reports that a non-blocking primitive cannot make progress
// right now: the channel buffer is full (send side) or empty (receive
// side). The channel itself is still viable. Sourced from
// [code.hybscloud.com/iox] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrNoChannel reports a channel id that is invalid, was never opened,
// was already closed, or became closed during a blocking wait.
var ErrNoChannel = errors.New("corobus: no such channel")

// ErrDeadlock reports a task that was still parked on a waiter queue when
// the scheduler ran out of runnable tasks. In a single-goroutine world no
// wakeup source remains for such a task.
var ErrDeadlock = errors.New("corobus: task deadlocked")

// IsWouldBlock reports whether err is the would-block boundary.
func IsWouldBlock(err error) bool { return errors.Is(err, ErrWouldBlock) }

// IsNoChannel reports whether err is the invalid-channel error.
func IsNoChannel(err error) bool { return errors.Is(err, ErrNoChannel) }

// Errno is the code recorded on the bus errno cell by every failing
// non-blocking primitive. A single cell per bus is sound because
// execution is cooperative: between suspension points nothing runs
// concurrently with the primitive that set it.
type Errno uint8

const (
	// ErrnoNone is the zero code; no primitive has failed yet.
	ErrnoNone Errno = iota
	// ErrnoNoChannel corresponds to ErrNoChannel.
	ErrnoNoChannel
	// ErrnoWouldBlock corresponds to ErrWouldBlock.
	ErrnoWouldBlock
)

// errnoOf maps a primitive error to its recorded code.
func errnoOf(err error) Errno {
	switch {
	case errors.Is(err, ErrNoChannel):
		return ErrnoNoChannel
	case errors.Is(err, ErrWouldBlock):
		return ErrnoWouldBlock
	}
	return ErrnoNone
}

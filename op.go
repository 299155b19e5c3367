// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"errors"

	"code.hybscloud.com/kont"
)

// busDispatcher is the structural interface for bus operations.
// DispatchBus is the non-blocking primitive: it returns ErrWouldBlock at
// the blocking boundary, recording on ctx the waiter queue to park on.
type busDispatcher interface {
	DispatchBus(ctx *dispatchContext) (kont.Resumed, error)
}

// dispatchContext carries the target bus and the park/yield outcome of
// one dispatch. park is set only alongside ErrWouldBlock; release names
// the channel slot to free after the turn requested by errYield.
type dispatchContext struct {
	bus     any
	park    *waiterQueue
	release int
}

// noRelease marks a dispatch with no deferred slot release.
const noRelease = -1

// errYield is the internal dispatch result asking the driver to give
// every currently-runnable task one turn before resuming this one.
var errYield = errors.New("corobus: yield")

// Send is the blocking send operation: Perform(Send[T]{Channel: ch,
// Value: v}) buffers v on ch, suspending while the channel is full.
// Resumes with struct{}; fails the task with ErrNoChannel if the channel
// is, or becomes, closed.
type Send[T any] struct {
	kont.Phantom[struct{}]
	Channel int
	Value   T
}

// DispatchBus handles Send. The closed check runs before every attempt,
// including retries after a wakeup, so a close during the wait is always
// observed before the buffer is. On success, a second pending sender is
// woken when capacity still allows it to pipeline through in the same
// turn — exactly one, the oldest.
func (s Send[T]) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(*Bus[T])
	ch := bus.channelAt(s.Channel)
	if ch == nil || ch.closed {
		return nil, bus.fail(ErrNoChannel)
	}
	if err := bus.TrySend(s.Channel, s.Value); err != nil {
		if IsWouldBlock(err) {
			ctx.park = &ch.senders
		}
		return nil, err
	}
	if !ch.senders.empty() && !ch.buf.full() {
		bus.wakeOne(&ch.senders)
	}
	return struct{}{}, nil
}

// Recv is the blocking receive operation: Perform(Recv[T]{Channel: ch})
// pops the oldest message from ch, suspending while the channel is
// empty. Resumes with the message; fails the task with ErrNoChannel if
// the channel is, or becomes, closed.
type Recv[T any] struct {
	kont.Phantom[T]
	Channel int
}

// DispatchBus handles Recv, the mirror of Send: on success a second
// pending receiver is woken when data remains — exactly one, the oldest.
func (r Recv[T]) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(*Bus[T])
	ch := bus.channelAt(r.Channel)
	if ch == nil || ch.closed {
		return nil, bus.fail(ErrNoChannel)
	}
	v, err := bus.TryRecv(r.Channel)
	if err != nil {
		if IsWouldBlock(err) {
			ctx.park = &ch.receivers
		}
		return nil, err
	}
	if !ch.receivers.empty() && ch.buf.len() > 0 {
		bus.wakeOne(&ch.receivers)
	}
	return v, nil
}

// Close closes a channel from inside a protocol. The channel is marked
// closed, every waiter on both queues is woken in FIFO order, and the
// slot is released only after one yielded turn, so every woken task
// reads the closed flag before the storage goes away. No-op for unknown
// or already-closing ids. Resumes with struct{}; never fails.
type Close struct {
	kont.Phantom[struct{}]
	Channel int
}

// DispatchBus handles Close via the notify→yield→free protocol.
func (c Close) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(busAdmin)
	if !bus.closeBegin(c.Channel) {
		return struct{}{}, nil
	}
	ctx.release = c.Channel
	return nil, errYield
}

// Yield gives every currently-runnable task one scheduling turn before
// this one resumes. Resumes with struct{}; never fails.
type Yield struct {
	kont.Phantom[struct{}]
}

// DispatchBus handles Yield. The driver rotates the task to the back of
// the run queue.
func (Yield) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	return nil, errYield
}

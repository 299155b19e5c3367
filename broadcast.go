// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// TryBroadcast pushes v to every open, non-closed channel, all or
// nothing. ErrNoChannel when no such channel exists; ErrWouldBlock when
// any target is currently full, in which case nothing is written
// anywhere. One waiting receiver per written channel is woken.
func (b *Bus[T]) TryBroadcast(v T) error {
	alive := false
	for _, ch := range b.channels {
		if ch == nil || ch.closed {
			continue
		}
		alive = true
		if ch.buf.full() {
			return b.fail(ErrWouldBlock)
		}
	}
	if !alive {
		return b.fail(ErrNoChannel)
	}
	for _, ch := range b.channels {
		if ch == nil || ch.closed {
			continue
		}
		ch.buf.push(v)
		b.wakeOne(&ch.receivers)
	}
	return nil
}

// fullChannel returns the first open, non-closed channel that is
// currently full, in slot order.
func (b *Bus[T]) fullChannel() *channel[T] {
	for _, ch := range b.channels {
		if ch != nil && !ch.closed && ch.buf.full() {
			return ch
		}
	}
	return nil
}

// Broadcast is the blocking all-or-nothing broadcast operation:
// Perform(Broadcast[T]{Value: v}) delivers v to every open channel.
// While some target is full the task parks on that channel's sender
// queue; a wakeup there — space freed or channel closed — triggers a
// full retry against all open channels. Resumes with struct{}; fails
// with ErrNoChannel once no open channel remains.
type Broadcast[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchBus handles Broadcast. On success, every channel with pending
// senders and free room gets its oldest sender woken.
func (o Broadcast[T]) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(*Bus[T])
	if err := bus.TryBroadcast(o.Value); err != nil {
		if IsWouldBlock(err) {
			// No park target despite the would-block result is a
			// transient inconsistency; fail the operation instead of
			// suspending with no wakeup path.
			if ch := bus.fullChannel(); ch != nil {
				ctx.park = &ch.senders
			}
		}
		return nil, err
	}
	for _, ch := range bus.channels {
		if ch != nil && !ch.senders.empty() && !ch.buf.full() {
			bus.wakeOne(&ch.senders)
		}
	}
	return struct{}{}, nil
}

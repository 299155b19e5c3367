// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// TrySendBatch appends as many of vs as fit to the channel's buffer, in
// order, stopping at capacity, and returns the count written. A partial
// write is success, not an error; only an already-full buffer reports
// ErrWouldBlock. One waiting receiver is woken.
func (b *Bus[T]) TrySendBatch(id int, vs []T) (int, error) {
	ch := b.channelAt(id)
	if ch == nil {
		return 0, b.fail(ErrNoChannel)
	}
	if ch.buf.full() {
		return 0, b.fail(ErrWouldBlock)
	}
	n := 0
	for n < len(vs) && !ch.buf.full() {
		ch.buf.push(vs[n])
		n++
	}
	b.wakeOne(&ch.receivers)
	return n, nil
}

// TryRecvBatch pops up to limit messages from the channel in FIFO order
// and returns them. A partial read is success; only a genuinely empty
// buffer reports ErrWouldBlock. One waiting sender is woken.
func (b *Bus[T]) TryRecvBatch(id, limit int) ([]T, error) {
	ch := b.channelAt(id)
	if ch == nil {
		return nil, b.fail(ErrNoChannel)
	}
	if ch.buf.len() == 0 {
		return nil, b.fail(ErrWouldBlock)
	}
	if limit > ch.buf.len() {
		limit = ch.buf.len()
	}
	out := make([]T, 0, max(limit, 0))
	for len(out) < limit {
		out = append(out, ch.buf.pop())
	}
	b.wakeOne(&ch.senders)
	return out, nil
}

// SendBatch is the blocking vectored send: suspends only while the
// buffer is completely full, then writes as many of Values as fit.
// Resumes with the count written (int); fails the task with
// ErrNoChannel if the channel is, or becomes, closed.
type SendBatch[T any] struct {
	kont.Phantom[int]
	Channel int
	Values  []T
}

// DispatchBus handles SendBatch with the same closed check and
// same-side extra wakeup as Send.
func (o SendBatch[T]) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(*Bus[T])
	ch := bus.channelAt(o.Channel)
	if ch == nil || ch.closed {
		return nil, bus.fail(ErrNoChannel)
	}
	n, err := bus.TrySendBatch(o.Channel, o.Values)
	if err != nil {
		if IsWouldBlock(err) {
			ctx.park = &ch.senders
		}
		return nil, err
	}
	if !ch.senders.empty() && !ch.buf.full() {
		bus.wakeOne(&ch.senders)
	}
	return n, nil
}

// RecvBatch is the blocking vectored receive: suspends only while the
// buffer is empty, then drains up to Limit messages in FIFO order.
// Resumes with the messages ([]T); fails the task with ErrNoChannel if
// the channel is, or becomes, closed.
type RecvBatch[T any] struct {
	kont.Phantom[[]T]
	Channel int
	Limit   int
}

// DispatchBus handles RecvBatch, the mirror of SendBatch.
func (o RecvBatch[T]) DispatchBus(ctx *dispatchContext) (kont.Resumed, error) {
	bus := ctx.bus.(*Bus[T])
	ch := bus.channelAt(o.Channel)
	if ch == nil || ch.closed {
		return nil, bus.fail(ErrNoChannel)
	}
	vs, err := bus.TryRecvBatch(o.Channel, o.Limit)
	if err != nil {
		if IsWouldBlock(err) {
			ctx.park = &ch.receivers
		}
		return nil, err
	}
	if !ch.receivers.empty() && ch.buf.len() > 0 {
		bus.wakeOne(&ch.receivers)
	}
	return vs, nil
}

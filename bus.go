// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

// Bus is an indexed, growable registry of bounded channels. Slot indices
// are stable for the lifetime of an open channel; a released slot is
// reused by the next Open, lowest index first.
//
// A Bus is confined to a single goroutine. All mutation of channel
// buffers and waiter queues happens synchronously inside the
// non-blocking primitives; the blocking layer only sequences around
// suspension points, so no locking is required.
type Bus[T any] struct {
	channels []*channel[T]
	errno    Errno
	waker    waker
}

// waker is the scheduler half of the wakeup contract: marking a
// suspended task runnable again. Idempotent for tasks already runnable.
type waker interface {
	markRunnable(*task)
}

// busAdmin is the message-type-independent slice of Bus consumed by
// operations that do not carry T (Close, Yield) and by the Scheduler.
type busAdmin interface {
	closeBegin(id int) bool
	release(id int)
	bindWaker(w waker)
}

// channel is one bounded FIFO slot of a Bus: an exact-capacity message
// buffer, one waiter queue per blocked condition, and a monotonic
// closed flag. A channel is owned exclusively by its Bus slot.
type channel[T any] struct {
	buf       ring[T]
	senders   waiterQueue // tasks waiting until the channel is not full
	receivers waiterQueue // tasks waiting until the channel is not empty
	closed    bool        // monotonic: false→true only
}

// ring is an exact-capacity FIFO buffer. lfq is deliberately not used
// here: it rounds capacities up to powers of two with a minimum of 2 and
// has no length query, while channel capacities are exact and may be 0.
type ring[T any] struct {
	items []T
	head  int
	n     int
}

func (r *ring[T]) push(v T) {
	r.items[(r.head+r.n)%len(r.items)] = v
	r.n++
}

func (r *ring[T]) pop() T {
	v := r.items[r.head]
	var zero T
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.n--
	return v
}

func (r *ring[T]) len() int   { return r.n }
func (r *ring[T]) full() bool { return r.n == len(r.items) }

// waiterQueue is a FIFO of suspended tasks blocked on one channel
// condition. Admission at the tail, service from the head.
type waiterQueue struct {
	tasks []*task
}

func (q *waiterQueue) empty() bool { return len(q.tasks) == 0 }

func (q *waiterQueue) push(t *task) {
	t.wq = q
	q.tasks = append(q.tasks, t)
}

func (q *waiterQueue) pop() *task {
	if len(q.tasks) == 0 {
		return nil
	}
	t := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	t.wq = nil
	return t
}

func (q *waiterQueue) remove(t *task) {
	for i, w := range q.tasks {
		if w == t {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			t.wq = nil
			return
		}
	}
}

// NewBus creates an empty bus with no channels.
func NewBus[T any]() *Bus[T] { return &Bus[T]{} }

// Errno returns the code recorded by the last failing non-blocking
// primitive on this bus. Successful primitives leave the cell untouched.
func (b *Bus[T]) Errno() Errno { return b.errno }

// SetErrno overwrites the recorded error code.
func (b *Bus[T]) SetErrno(code Errno) { b.errno = code }

// fail records err on the errno cell and returns it.
func (b *Bus[T]) fail(err error) error {
	b.errno = errnoOf(err)
	return err
}

// Open allocates a channel holding at most capacity messages and returns
// its id. The lowest free slot is reused before the slot vector grows.
// Open never fails; a negative capacity is a programming error.
func (b *Bus[T]) Open(capacity int) int {
	if capacity < 0 {
		panic("corobus: negative channel capacity")
	}
	ch := &channel[T]{buf: ring[T]{items: make([]T, capacity)}}
	for i, slot := range b.channels {
		if slot == nil {
			b.channels[i] = ch
			return i
		}
	}
	b.channels = append(b.channels, ch)
	return len(b.channels) - 1
}

// channelAt resolves an id to its channel, nil when absent.
func (b *Bus[T]) channelAt(id int) *channel[T] {
	if id < 0 || id >= len(b.channels) {
		return nil
	}
	return b.channels[id]
}

// TrySend appends v to the channel's buffer without blocking.
// ErrNoChannel for an unknown id; ErrWouldBlock when the buffer is at
// capacity. On success the oldest waiting receiver is woken — exactly
// one, even if several messages became available.
func (b *Bus[T]) TrySend(id int, v T) error {
	ch := b.channelAt(id)
	if ch == nil {
		return b.fail(ErrNoChannel)
	}
	if ch.buf.full() {
		return b.fail(ErrWouldBlock)
	}
	ch.buf.push(v)
	b.wakeOne(&ch.receivers)
	return nil
}

// TryRecv pops the channel's oldest message without blocking.
// ErrNoChannel for an unknown id; ErrWouldBlock when the buffer is
// empty. On success the oldest waiting sender is woken — exactly one.
func (b *Bus[T]) TryRecv(id int) (T, error) {
	var zero T
	ch := b.channelAt(id)
	if ch == nil {
		return zero, b.fail(ErrNoChannel)
	}
	if ch.buf.len() == 0 {
		return zero, b.fail(ErrWouldBlock)
	}
	v := ch.buf.pop()
	b.wakeOne(&ch.senders)
	return v, nil
}

// wakeOne marks the queue's oldest waiter runnable, if any.
func (b *Bus[T]) wakeOne(q *waiterQueue) {
	if t := q.pop(); t != nil {
		b.waker.markRunnable(t)
	}
}

// wakeAll marks every waiter runnable in FIFO order, draining the queue.
func (b *Bus[T]) wakeAll(q *waiterQueue) {
	for t := q.pop(); t != nil; t = q.pop() {
		b.waker.markRunnable(t)
	}
}

// closeBegin marks the channel closed and wakes every waiter on both
// queues. Reports whether this call initiated the close; the initiator
// is then responsible for releasing the slot after a scheduling turn.
func (b *Bus[T]) closeBegin(id int) bool {
	ch := b.channelAt(id)
	if ch == nil || ch.closed {
		return false
	}
	ch.closed = true
	b.wakeAll(&ch.senders)
	b.wakeAll(&ch.receivers)
	return true
}

// release frees a closed channel's slot for reuse.
func (b *Bus[T]) release(id int) {
	if ch := b.channelAt(id); ch != nil && ch.closed {
		b.channels[id] = nil
	}
}

func (b *Bus[T]) bindWaker(w waker) { b.waker = w }

// CloseChannel closes a channel directly, outside any protocol. No-op
// for unknown or already-closed ids. Waiters are woken first and observe
// an absent slot on their next turn, which reports ErrNoChannel exactly
// like the closed flag would. Within a protocol use the Close operation,
// which defers the release until every woken waiter had a turn.
func (b *Bus[T]) CloseChannel(id int) {
	if b.closeBegin(id) {
		b.release(id)
	}
}

// Close tears down the bus, closing every still-open channel in index
// order and releasing the slot vector.
func (b *Bus[T]) Close() {
	for id := range b.channels {
		b.CloseChannel(id)
	}
	b.channels = nil
}

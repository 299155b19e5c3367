// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// schedulerCapacity bounds the number of live tasks per scheduler.
// The run queue is a fixed lfq SPSC ring sized to this limit, so a
// runnable task can always be admitted without allocating.
const schedulerCapacity = 1024

type taskState uint8

const (
	stateReady taskState = iota
	stateWaiting
	stateDone
)

// task is one spawned protocol computation with its pending suspension.
// A task is parked on at most one waiter queue at a time; the queue
// entry is created when it blocks and consumed when it is woken, so no
// entry ever outlives the suspension that registered it.
type task struct {
	serial  Serial
	susp    *kont.Suspension[kont.Erased]
	state   taskState
	wq      *waiterQueue
	yielded bool
	release int // channel slot to free after a yielded turn
	result  kont.Erased
	err     error
}

// Scheduler drives spawned tasks round-robin over a FIFO run queue,
// entirely on the calling goroutine. Control transfers only at
// operation boundaries: a task runs until its next operation suspends,
// parks, or completes.
type Scheduler struct {
	admin busAdmin
	bus   any // the *Bus[T], handed to DispatchBus
	ready *lfq.SPSC[*task]
	tasks []*task
	live  int
}

// NewScheduler creates a scheduler bound to bus. Wakeups issued by bus
// primitives are routed back to this scheduler's run queue.
func NewScheduler[T any](bus *Bus[T]) *Scheduler {
	s := &Scheduler{
		admin: bus,
		bus:   bus,
		ready: lfq.NewSPSC[*task](schedulerCapacity),
	}
	bus.bindWaker(s)
	return s
}

// markRunnable implements the wakeup half of the scheduler contract.
// Resumption is a hint: the woken task re-dispatches its operation from
// scratch and may park again. Safe to call for a task already runnable.
func (s *Scheduler) markRunnable(t *task) {
	if t.state != stateWaiting {
		return
	}
	t.state = stateReady
	s.push(t)
}

func (s *Scheduler) push(t *task) {
	if err := s.ready.Enqueue(&t); err != nil {
		panic("corobus: run queue overflow")
	}
}

// Handle is the typed view of a spawned task.
type Handle[R any] struct {
	t *task
}

// Serial returns the task's serial number.
func (h *Handle[R]) Serial() Serial { return h.t.serial }

// Done reports whether the task has finished.
func (h *Handle[R]) Done() bool { return h.t.state == stateDone }

// Result returns the task's outcome: its protocol result, or
// ErrNoChannel when a blocking operation hit a closed channel, or
// ErrDeadlock when the scheduler gave up on a permanently parked task.
// Panics if the task has not finished.
func (h *Handle[R]) Result() (R, error) {
	if h.t.state != stateDone {
		panic("corobus: task not finished")
	}
	var zero R
	if h.t.err != nil {
		return zero, h.t.err
	}
	if r, ok := h.t.result.(R); ok {
		return r, nil
	}
	return zero, nil
}

// Spawn admits a Cont-world protocol as a new runnable task.
func Spawn[R any](s *Scheduler, protocol kont.Eff[R]) *Handle[R] {
	return SpawnExpr(s, Reify(protocol))
}

// SpawnExpr admits an Expr-world protocol as a new runnable task and
// returns its handle. The pure prefix up to the first operation runs
// immediately. Panics when the scheduler is at capacity.
func SpawnExpr[R any](s *Scheduler, protocol kont.Expr[R]) *Handle[R] {
	if s.live == schedulerCapacity {
		panic("corobus: scheduler at capacity")
	}
	erased := kont.ExprMap(protocol, func(r R) kont.Erased { return kont.Erased(r) })
	t := &task{serial: nextSerial(), release: noRelease}
	result, susp := kont.StepExpr(erased)
	if susp == nil {
		t.result = result
		t.state = stateDone
		return &Handle[R]{t: t}
	}
	t.susp = susp
	s.tasks = append(s.tasks, t)
	s.live++
	s.push(t)
	return &Handle[R]{t: t}
}

// Run drives tasks until none is runnable: every task completed, or the
// remainder are parked with no peer left to wake them. Parked leftovers
// can never resume in a single-goroutine world, so they are unlinked
// from their waiter queues and finished with ErrDeadlock.
func (s *Scheduler) Run() {
	for {
		t, err := s.ready.Dequeue()
		if err != nil {
			break
		}
		s.step(t)
	}
	if s.live > 0 {
		s.abandonParked()
	}
}

// step gives one task one scheduling turn.
func (s *Scheduler) step(t *task) {
	if t.yielded {
		t.yielded = false
		if t.release != noRelease {
			s.admin.release(t.release)
			t.release = noRelease
		}
		s.resume(t, struct{}{})
		return
	}
	d, ok := t.susp.Op().(busDispatcher)
	if !ok {
		panic("corobus: unhandled effect in scheduler")
	}
	ctx := dispatchContext{bus: s.bus, release: noRelease}
	v, err := d.DispatchBus(&ctx)
	switch {
	case err == nil:
		s.resume(t, v)
	case err == errYield:
		// Behind every task runnable right now, including waiters the
		// dispatch just woke.
		t.yielded = true
		t.release = ctx.release
		s.push(t)
	case IsWouldBlock(err) && ctx.park != nil:
		t.state = stateWaiting
		ctx.park.push(t)
	default:
		t.susp.Discard()
		s.finish(t, nil, err)
	}
}

func (s *Scheduler) resume(t *task, v kont.Resumed) {
	result, next := t.susp.Resume(v)
	if next == nil {
		s.finish(t, result, nil)
		return
	}
	t.susp = next
	t.state = stateReady
	s.push(t)
}

func (s *Scheduler) finish(t *task, result kont.Erased, err error) {
	t.result = result
	t.err = err
	t.state = stateDone
	t.susp = nil
	s.live--
}

func (s *Scheduler) abandonParked() {
	for _, t := range s.tasks {
		if t.state != stateWaiting {
			continue
		}
		if t.wq != nil {
			t.wq.remove(t)
		}
		t.susp.Discard()
		s.finish(t, nil, ErrDeadlock)
	}
}

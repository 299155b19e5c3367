// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package corobus provides a bounded multi-producer/multi-consumer message
// bus for cooperatively scheduled protocol tasks, built on algebraic effects
// from [code.hybscloud.com/kont].
//
// A [Bus] owns a growable set of independently closable, capacity-limited
// channels addressed by integer id. Tasks send and receive messages through
// them, suspending when a channel is full or empty and resuming when
// capacity frees up or a peer closes the channel.
//
// # Architecture
//
//   - Registry: [Bus] holds channels in an index-stable slot vector; a
//     closed slot is released and reused by the next [Bus.Open], lowest
//     index first.
//   - Non-blocking core: [Bus.TrySend], [Bus.TryRecv], [Bus.TryBroadcast],
//     [Bus.TrySendBatch], [Bus.TryRecvBatch] return
//     [code.hybscloud.com/iox.ErrWouldBlock] on backpressure and record a
//     code on the per-bus errno cell ([Bus.Errno]).
//   - Blocking layer: [Send], [Recv], [Broadcast], [SendBatch], [RecvBatch],
//     [Close] and [Yield] are effect operations dispatched on a bus. The
//     [Scheduler] parks a task on the channel's FIFO waiter queue at the
//     would-block boundary and re-dispatches it when a peer operation wakes
//     it. Wakeups are hints, not proofs: a woken task rechecks from scratch.
//   - Close protocol: closing a channel wakes every waiter on both queues,
//     yields one scheduling turn so each observes the closed flag, and only
//     then releases the slot.
//
// # API Topologies
//
//   - Operations: [Send], [Recv], [Close], [Yield], plus the capability
//     operations [Broadcast] (all-or-nothing fan-out) and
//     [SendBatch]/[RecvBatch] (partial-fill vectored transfer).
//   - Cont-world: [SendThen], [RecvBind], [CloseThen], [CloseDone],
//     [YieldThen], [BroadcastThen], [SendBatchBind], [RecvBatchBind].
//   - Expr-world: zero-allocation variants [ExprSendThen], [ExprRecvBind],
//     [ExprCloseDone], [ExprYieldThen]. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop] and [ExprLoop] for trampoline-based message pumps.
//
// # Integration
//
//   - Scheduling: [NewScheduler], [Spawn] and [Scheduler.Run] drive any
//     number of tasks round-robin on the calling goroutine. No goroutines
//     are spawned and no Go channels are created.
//   - Stepping: [Step] and [Advance] evaluate a single protocol one
//     operation at a time for external drivers.
//   - Blocking: [Exec] and [ExecExpr] wait past the would-block boundary
//     using adaptive backoff.
//
// # Errors
//
// Operations fail with exactly two errors: [ErrNoChannel] (unknown or
// closed channel id) and [ErrWouldBlock] (condition not currently
// satisfiable; blocking operations absorb it by suspending). Blocking
// operations only ever surface [ErrNoChannel].
//
// # Example
//
//	bus := corobus.NewBus[uint32]()
//	ch := bus.Open(1)
//
//	producer := corobus.SendThen(ch, uint32(42), corobus.CloseDone(ch, struct{}{}))
//	consumer := corobus.RecvBind(ch, func(v uint32) kont.Eff[uint32] {
//		return kont.Pure(v)
//	})
//
//	_, got := corobus.Run[struct{}, uint32](bus, producer, consumer)
//	// got == Right(42)
package corobus

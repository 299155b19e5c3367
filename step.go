// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a protocol until the first operation suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended bus operation once.
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next operation or completion. On ErrWouldBlock the
// suspension is unconsumed and may be retried after another party makes
// progress. ErrNoChannel is terminal; the caller decides whether to
// discard the rest of the protocol.
//
// Yielding operations (Close, Yield) complete inline: without a
// scheduler there is no other runnable task to give a turn to, and a
// close releases its slot immediately.
func Advance[T, R any](bus *Bus[T], susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	d, ok := susp.Op().(busDispatcher)
	if !ok {
		panic("corobus: unhandled effect in Advance")
	}
	ctx := dispatchContext{bus: bus, release: noRelease}
	v, err := d.DispatchBus(&ctx)
	if err == errYield {
		if ctx.release != noRelease {
			bus.release(ctx.release)
		}
		v, err = struct{}{}, nil
	}
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}

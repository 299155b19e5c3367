// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// Run creates a scheduler on bus, runs both Cont-world protocols as
// tasks to completion, and returns both outcomes — Right on success,
// Left with ErrNoChannel or ErrDeadlock on failure. Interleaves
// execution on the calling goroutine; does not spawn goroutines or
// create channels.
func Run[A, B, T any](bus *Bus[T], a kont.Eff[A], b kont.Eff[B]) (kont.Either[error, A], kont.Either[error, B]) {
	return RunExpr[A, B](bus, Reify(a), Reify(b))
}

// RunExpr creates a scheduler on bus, runs both Expr-world protocols as
// tasks to completion, and returns both outcomes. Interleaves execution
// on the calling goroutine; does not spawn goroutines or create
// channels.
func RunExpr[A, B, T any](bus *Bus[T], a kont.Expr[A], b kont.Expr[B]) (kont.Either[error, A], kont.Either[error, B]) {
	s := NewScheduler(bus)
	ha := SpawnExpr(s, a)
	hb := SpawnExpr(s, b)
	s.Run()
	return outcome(ha), outcome(hb)
}

// outcome folds a finished handle into an Either.
func outcome[R any](h *Handle[R]) kont.Either[error, R] {
	r, err := h.Result()
	if err != nil {
		return kont.Left[error, R](err)
	}
	return kont.Right[error](r)
}

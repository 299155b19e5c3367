// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Exec evaluates a Cont-world protocol against bus on the calling
// goroutine, waiting past the would-block boundary with adaptive
// backoff (iox.Backoff). ErrNoChannel discards the rest of the protocol
// and is returned. Intended for protocols whose operations can always
// eventually proceed, such as sends within capacity; a genuinely
// blocked operation has no peer to unblock it here.
func Exec[T, R any](bus *Bus[T], protocol kont.Eff[R]) (R, error) {
	return ExecExpr(bus, Reify(protocol))
}

// ExecExpr is the Expr-world variant of Exec.
func ExecExpr[T, R any](bus *Bus[T], protocol kont.Expr[R]) (R, error) {
	result, susp := Step(protocol)
	var bo iox.Backoff
	for susp != nil {
		var err error
		result, susp, err = Advance(bus, susp)
		switch {
		case err == nil:
			bo.Reset()
		case IsWouldBlock(err):
			bo.Wait()
		default:
			susp.Discard()
			var zero R
			return zero, err
		}
	}
	return result, nil
}

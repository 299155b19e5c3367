// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world
// execution.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprYield       kont.Erased = Yield{}
)

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSendThen sends v on ch and then continues with next.
// Fuses ExprPerform(Send[T]{...}) + ExprThen.
func ExprSendThen[T, B any](ch int, v T, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send[T]{Channel: ch, Value: v}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives a message from ch and passes it to f.
// Fuses ExprPerform(Recv[T]{...}) + ExprBind.
func ExprRecvBind[T, B any](ch int, f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv[T]{Channel: ch}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes ch and returns a.
// Fuses ExprPerform(Close{...}) + ExprThen + ExprReturn.
func ExprCloseDone[A any](ch int, a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Close{Channel: ch}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}

// ExprYieldThen gives every currently-runnable task one turn and then
// continues with next. Fuses ExprPerform(Yield{}) + ExprThen.
func ExprYieldThen[B any](next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprYield
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

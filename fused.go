// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus

import (
	"code.hybscloud.com/kont"
)

// SendThen sends v on channel ch and then continues with next.
// Fuses Perform(Send[T]{...}) + Then.
func SendThen[T, B any](ch int, v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send[T]{Channel: ch, Value: v}), next)
}

// RecvBind receives a message from ch and passes it to f.
// Fuses Perform(Recv[T]{...}) + Bind.
func RecvBind[T, B any](ch int, f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{Channel: ch}), f)
}

// CloseThen closes ch and continues with next.
// Fuses Perform(Close{...}) + Then.
func CloseThen[B any](ch int, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Close{Channel: ch}), next)
}

// CloseDone closes ch and returns a.
// Fuses Perform(Close{...}) + Then + Pure.
func CloseDone[A any](ch int, a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{Channel: ch}), kont.Pure(a))
}

// YieldThen gives every currently-runnable task one turn and then
// continues with next. Fuses Perform(Yield{}) + Then.
func YieldThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Yield{}), next)
}

// BroadcastThen delivers v to every open channel and then continues
// with next. Fuses Perform(Broadcast[T]{...}) + Then.
func BroadcastThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Broadcast[T]{Value: v}), next)
}

// SendBatchBind sends as many of vs as fit on ch and passes the count
// written to f. Fuses Perform(SendBatch[T]{...}) + Bind.
func SendBatchBind[T, B any](ch int, vs []T, f func(int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(SendBatch[T]{Channel: ch, Values: vs}), f)
}

// RecvBatchBind receives up to limit messages from ch and passes them
// to f. Fuses Perform(RecvBatch[T]{...}) + Bind.
func RecvBatchBind[T, B any](ch, limit int, f func([]T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(RecvBatch[T]{Channel: ch, Limit: limit}), f)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus_test

import (
	"testing"

	"code.hybscloud.com/corobus"
	"code.hybscloud.com/kont"
)

func BenchmarkSendRecv(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		bus := corobus.NewBus[uint32]()
		ch := bus.Open(1)
		sender := corobus.SendThen(ch, uint32(1), kont.Pure(struct{}{}))
		receiver := corobus.RecvBind(ch, func(v uint32) kont.Eff[uint32] {
			return kont.Pure(v)
		})
		_, got := corobus.Run[struct{}, uint32](bus, sender, receiver)
		if !got.IsRight() {
			b.Fatalf("receiver failed: %v", got)
		}
	}
}

func BenchmarkExprSendRecv(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		bus := corobus.NewBus[uint32]()
		ch := bus.Open(1)
		sender := corobus.ExprSendThen(ch, uint32(1), kont.ExprReturn(struct{}{}))
		receiver := corobus.ExprRecvBind(ch, func(v uint32) kont.Expr[uint32] {
			return kont.ExprReturn(v)
		})
		_, got := corobus.RunExpr[struct{}, uint32](bus, sender, receiver)
		if !got.IsRight() {
			b.Fatalf("receiver failed: %v", got)
		}
	}
}

func BenchmarkPipelinedSenders(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		bus := corobus.NewBus[uint32]()
		ch := bus.Open(2)
		bus.TrySend(ch, 1)
		bus.TrySend(ch, 2)
		s := corobus.NewScheduler(bus)
		corobus.Spawn(s, corobus.SendThen(ch, uint32(3), kont.Pure(struct{}{})))
		corobus.Spawn(s, corobus.SendThen(ch, uint32(4), kont.Pure(struct{}{})))
		corobus.Spawn(s, corobus.RecvBatchBind(ch, 2, func(vs []uint32) kont.Eff[int] {
			return kont.Pure(len(vs))
		}))
		s.Run()
	}
}

func BenchmarkTrySendRecv(b *testing.B) {
	bus := corobus.NewBus[uint32]()
	ch := bus.Open(1)
	b.ReportAllocs()
	for b.Loop() {
		if err := bus.TrySend(ch, 1); err != nil {
			b.Fatalf("send: %v", err)
		}
		if _, err := bus.TryRecv(ch); err != nil {
			b.Fatalf("recv: %v", err)
		}
	}
}

func BenchmarkTryBroadcast(b *testing.B) {
	bus := corobus.NewBus[uint32]()
	ids := make([]int, 8)
	for i := range ids {
		ids[i] = bus.Open(1)
	}
	b.ReportAllocs()
	for b.Loop() {
		if err := bus.TryBroadcast(1); err != nil {
			b.Fatalf("broadcast: %v", err)
		}
		for _, id := range ids {
			if _, err := bus.TryRecv(id); err != nil {
				b.Fatalf("drain: %v", err)
			}
		}
	}
}

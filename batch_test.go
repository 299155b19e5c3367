// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus_test

import (
	"reflect"
	"testing"

	"code.hybscloud.com/corobus"
	"code.hybscloud.com/kont"
)

func TestTrySendBatchPartialFill(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	ch := bus.Open(3)

	n, err := bus.TrySendBatch(ch, []uint32{1, 2, 3, 4, 5})
	if err != nil || n != 3 {
		t.Fatalf("batch send got (%d, %v), want (3, nil)", n, err)
	}
	vs, err := bus.TryRecvBatch(ch, 10)
	if err != nil || !reflect.DeepEqual(vs, []uint32{1, 2, 3}) {
		t.Fatalf("drain got (%v, %v), want ([1 2 3], nil)", vs, err)
	}

	// A full buffer is the only failing case.
	if _, err := bus.TrySendBatch(ch, []uint32{6, 7, 8}); err != nil {
		t.Fatalf("refill: %v", err)
	}
	if n, err := bus.TrySendBatch(ch, []uint32{9}); !corobus.IsWouldBlock(err) || n != 0 {
		t.Fatalf("send on full got (%d, %v), want (0, ErrWouldBlock)", n, err)
	}
}

func TestTryRecvBatchDrainsInOrder(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	ch := bus.Open(4)
	if _, err := bus.TrySendBatch(ch, []uint32{1, 2, 3}); err != nil {
		t.Fatalf("fill: %v", err)
	}

	vs, err := bus.TryRecvBatch(ch, 2)
	if err != nil || !reflect.DeepEqual(vs, []uint32{1, 2}) {
		t.Fatalf("first batch got (%v, %v), want ([1 2], nil)", vs, err)
	}
	vs, err = bus.TryRecvBatch(ch, 2)
	if err != nil || !reflect.DeepEqual(vs, []uint32{3}) {
		t.Fatalf("second batch got (%v, %v), want ([3], nil)", vs, err)
	}
	if _, err := bus.TryRecvBatch(ch, 2); !corobus.IsWouldBlock(err) {
		t.Fatalf("recv on empty got %v, want ErrWouldBlock", err)
	}
}

func TestBatchUnknownChannel(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	if _, err := bus.TrySendBatch(0, []uint32{1}); !corobus.IsNoChannel(err) {
		t.Fatalf("batch send got %v, want ErrNoChannel", err)
	}
	if _, err := bus.TryRecvBatch(0, 1); !corobus.IsNoChannel(err) {
		t.Fatalf("batch recv got %v, want ErrNoChannel", err)
	}
}

func TestBatchProducerConsumer(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	ch := bus.Open(2)

	// The producer pushes its remainder in vectored chunks until the
	// payload is drained; the consumer pulls at most two per turn.
	payload := []uint32{1, 2, 3, 4, 5}
	producer := corobus.Loop(payload, func(rest []uint32) kont.Eff[kont.Either[[]uint32, struct{}]] {
		if len(rest) == 0 {
			return kont.Pure(kont.Right[[]uint32, struct{}](struct{}{}))
		}
		return corobus.SendBatchBind(ch, rest, func(n int) kont.Eff[kont.Either[[]uint32, struct{}]] {
			return kont.Pure(kont.Left[[]uint32, struct{}](rest[n:]))
		})
	})
	consumer := corobus.Loop(make([]uint32, 0, len(payload)), func(acc []uint32) kont.Eff[kont.Either[[]uint32, []uint32]] {
		if len(acc) == len(payload) {
			return kont.Pure(kont.Right[[]uint32, []uint32](acc))
		}
		return corobus.RecvBatchBind(ch, 2, func(vs []uint32) kont.Eff[kont.Either[[]uint32, []uint32]] {
			return kont.Pure(kont.Left[[]uint32, []uint32](append(acc, vs...)))
		})
	})

	_, got := corobus.Run[struct{}, []uint32](bus, producer, consumer)
	vs, ok := got.GetRight()
	if !ok || !reflect.DeepEqual(vs, payload) {
		t.Fatalf("consumer got %v, want %v", vs, payload)
	}
}

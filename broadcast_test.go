// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package corobus_test

import (
	"testing"

	"code.hybscloud.com/corobus"
	"code.hybscloud.com/kont"
)

func TestTryBroadcastNoChannel(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	if err := bus.TryBroadcast(1); !corobus.IsNoChannel(err) {
		t.Fatalf("broadcast on empty bus got %v, want ErrNoChannel", err)
	}

	ch := bus.Open(1)
	bus.CloseChannel(ch)
	if err := bus.TryBroadcast(1); !corobus.IsNoChannel(err) {
		t.Fatalf("broadcast with all channels closed got %v, want ErrNoChannel", err)
	}
}

func TestTryBroadcastAllOrNothing(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	a := bus.Open(2)
	b := bus.Open(1)
	c := bus.Open(2)
	if err := bus.TrySend(b, 99); err != nil {
		t.Fatalf("prefill: %v", err)
	}

	// b is full: nothing may be written anywhere.
	if err := bus.TryBroadcast(7); !corobus.IsWouldBlock(err) {
		t.Fatalf("broadcast with one full target got %v, want ErrWouldBlock", err)
	}
	for _, id := range []int{a, c} {
		if _, err := bus.TryRecv(id); !corobus.IsWouldBlock(err) {
			t.Fatalf("channel %d received a partial broadcast: %v", id, err)
		}
	}

	if v, err := bus.TryRecv(b); err != nil || v != 99 {
		t.Fatalf("drain got (%d, %v), want (99, nil)", v, err)
	}
	if err := bus.TryBroadcast(7); err != nil {
		t.Fatalf("broadcast after drain: %v", err)
	}
	for _, id := range []int{a, b, c} {
		v, err := bus.TryRecv(id)
		if err != nil || v != 7 {
			t.Fatalf("channel %d got (%d, %v), want (7, nil)", id, v, err)
		}
	}
}

func TestBroadcastWaitsForRoom(t *testing.T) {
	bus := corobus.NewBus[uint32]()
	a := bus.Open(1)
	b := bus.Open(1)
	if err := bus.TrySend(a, 1); err != nil {
		t.Fatalf("prefill: %v", err)
	}
	s := corobus.NewScheduler(bus)

	// The broadcaster parks on the full channel a; the receiver frees it
	// and the retry delivers 9 everywhere.
	bc := corobus.Spawn(s, corobus.BroadcastThen(uint32(9), kont.Pure(struct{}{})))
	rc := corobus.Spawn(s, corobus.RecvBind(a, func(v uint32) kont.Eff[uint32] {
		return kont.Pure(v)
	}))
	s.Run()

	if _, err := bc.Result(); err != nil {
		t.Fatalf("broadcaster: %v", err)
	}
	if v, err := rc.Result(); err != nil || v != 1 {
		t.Fatalf("receiver got (%d, %v), want (1, nil)", v, err)
	}
	for _, id := range []int{a, b} {
		v, err := bus.TryRecv(id)
		if err != nil || v != 9 {
			t.Fatalf("channel %d got (%d, %v), want (9, nil)", id, v, err)
		}
	}
}

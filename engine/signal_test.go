package engine

import (
	"errors"
	"testing"
)

func TestSignalPriorityOrder(t *testing.T) {
	sig := NewSignal()

	var order []string
	record := func(name string) Slot {
		return func(tc TimerContext) error {
			order = append(order, name)
			return nil
		}
	}

	sig.Connect(-1, record("low"))
	sig.Connect(1, record("high"))
	sig.Connect(0, record("mid-a"))
	sig.Connect(0, record("mid-b"))

	if err := sig.Emit(TimerContext{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"high", "mid-a", "mid-b", "low"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestSignalStopsOnError(t *testing.T) {
	sig := NewSignal()
	boom := errors.New("boom")

	ran := false
	sig.Connect(2, func(tc TimerContext) error { return boom })
	sig.Connect(1, func(tc TimerContext) error {
		ran = true
		return nil
	})

	if err := sig.Emit(TimerContext{}); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if ran {
		t.Error("Lower priority slot must not run after an error")
	}
}

func TestSignalDisconnect(t *testing.T) {
	sig := NewSignal()

	calls := 0
	conn := sig.Connect(0, func(tc TimerContext) error {
		calls++
		return nil
	})

	_ = sig.Emit(TimerContext{})
	conn.Disconnect()
	conn.Disconnect()
	_ = sig.Emit(TimerContext{})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if sig.Len() != 0 {
		t.Errorf("Expected empty signal, got %d slots", sig.Len())
	}

	var zero Connection
	zero.Disconnect()
}

func TestSignalConnectDuringEmit(t *testing.T) {
	sig := NewSignal()

	added := 0
	sig.Connect(0, func(tc TimerContext) error {
		if sig.Len() == 1 {
			sig.Connect(1, func(tc TimerContext) error {
				added++
				return nil
			})
		}
		return nil
	})

	_ = sig.Emit(TimerContext{})
	if added != 0 {
		t.Error("Slot connected during emission must wait for the next Emit")
	}
	_ = sig.Emit(TimerContext{})
	if added != 1 {
		t.Errorf("Expected new slot to run once, ran %d", added)
	}
}

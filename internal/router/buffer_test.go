package router

import (
	"sync"
	"testing"
	"time"
)

func TestBuffer_SendDrain(t *testing.T) {
	buf := NewBuffer[int](2)

	for i := 0; i < 5; i++ {
		if !buf.Send(i) {
			t.Fatalf("Send(%d) returned false", i)
		}
	}

	if buf.Len() != 5 {
		t.Errorf("Len() = %d, want 5", buf.Len())
	}

	first := buf.Drain(3)
	if len(first) != 3 || first[0] != 0 || first[2] != 2 {
		t.Errorf("Drain(3) = %v, want [0 1 2]", first)
	}

	rest := buf.Drain(0)
	if len(rest) != 2 || rest[0] != 3 || rest[1] != 4 {
		t.Errorf("Drain(0) = %v, want [3 4]", rest)
	}

	if got := buf.Drain(0); got != nil {
		t.Errorf("Drain on empty = %v, want nil", got)
	}

	stats := buf.Stats()
	if stats.TotalReceived != 5 || stats.TotalSent != 5 || stats.HighWater != 5 || stats.Count != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestBuffer_Ready(t *testing.T) {
	buf := NewBuffer[string](1)

	select {
	case <-buf.Ready():
		t.Fatal("Ready signaled on empty buffer")
	default:
	}

	buf.Send("a")
	buf.Send("b")

	select {
	case <-buf.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready not signaled after Send")
	}

	// A single signal covers both items.
	if got := buf.Drain(0); len(got) != 2 {
		t.Errorf("Drain(0) = %v, want 2 items", got)
	}
}

func TestBuffer_Close(t *testing.T) {
	buf := NewBuffer[int](4)
	buf.Send(1)
	buf.Close()
	buf.Close()

	if buf.Send(2) {
		t.Error("Send after Close returned true")
	}
	if !buf.Closed() {
		t.Error("Closed() = false, want true")
	}

	// Queued items survive Close.
	if got := buf.Drain(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("Drain(0) = %v, want [1]", got)
	}
}

func TestBuffer_ConcurrentSend(t *testing.T) {
	buf := NewBuffer[int](8)

	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 250; i++ {
				buf.Send(i)
			}
		}()
	}

	var drained int
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-buf.Ready():
			drained += len(buf.Drain(0))
		case <-done:
			drained += len(buf.Drain(0))
			if drained != 1000 {
				t.Errorf("drained = %d, want 1000", drained)
			}
			return
		}
	}
}

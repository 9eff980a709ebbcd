package timing

import "testing"

func TestInterruptQueueFIFO(t *testing.T) {
	var q InterruptQueue
	q.Push(1)
	q.Push(2)
	v, ok := q.Pop()
	if !ok || v != 1 {
		t.Fatalf("Pop = %d, %v, want 1, true", v, ok)
	}
	v, ok = q.Pop()
	if !ok || v != 2 {
		t.Fatalf("Pop = %d, %v, want 2, true", v, ok)
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue: expected ok=false")
	}
}

func TestInterruptQueueOverflow(t *testing.T) {
	var q InterruptQueue
	for i := 0; i < QueueCapacity; i++ {
		if !q.Push(uint16(i)) {
			t.Fatalf("Push(%d): unexpected overflow before capacity reached", i)
		}
	}
	if q.Push(0xffff) {
		t.Fatal("Push at capacity: expected false (catch-fire)")
	}
}

func TestSchedulerFiresInOrder(t *testing.T) {
	var s Scheduler
	var order []string
	s.After(10, func() { order = append(order, "a") })
	s.After(5, func() { order = append(order, "b") })
	s.After(15, func() { order = append(order, "c") })

	s.Advance(5)
	if len(order) != 1 || order[0] != "b" {
		t.Fatalf("after advancing 5: order = %v, want [b]", order)
	}
	s.Advance(5)
	if len(order) != 2 || order[1] != "a" {
		t.Fatalf("after advancing 10: order = %v, want [b a]", order)
	}
	s.Advance(5)
	if len(order) != 3 || order[2] != "c" {
		t.Fatalf("after advancing 15: order = %v, want [b a c]", order)
	}
	if s.Pending() {
		t.Fatal("Pending() = true after all events fired")
	}
}

func TestSchedulerZeroCyclesRunsImmediately(t *testing.T) {
	var s Scheduler
	fired := false
	s.After(0, func() { fired = true })
	if !fired {
		t.Fatal("After(0, ...) did not run synchronously")
	}
}

/*
   Timing facilities for the CPU: the bounded FIFO interrupt queue and a
   relative-time callback scheduler devices can use to arrange delayed
   work without polling a wall clock.

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
*/

// Package timing holds the CPU's interrupt queue and a small relative-
// time event list devices can schedule callbacks against, adapted from
// a mainframe's channel-timer event list down to a single CPU-owned
// scheduler instead of a package-global one.
package timing

// QueueCapacity is the interrupt queue's bound. Exceeding it is the
// CPU's "catch fire" condition.
const QueueCapacity = 256

// InterruptQueue is a bounded FIFO of pending interrupt messages.
type InterruptQueue struct {
	messages []uint16
}

// Push enqueues message, reporting false if the queue is already at
// capacity (the caller must treat that as catch-fire).
func (q *InterruptQueue) Push(message uint16) bool {
	if len(q.messages) >= QueueCapacity {
		return false
	}
	q.messages = append(q.messages, message)
	return true
}

// Pop removes and returns the oldest queued message.
func (q *InterruptQueue) Pop() (uint16, bool) {
	if len(q.messages) == 0 {
		return 0, false
	}
	m := q.messages[0]
	q.messages = q.messages[1:]
	return m, true
}

// Len reports how many messages are currently queued.
func (q *InterruptQueue) Len() int {
	return len(q.messages)
}

// Callback is invoked when a scheduled event's remaining cycle count
// reaches zero.
type Callback func()

// event is one node of the relative-time list: time is the cycle delta
// from the *previous* event (from now, for the head), not an absolute
// cycle count, so Advance only ever decrements the head.
type event struct {
	time int64
	cb   Callback
	next *event
}

// Scheduler is a CPU-owned relative-time callback list. It is the
// struct form of a shared event list: every DCPU-16 instance gets its
// own, since independent CPUs must not perturb each other's timers.
type Scheduler struct {
	head *event
}

// After arranges for cb to run once Advance has been called with a
// cumulative cycle count of at least cycles. cycles <= 0 runs cb
// immediately.
func (s *Scheduler) After(cycles int64, cb Callback) {
	if cycles <= 0 {
		cb()
		return
	}
	ev := &event{time: cycles, cb: cb}
	if s.head == nil || cycles < s.head.time {
		if s.head != nil {
			s.head.time -= cycles
		}
		ev.next = s.head
		s.head = ev
		return
	}
	cycles -= s.head.time
	prev := s.head
	for prev.next != nil && cycles >= prev.next.time {
		cycles -= prev.next.time
		prev = prev.next
	}
	ev.time = cycles
	if prev.next != nil {
		prev.next.time -= cycles
	}
	ev.next = prev.next
	prev.next = ev
}

// Advance moves cycles cycles forward, firing (and removing) every
// event whose remaining time reaches zero, in time order.
func (s *Scheduler) Advance(cycles int64) {
	for s.head != nil {
		if cycles < s.head.time {
			s.head.time -= cycles
			return
		}
		cycles -= s.head.time
		fire := s.head
		s.head = s.head.next
		fire.cb()
	}
}

// Pending reports whether any callback is still scheduled.
func (s *Scheduler) Pending() bool {
	return s.head != nil
}

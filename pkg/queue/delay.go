package queue

import (
	"container/heap"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type delayedTask struct {
	at    time.Time
	seq   uint64
	owner uuid.UUID
	run   func()
	index int
}

type delayHeap []*delayedTask

func (h delayHeap) Len() int { return len(h) }

func (h delayHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h delayHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *delayHeap) Push(x any) {
	t := x.(*delayedTask)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *delayHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// delayQueue holds deferred work for the scheduling goroutine behind a single
// clock timer. It is not safe for concurrent use.
type delayQueue struct {
	clock clockwork.Clock
	tasks delayHeap
	seq   uint64
	timer clockwork.Timer
}

func newDelayQueue(clock clockwork.Clock) *delayQueue {
	return &delayQueue{clock: clock}
}

// schedule runs fn once after d, unless the owner is cancelled first.
func (q *delayQueue) schedule(owner uuid.UUID, d time.Duration, fn func()) {
	q.seq++
	t := &delayedTask{
		at:    q.clock.Now().Add(d),
		seq:   q.seq,
		owner: owner,
		run:   fn,
	}
	heap.Push(&q.tasks, t)
	if t.index == 0 {
		q.rearm()
	}
}

// cancel drops all pending tasks of the owner and returns how many there were.
func (q *delayQueue) cancel(owner uuid.UUID) int {
	kept := q.tasks[:0]
	for _, t := range q.tasks {
		if t.owner != owner {
			t.index = len(kept)
			kept = append(kept, t)
		}
	}
	n := len(q.tasks) - len(kept)
	if n == 0 {
		return 0
	}
	clear(q.tasks[len(kept):])
	q.tasks = kept
	heap.Init(&q.tasks)
	q.rearm()
	return n
}

func (q *delayQueue) len() int { return len(q.tasks) }

// C fires when the earliest task is due. Nil when nothing is pending, which
// blocks forever in a select.
func (q *delayQueue) C() <-chan time.Time {
	if q.timer == nil {
		return nil
	}
	return q.timer.Chan()
}

// runDue runs every task whose deadline has passed, oldest deadline first.
// Tasks may schedule or cancel other tasks.
func (q *delayQueue) runDue() {
	for len(q.tasks) > 0 {
		if q.tasks[0].at.After(q.clock.Now()) {
			break
		}
		t := heap.Pop(&q.tasks).(*delayedTask)
		t.run()
	}
	q.rearm()
}

func (q *delayQueue) rearm() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if len(q.tasks) == 0 {
		return
	}
	q.timer = q.clock.NewTimer(max(q.tasks[0].at.Sub(q.clock.Now()), 0))
}

func (q *delayQueue) stop() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.tasks = nil
}

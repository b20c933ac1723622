package clock

import (
	"container/heap"
	"time"
)

// Epoch is the start time of a Virtual scheduler created with NewVirtual.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Virtual is a deterministic scheduler whose time only moves when Advance is called.
// Hosts advance it by a fixed step per simulation tick; tests advance it directly.
type Virtual struct {
	now   time.Time
	queue entryQueue
	seq   uint64
}

// NewVirtual creates a virtual scheduler starting at Epoch.
func NewVirtual() *Virtual {
	return NewVirtualAt(Epoch)
}

// NewVirtualAt creates a virtual scheduler starting at the given time.
func NewVirtualAt(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// After schedules fn to run once, d after Now.
func (v *Virtual) After(d time.Duration, fn func()) Task {
	return v.schedule(d, 0, fn)
}

// Every schedules fn to run every d.
func (v *Virtual) Every(d time.Duration, fn func()) Task {
	if d <= 0 {
		return &task{}
	}
	return v.schedule(d, d, fn)
}

func (v *Virtual) schedule(d, period time.Duration, fn func()) Task {
	if d < 0 {
		d = 0
	}
	t := &task{active: true}
	v.push(&entry{due: v.now.Add(d), period: period, fn: fn, task: t})
	return t
}

func (v *Virtual) push(e *entry) {
	e.seq = v.seq
	v.seq++
	heap.Push(&v.queue, e)
}

// Advance moves time forward by d, firing every task that becomes due in
// (due time, scheduling order). Now reports each task's due time while it runs.
// Tasks scheduled by callbacks fire within the same call if they fall due.
func (v *Virtual) Advance(d time.Duration) {
	if d < 0 {
		d = 0
	}
	target := v.now.Add(d)

	for v.queue.Len() > 0 {
		next := v.queue[0]
		if next.due.After(target) {
			break
		}
		heap.Pop(&v.queue)
		if !next.task.active {
			continue
		}

		v.now = next.due
		if next.period > 0 {
			// Re-arm before running so the callback can cancel its own task.
			v.push(&entry{due: next.due.Add(next.period), period: next.period, fn: next.fn, task: next.task})
		} else {
			next.task.active = false
		}
		next.fn()
	}

	v.now = target
}

// Pending returns the number of tasks that will still fire.
func (v *Virtual) Pending() int {
	n := 0
	for _, e := range v.queue {
		if e.task.active {
			n++
		}
	}
	return n
}

// NextDue returns the due time of the earliest active task.
func (v *Virtual) NextDue() (time.Time, bool) {
	var (
		best  time.Time
		found bool
	)
	for _, e := range v.queue {
		if !e.task.active {
			continue
		}
		if !found || e.due.Before(best) {
			best, found = e.due, true
		}
	}
	return best, found
}

type task struct {
	active bool
}

func (t *task) Cancel() bool {
	was := t.active
	t.active = false
	return was
}

func (t *task) Active() bool {
	return t.active
}

type entry struct {
	due    time.Time
	seq    uint64
	period time.Duration
	fn     func()
	task   *task
}

// entryQueue is a min-heap ordered by due time, then scheduling order.
type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

package gesture

import "time"

// Task is a deferred callback created by Scheduler.Schedule.
type Task struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	done      bool
}

// Cancel prevents the task from running. It is safe on a nil, finished or
// already cancelled task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
	t.fn = nil
}

// Pending reports whether the task will still run.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && !t.done
}

// Due returns the timestamp at which the task becomes runnable.
func (t *Task) Due() time.Duration {
	return t.at
}

// Scheduler is a cooperative queue of deferred tasks. Nothing runs until the
// owner calls RunDue, so cancellation and firing are decided by the same
// caller and a cancelled task never executes.
//
// A Scheduler is not safe for concurrent use; Manager guards it with its lock.
type Scheduler struct {
	tasks []*Task
	seq   uint64
}

// Schedule queues fn to run once the clock reaches at.
func (s *Scheduler) Schedule(at time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{at: at, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// RunDue runs every pending task whose due time is <= now, earliest first,
// ties broken by scheduling order. Tasks scheduled by a running task are
// considered in the same pass. It returns the number of tasks run.
func (s *Scheduler) RunDue(now time.Duration) int {
	ran := 0
	for {
		idx := -1
		for i, t := range s.tasks {
			if t.cancelled || t.at > now {
				continue
			}
			if idx < 0 || t.at < s.tasks[idx].at || (t.at == s.tasks[idx].at && t.seq < s.tasks[idx].seq) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := s.tasks[idx]
		s.remove(idx)
		t.done = true
		fn := t.fn
		t.fn = nil
		if fn != nil {
			fn()
		}
		ran++
	}
	s.compact()
	return ran
}

// CancelAll cancels and drops every queued task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = s.tasks[:0]
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *Scheduler) remove(i int) {
	copy(s.tasks[i:], s.tasks[i+1:])
	s.tasks[len(s.tasks)-1] = nil
	s.tasks = s.tasks[:len(s.tasks)-1]
}

// compact drops cancelled tasks so the queue does not grow with churn.
func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}

package reach

import "github.com/teranos/cleaner/formula"

// Queue holds the not-yet-visited remainder of a plan, in order.
// The zero value is an empty queue.
type Queue struct {
	items []formula.Variable
}

// NewQueue returns a queue pre-filled with vars.
func NewQueue(vars ...formula.Variable) *Queue {
	q := &Queue{}
	q.Push(vars...)
	return q
}

func (q *Queue) Push(vars ...formula.Variable) {
	q.items = append(q.items, vars...)
}

// Pop removes and returns the head. ok is false when the queue is empty.
func (q *Queue) Pop() (v formula.Variable, ok bool) {
	if len(q.items) == 0 {
		return "", false
	}
	v = q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) Reset() {
	q.items = nil
}

// Items returns a copy of the queued variables.
func (q *Queue) Items() []formula.Variable {
	out := make([]formula.Variable, len(q.items))
	copy(out, q.items)
	return out
}

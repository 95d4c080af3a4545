package audio

// Queue is the ordered list of tracks to play next. It is not safe for
// concurrent use; Player guards it with its own lock.
type Queue struct {
	ids []int64
}

// Push appends id unless it is already queued.
func (q *Queue) Push(id int64) bool {
	if _, ok := q.Position(id); ok {
		return false
	}
	q.ids = append(q.ids, id)
	return true
}

func (q *Queue) Remove(id int64) bool {
	for i, queued := range q.ids {
		if queued == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Position returns the 1-based place of id in the queue.
func (q *Queue) Position(id int64) (int, bool) {
	for i, queued := range q.ids {
		if queued == id {
			return i + 1, true
		}
	}
	return 0, false
}

func (q *Queue) Pop() (int64, bool) {
	if len(q.ids) == 0 {
		return 0, false
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

func (q *Queue) Clear() bool {
	if len(q.ids) == 0 {
		return false
	}
	q.ids = nil
	return true
}

func (q *Queue) Items() []int64 {
	return append([]int64(nil), q.ids...)
}

func (q *Queue) Len() int { return len(q.ids) }

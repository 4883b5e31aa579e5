package message

// Queue is one generation of tagged messages, kept in enqueue order.
// The zero value is an empty queue ready to use.
type Queue struct {
	items []Tagged
}

// Push appends m under tag.
func (q *Queue) Push(m Message, tag Tag) {
	q.items = append(q.items, Tagged{Tag: tag, Message: m})
}

// PushAll appends every message in ms under the same tag, preserving order.
func (q *Queue) PushAll(ms []Message, tag Tag) {
	for _, m := range ms {
		q.Push(m, tag)
	}
}

// Len returns the number of queued messages.
func (q *Queue) Len() int { return len(q.items) }

// Take hands the whole generation to the caller and leaves q empty.
func (q *Queue) Take() []Tagged {
	items := q.items
	q.items = nil
	return items
}

// Tags returns the set of distinct tags still queued.
func (q *Queue) Tags() map[Tag]struct{} {
	tags := make(map[Tag]struct{}, len(q.items))
	for _, t := range q.items {
		tags[t.Tag] = struct{}{}
	}
	return tags
}

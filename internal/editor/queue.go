package editor

import "context"

// Queue hands commands from socket.io callbacks to the host loop. It is a
// bounded buffer: Enqueue never blocks and reports false when full.
type Queue struct {
	ch chan Command
}

// NewQueue returns a queue holding at most buffer commands.
func NewQueue(buffer int) *Queue {
	if buffer < 1 {
		buffer = 1
	}
	return &Queue{ch: make(chan Command, buffer)}
}

// Enqueue adds cmd unless the queue is full.
func (q *Queue) Enqueue(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// TryDequeue returns the oldest command without waiting.
func (q *Queue) TryDequeue() (Command, bool) {
	select {
	case cmd := <-q.ch:
		return cmd, true
	default:
		return nil, false
	}
}

// Next waits for a command or for ctx to end.
func (q *Queue) Next(ctx context.Context) (Command, bool) {
	select {
	case cmd := <-q.ch:
		return cmd, true
	case <-ctx.Done():
		return nil, false
	}
}

// Len returns the number of buffered commands.
func (q *Queue) Len() int { return len(q.ch) }

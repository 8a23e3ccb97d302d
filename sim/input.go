package sim

import "sync"

// InputKind identifies a control command fed into the loop.
type InputKind int

const (
	InputPauseToggle InputKind = iota
	InputQuit
)

func (k InputKind) String() string {
	switch k {
	case InputPauseToggle:
		return "pause_toggle"
	case InputQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// InputEvent is one queued command.
type InputEvent struct {
	Kind InputKind
}

// InputQueue is a FIFO of control commands. Producers (the websocket server,
// signal handlers) push from their own goroutines; the loop drains it at the
// top of every tick, so commands take effect between ticks, never inside one.
type InputQueue struct {
	mu     sync.Mutex
	events []InputEvent
}

func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

func (q *InputQueue) Push(ev InputEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Drain returns all queued events in arrival order and empties the queue.
func (q *InputQueue) Drain() []InputEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Package history keeps a bounded, append-only log of formatted rolls and
// fans new entries out to subscribers.
package history

import (
	"sync"
	"time"
)

// Entry is one recorded roll.
type Entry struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Session string    `json:"session,omitempty"`
	Dice    []int     `json:"dice"`
	Total   int       `json:"total"`
	Text    string    `json:"text"`
}

// clone returns e with its own copy of Dice so stored entries never share
// backing arrays with callers.
func (e Entry) clone() Entry {
	e.Dice = append([]int(nil), e.Dice...)
	return e
}

// Log is a fixed-capacity ring of entries. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	start   int
	size    int
	seq     uint64
	subs    map[uint64]chan Entry
	nextSub uint64
	now     func() time.Time
}

// New creates a Log that keeps at most capacity entries.
// A capacity below 1 is treated as 1.
func New(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		entries: make([]Entry, capacity),
		subs:    make(map[uint64]chan Entry),
		now:     time.Now,
	}
}

// Append records e, assigning its Seq and, if unset, its Time. The oldest
// entry is dropped once the log is full. Subscribers that are not keeping up
// miss the entry rather than block the caller.
func (l *Log) Append(e Entry) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e.Seq = l.seq
	if e.Time.IsZero() {
		e.Time = l.now()
	}
	e.Dice = append([]int(nil), e.Dice...)

	idx := (l.start + l.size) % len(l.entries)
	l.entries[idx] = e
	if l.size < len(l.entries) {
		l.size++
	} else {
		l.start = (l.start + 1) % len(l.entries)
	}

	for _, ch := range l.subs {
		select {
		case ch <- e.clone():
		default:
		}
	}
	return e.clone()
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.entries[(l.start+i)%len(l.entries)].clone()
	}
	return out
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

// Cap returns the maximum number of retained entries.
func (l *Log) Cap() int {
	return len(l.entries)
}

// Subscribers returns the number of active subscriptions.
func (l *Log) Subscribers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// Subscribe returns a channel receiving every entry appended from now on and
// a cancel func that unsubscribes and closes the channel. cancel is idempotent.
func (l *Log) Subscribe(buffer int) (<-chan Entry, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Entry, buffer)

	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subs, id)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

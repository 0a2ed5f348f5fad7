// Package console keeps the streamed game output in a bounded,
// order-preserving buffer.
package console

import "strings"

// Capacity is the maximum number of retained lines. Once full, the oldest
// line is evicted for every new one appended.
const Capacity = 500

// errPrefix marks a line as error output. Classification is display
// metadata only.
const errPrefix = "[ERR]"

// Entry is a single immutable log line.
type Entry struct {
	Seq   uint64
	Text  string
	IsErr bool
}

// Buffer is a fixed-capacity FIFO of log entries backed by a ring, so
// appending past capacity does not reallocate. It is not safe for
// concurrent use; all access happens on the update loop.
type Buffer struct {
	entries []Entry
	head    int // index of the oldest entry once the ring is full
	nextSeq uint64
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{entries: make([]Entry, 0, Capacity)}
}

// Append adds a line at the tail, evicting the oldest entry if the buffer
// is full, and returns the stored entry. Sequence numbers are monotonic for
// the lifetime of the buffer and are never reused, including across Clear.
func (b *Buffer) Append(line string) Entry {
	b.nextSeq++
	e := Entry{
		Seq:   b.nextSeq,
		Text:  line,
		IsErr: strings.HasPrefix(line, errPrefix),
	}
	if len(b.entries) < Capacity {
		b.entries = append(b.entries, e)
		return e
	}
	b.entries[b.head] = e
	b.head = (b.head + 1) % Capacity
	return e
}

// Len returns the number of retained entries.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Snapshot returns the retained entries oldest first. The returned slice is
// a copy and stays valid across later appends.
func (b *Buffer) Snapshot() []Entry {
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.head:]...)
	out = append(out, b.entries[:b.head]...)
	return out
}

// Clear drops all entries. The sequence counter is preserved.
func (b *Buffer) Clear() {
	b.entries = b.entries[:0]
	b.head = 0
}

// Package console holds the bounded, ordered console line history for one
// server session.
package console

// DefaultCapacity is the number of lines retained when no capacity is configured.
const DefaultCapacity = 2000

// Buffer is a fixed-capacity FIFO of console lines. When full, the oldest
// line is evicted. Lines are never reordered or deduplicated.
//
// Every line gets an absolute sequence number within the current epoch, so
// readers can ask for "everything after line N" even after older lines have
// been evicted. ReplaceHistory starts a new epoch.
//
// Buffer is not safe for concurrent use; the owning session serializes access.
type Buffer struct {
	data  []string
	head  int // next write position
	count int
	size  int

	total uint64 // lines appended in this epoch; sequence of the next line
	epoch uint64
}

// Delta describes the lines a reader has not seen yet.
type Delta struct {
	// Epoch is the buffer's current epoch.
	Epoch uint64
	// Next is the sequence the reader should ask for next time.
	Next uint64
	// Reset is true when the reader's epoch is stale and Lines holds the
	// complete retained history rather than an increment.
	Reset bool
	Lines []string
}

// NewBuffer creates a buffer holding at most capacity lines.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data: make([]string, capacity),
		size: capacity,
	}
}

// Append pushes a line to the tail, evicting the oldest line when full.
func (b *Buffer) Append(line string) {
	b.data[b.head] = line
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
	b.total++
}

// ReplaceHistory discards the current contents and keeps the last Capacity
// lines of the given history, in their original order.
func (b *Buffer) ReplaceHistory(lines []string) {
	if len(lines) > b.size {
		lines = lines[len(lines)-b.size:]
	}

	for i := range b.data {
		b.data[i] = ""
	}
	n := copy(b.data, lines)
	b.count = n
	b.head = n % b.size
	b.total = uint64(n)
	b.epoch++
}

// Lines returns the retained lines, oldest first.
func (b *Buffer) Lines() []string {
	return b.last(b.count)
}

// Len returns the number of retained lines.
func (b *Buffer) Len() int {
	return b.count
}

// Since returns the retained lines with sequence >= seq, oldest first.
// Lines that were already evicted are skipped.
func (b *Buffer) Since(seq uint64) []string {
	if seq >= b.total {
		return nil
	}
	first := b.total - uint64(b.count)
	if seq < first {
		seq = first
	}
	return b.last(int(b.total - seq))
}

// Delta returns what a reader positioned at (epoch, seq) has not seen.
func (b *Buffer) Delta(epoch, seq uint64) Delta {
	d := Delta{Epoch: b.epoch, Next: b.total}
	if epoch != b.epoch {
		d.Reset = true
		d.Lines = b.Lines()
		return d
	}
	d.Lines = b.Since(seq)
	return d
}

// last returns the last n lines in chronological order.
func (b *Buffer) last(n int) []string {
	if n <= 0 || b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	result := make([]string, n)
	start := (b.head - n + b.size) % b.size
	for i := 0; i < n; i++ {
		result[i] = b.data[(start+i)%b.size]
	}
	return result
}

package mqtt

// bufferedMsg holds a serialized message waiting for the broker to come back.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer is a fixed-capacity FIFO for messages queued while offline.
// Not safe for concurrent use — caller must synchronize.
type ringBuffer struct {
	msgs []bufferedMsg
	next int // index the next push writes to
	size int
}

func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &ringBuffer{msgs: make([]bufferedMsg, capacity)}
}

// push appends msg, overwriting the oldest entry when the buffer is full.
// It reports whether an entry was dropped to make room.
func (r *ringBuffer) push(msg bufferedMsg) bool {
	dropped := r.size == len(r.msgs)
	r.msgs[r.next] = msg
	r.next = (r.next + 1) % len(r.msgs)
	if !dropped {
		r.size++
	}
	return dropped
}

// drainAll returns the buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.size == 0 {
		return nil
	}

	out := make([]bufferedMsg, r.size)
	start := (r.next - r.size + len(r.msgs)) % len(r.msgs)
	for i := range out {
		out[i] = r.msgs[(start+i)%len(r.msgs)]
	}

	r.next = 0
	r.size = 0
	return out
}

func (r *ringBuffer) len() int {
	return r.size
}

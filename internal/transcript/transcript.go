// Package transcript holds the ordered message history threaded through a
// refinement session.
package transcript

// Transcript is an append-only sequence of messages. The zero value is empty.
//
// Append never mutates the receiver: it returns a new Transcript whose backing
// array is not shared with any other Transcript, so a value handed out earlier
// keeps observing the same messages forever.
type Transcript struct {
	msgs []Message
}

// New starts a transcript from the seed message.
func New(seed Message) Transcript {
	return Transcript{msgs: []Message{seed}}
}

// Append returns t extended by msg.
func (t Transcript) Append(msg Message) Transcript {
	out := make([]Message, len(t.msgs), len(t.msgs)+1)
	copy(out, t.msgs)
	return Transcript{msgs: append(out, msg)}
}

// Len returns the number of messages.
func (t Transcript) Len() int { return len(t.msgs) }

// At returns the i-th message. It panics if i is out of range.
func (t Transcript) At(i int) Message { return t.msgs[i] }

// Last returns the most recent message and false when t is empty.
func (t Transcript) Last() (Message, bool) {
	if len(t.msgs) == 0 {
		return Message{}, false
	}
	return t.msgs[len(t.msgs)-1], true
}

// Messages returns a copy of the messages in order.
func (t Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// HasPrefix reports whether every message of p appears, in order, at the
// start of t.
func (t Transcript) HasPrefix(p Transcript) bool {
	if len(p.msgs) > len(t.msgs) {
		return false
	}
	for i, m := range p.msgs {
		if t.msgs[i] != m {
			return false
		}
	}
	return true
}

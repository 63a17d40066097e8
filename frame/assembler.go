package frame

import "strings"

// PushResult describes what the assembler did with one segment.
type PushResult int

const (
	// Ignored means the segment was not part of any message.
	Ignored PushResult = iota
	// Collecting means the segment was absorbed into an in-progress message.
	Collecting
	// Completed means the segment closed a message.
	Completed
)

// Assembler reassembles framed messages from fixed-size padded segments.
// It is an explicit two-state machine: idle until a start marker arrives,
// then collecting until an end marker closes the message. At most one
// message is in progress at a time; a second start marker silently discards
// the unfinished buffer and begins a new message (last writer wins).
//
// Assembler is not safe for concurrent use; callers push from a single
// reception loop.
type Assembler struct {
	buf        strings.Builder
	collecting bool
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// InProgress reports whether a message is currently being collected.
func (a *Assembler) InProgress() bool {
	return a.collecting
}

// Reset discards any in-progress message.
func (a *Assembler) Reset() {
	a.buf.Reset()
	a.collecting = false
}

// Push feeds one received segment into the state machine. When it returns
// Completed, the first return value is the reassembled message (possibly
// empty). Content after an end marker is discarded, as is content before a
// start marker; this is also what strips the sender's trailing padding,
// which always follows the end marker. The end marker is searched in the
// accumulated buffer, not just the current segment, so a marker split
// across a segment boundary still closes the message.
func (a *Assembler) Push(data []byte) (string, PushResult) {
	chunk := DecodeText(data)

	if i := indexMarker(chunk, StartMarker); i >= 0 {
		// A new start marker always wins, even mid-collection.
		a.buf.Reset()
		a.collecting = true
		chunk = chunk[i+len(StartMarker):]
	}

	if !a.collecting {
		return "", Ignored
	}

	a.buf.WriteString(chunk)
	if i := indexMarker(a.buf.String(), EndMarker); i >= 0 {
		msg := a.buf.String()[:i]
		a.Reset()
		return msg, Completed
	}
	return "", Collecting
}

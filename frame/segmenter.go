package frame

import (
	"fmt"
	"time"
)

// Segmenter splits outgoing messages into fixed-size padded segments and
// paces them at the configured link bitrate. There is no acknowledgement or
// retry; the link is fire-and-forget.
type Segmenter struct {
	size  int
	delay time.Duration
}

// NewSegmenter returns a segmenter for the given segment size in bytes and
// link bitrate in bits per second. A bitrate <= 0 disables pacing.
func NewSegmenter(size int, bitsPerSec int) (*Segmenter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("segment size must be positive, got %d", size)
	}
	s := &Segmenter{size: size}
	if bitsPerSec > 0 {
		s.delay = time.Duration(float64(size*8) / float64(bitsPerSec) * float64(time.Second))
	}
	return s, nil
}

// Size returns the fixed segment size in bytes.
func (s *Segmenter) Size() int {
	return s.size
}

// Delay returns the pacing delay between consecutive segments.
func (s *Segmenter) Delay() time.Duration {
	return s.delay
}

// Split wraps text in the framing markers and cuts it into segments of
// exactly s.size bytes, padding the final short segment with spaces.
func (s *Segmenter) Split(text string) [][]byte {
	full := []byte(StartMarker + text + EndMarker)

	var segments [][]byte
	for i := 0; i < len(full); i += s.size {
		end := i + s.size
		if end > len(full) {
			end = len(full)
		}
		chunk := make([]byte, s.size)
		n := copy(chunk, full[i:end])
		for ; n < s.size; n++ {
			chunk[n] = PadByte
		}
		segments = append(segments, chunk)
	}
	return segments
}

// Send splits text and emits each segment through send in order, sleeping
// the pacing delay after each one. It returns the number of segments sent;
// a send error stops the message mid-flight.
func (s *Segmenter) Send(text string, send func([]byte) error) (int, error) {
	sent := 0
	for _, seg := range s.Split(text) {
		if err := send(seg); err != nil {
			return sent, err
		}
		sent++
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	return sent, nil
}

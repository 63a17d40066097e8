// Package client is the sender side of the rover link: it frames a message
// into fixed-size padded segments, paces them at the link bitrate, and
// collects the bridge's reply lines.
package client

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/mbocsi/roverlink/frame"
)

type Sender struct {
	conn *net.UDPConn
	seg  *frame.Segmenter
}

// Dial connects a sender to the bridge at addr. segmentSize and bitsPerSec
// must match the link the bridge listens on; a bitsPerSec of 0 disables
// pacing.
func Dial(addr string, segmentSize, bitsPerSec int) (*Sender, error) {
	seg, err := frame.NewSegmenter(segmentSize, bitsPerSec)
	if err != nil {
		return nil, err
	}

	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Sender{conn: conn, seg: seg}, nil
}

// Send frames text and emits its segments in order, returning the number of
// segments sent.
func (s *Sender) Send(text string) (int, error) {
	n, err := s.seg.Send(text, func(b []byte) error {
		_, werr := s.conn.Write(b)
		return werr
	})
	if err != nil {
		return n, fmt.Errorf("send segment %d: %w", n+1, err)
	}
	slog.Debug("Message sent", "segments", n, "bytes", n*s.seg.Size())
	return n, nil
}

// Replies reads newline-terminated reply lines until the link has been
// quiet for the given duration. Asynchronous action replies can arrive well
// after the command, so callers choose how long to linger.
func (s *Sender) Replies(quiet time.Duration) []string {
	var lines []string
	reader := bufio.NewReader(s.conn)
	for {
		s.conn.SetReadDeadline(time.Now().Add(quiet))
		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, trimNewline(line))
		}
		if err != nil {
			return lines
		}
	}
}

func (s *Sender) Close() error {
	return s.conn.Close()
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		return line[:n-1]
	}
	return line
}

// Package frame implements the text framing protocol used on the rover
// control link: messages are wrapped in <START>/<END> markers, split into
// fixed-size datagrams padded with ASCII spaces, and reassembled on the
// receiving side.
package frame

import "strings"

const (
	StartMarker = "<START>"
	EndMarker   = "<END>"

	// PadByte fills the tail of a short final segment up to the segment size.
	PadByte = ' '
)

// DecodeText converts raw datagram bytes to text, dropping invalid UTF-8
// sequences instead of failing.
func DecodeText(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// indexMarker finds the first occurrence of marker in s, comparing ASCII
// case-insensitively. Markers are received case-insensitively but sent in
// exact case.
func indexMarker(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		if asciiEqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

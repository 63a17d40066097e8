package frame

import "strings"

// Sanitize normalizes one decoded text unit before command parsing: trims
// whitespace, strips one layer of matching surrounding quotes, removes a
// leading start marker and trailing end marker (case-insensitive, tolerating
// whitespace inside the marker token, e.g. "< Start >"), and collapses
// whitespace runs to single spaces. The result may be empty; empty commands
// are dropped by the caller.
func Sanitize(s string) string {
	t := strings.TrimSpace(s)

	if len(t) >= 2 {
		if (t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'') {
			t = t[1 : len(t)-1]
		}
	}

	if rest, ok := cutMarkerPrefix(t, "start"); ok {
		t = rest
	}
	if rest, ok := cutMarkerSuffix(t, "end"); ok {
		t = rest
	}

	return strings.Join(strings.Fields(t), " ")
}

// cutMarkerPrefix removes a leading "< word >" token, with optional
// whitespace around the word, matched case-insensitively.
func cutMarkerPrefix(s, word string) (string, bool) {
	i := skipSpace(s, 0)
	if i >= len(s) || s[i] != '<' {
		return s, false
	}
	i = skipSpace(s, i+1)
	if i+len(word) > len(s) || !asciiEqualFold(s[i:i+len(word)], word) {
		return s, false
	}
	i = skipSpace(s, i+len(word))
	if i >= len(s) || s[i] != '>' {
		return s, false
	}
	return s[i+1:], true
}

// cutMarkerSuffix removes a trailing "< word >" token, mirroring
// cutMarkerPrefix from the end of the string.
func cutMarkerSuffix(s, word string) (string, bool) {
	j := skipSpaceBack(s, len(s))
	if j == 0 || s[j-1] != '>' {
		return s, false
	}
	j = skipSpaceBack(s, j-1)
	if j < len(word) || !asciiEqualFold(s[j-len(word):j], word) {
		return s, false
	}
	j = skipSpaceBack(s, j-len(word))
	if j == 0 || s[j-1] != '<' {
		return s, false
	}
	return s[:j-1], true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func skipSpaceBack(s string, j int) int {
	for j > 0 && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') {
		j--
	}
	return j
}

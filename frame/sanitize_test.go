package frame

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"stop", "stop"},
		{"  stop  ", "stop"},
		{`"vel 0.2 -0.3"`, "vel 0.2 -0.3"},
		{"'drive forward 0.5'", "drive forward 0.5"},
		{"<START>stop<END>", "stop"},
		{"<start>stop<end>", "stop"},
		{"< Start > stop < END >", "stop"},
		{"<START>drive   forward\t0.5<END>", "drive forward 0.5"},
		{`"<START>rotate clockwise 90<END>"`, "rotate clockwise 90"},
		{"<START><END>", ""},
		{"", ""},
		{"   ", ""},
		// Markers not at the edges are content, not framing.
		{"say <END> loudly", "say <END> loudly"},
	}

	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"stop",
		"  <START> vel 0.2   -0.3 <END>  ",
		`"drive forward 0.5 speed 0.25"`,
		"dance now",
		"",
		"< start >rotate anticlockwise 45< end >",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

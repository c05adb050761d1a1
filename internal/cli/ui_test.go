package cli

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a long plain-ascii output line", 10, "a long pl…"},
		{"多字节输出不能被截断在字节中间", 6, "多字节输出…"},
		{"mixed 输出 content here", 9, "mixed 输出…"},
		{"line\nwith\nbreaks", 20, "line with breaks"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.max)
		if got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tc.in, tc.max, got)
		}
	}
}

package utils

import "testing"

func TestJoinURL(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"https://example.com/ch", "noarch"}, "https://example.com/ch/noarch"},
		{[]string{"https://example.com/ch/", "/noarch/"}, "https://example.com/ch/noarch"},
		{[]string{"https://example.com", "ch", "noarch", "repodata.json"}, "https://example.com/ch/noarch/repodata.json"},
		{[]string{"https://example.com/ch", ""}, "https://example.com/ch"},
	}
	for _, c := range cases {
		if got := JoinURL(c.parts...); got != c.want {
			t.Errorf("JoinURL(%v) = %q, want %q", c.parts, got, c.want)
		}
	}
}

func TestURLDirname(t *testing.T) {
	cases := map[string]string{
		"https://example.com/ch/noarch":  "https://example.com/ch",
		"https://example.com/ch/noarch/": "https://example.com/ch",
		"https://example.com/ch":         "https://example.com",
		"https://example.com":            "https://example.com",
	}
	for in, want := range cases {
		if got := URLDirname(in); got != want {
			t.Errorf("URLDirname(%q) = %q, want %q", in, got, want)
		}
	}
}

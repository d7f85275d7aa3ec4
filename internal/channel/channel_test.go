package channel

import (
	"testing"
)

func TestParse_RejectsRelativeURLs(t *testing.T) {
	for _, raw := range []string{"conda-forge", "/ch/noarch", ""} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestToken(t *testing.T) {
	cases := map[string]string{
		"https://example.com/t/tk-123-abc/ch/noarch": "tk-123-abc",
		"https://example.com/ch/noarch":              "",
		"https://example.com/t/":                     "",
		"https://example.com/ch/t/tok/noarch":        "tok",
	}
	for raw, want := range cases {
		ch, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := ch.Token(); got != want {
			t.Errorf("Token(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestUnderAlias(t *testing.T) {
	ch, err := Parse("https://conda.anaconda.org/private/noarch")
	if err != nil {
		t.Fatal(err)
	}
	if !ch.UnderAlias("https://conda.anaconda.org") {
		t.Error("expected alias match")
	}
	if ch.UnderAlias("https://repo.example.com") {
		t.Error("unexpected alias match")
	}
	if ch.UnderAlias("") {
		t.Error("empty alias must never match")
	}
}

func TestIsNoarch(t *testing.T) {
	if !IsNoarch("https://example.com/ch/noarch") {
		t.Error("expected noarch")
	}
	if !IsNoarch("https://example.com/ch/noarch/") {
		t.Error("trailing slash must not matter")
	}
	for _, u := range []string{
		"https://example.com/ch/linux-64",
		"https://example.com/noarch-extras/linux-64",
		"https://noarch.example.com/ch",
	} {
		if IsNoarch(u) {
			t.Errorf("%q is not a noarch URL", u)
		}
	}
}

func TestSubdirURL(t *testing.T) {
	got := SubdirURL("https://example.com/ch/", "noarch")
	if got != "https://example.com/ch/noarch" {
		t.Errorf("SubdirURL = %q", got)
	}
}

func TestPlatformSubdir(t *testing.T) {
	if PlatformSubdir() == "" {
		t.Error("platform subdir must never be empty")
	}
}

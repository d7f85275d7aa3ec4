package repodata

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStateUnmarshal_LegacyAliases(t *testing.T) {
	raw := `{
		"_etag": "W/\"abc\"",
		"_mod": "Mon, 02 Jan 2006 15:04:05 GMT",
		"_cache_control": "public, max-age=1200",
		"_url": "https://conda.anaconda.org/conda-forge/noarch",
		"size": 42,
		"mtime_ns": 1234567890
	}`

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if st.Etag != `W/"abc"` {
		t.Errorf("etag not migrated from _etag: %q", st.Etag)
	}
	if st.Mod != "Mon, 02 Jan 2006 15:04:05 GMT" {
		t.Errorf("mod not migrated from _mod: %q", st.Mod)
	}
	if st.CacheControl != "public, max-age=1200" {
		t.Errorf("cache_control not migrated: %q", st.CacheControl)
	}
	if st.URL != "https://conda.anaconda.org/conda-forge/noarch" {
		t.Errorf("url not migrated from _url: %q", st.URL)
	}
	if st.Size != 42 || st.MtimeNs != 1234567890 {
		t.Errorf("size/mtime_ns wrong: %d / %d", st.Size, st.MtimeNs)
	}
	if len(st.Extra) != 0 {
		t.Errorf("aliases must not survive as extra keys: %v", st.Extra)
	}
}

func TestStateUnmarshal_CanonicalWinsOverAlias(t *testing.T) {
	raw := `{"etag": "new", "_etag": "old"}`

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.Etag != "new" {
		t.Errorf("canonical key must win over legacy alias, got %q", st.Etag)
	}
}

func TestStateRoundTrip_PreservesExtraFields(t *testing.T) {
	raw := `{"etag": "abc", "size": 10, "mtime_ns": 20, "refresh_ns": 987654321098765432, "has_zst": {"value": true}}`

	var st State
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out, err := json.Marshal(&st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// extension fields must round-trip unmangled (including big integers)
	if !strings.Contains(string(out), `"refresh_ns":987654321098765432`) {
		t.Errorf("extra int field mangled: %s", out)
	}
	if !strings.Contains(string(out), `"has_zst"`) {
		t.Errorf("extra object field dropped: %s", out)
	}
}

func TestStateMarshal_OmitsEmptyValidators(t *testing.T) {
	st := State{Etag: "abc"}

	out, err := json.Marshal(&st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `"etag":"abc"`) {
		t.Errorf("etag missing: %s", s)
	}
	for _, absent := range []string{`"mod"`, `"cache_control"`, `"url"`} {
		if strings.Contains(s, absent) {
			t.Errorf("empty validator %s must be absent, got %s", absent, s)
		}
	}
	// size/mtime_ns are always recorded
	if !strings.Contains(s, `"size":0`) || !strings.Contains(s, `"mtime_ns":0`) {
		t.Errorf("size/mtime_ns must always be written: %s", s)
	}
}

func TestStateMarshal_NeverWritesLegacyAliases(t *testing.T) {
	var st State
	if err := json.Unmarshal([]byte(`{"_etag": "abc", "_url": "https://example.com/ch"}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(&st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), `"_`) {
		t.Errorf("legacy aliases reappeared on save: %s", out)
	}
}

func TestStateInvalidate_KeepsExtraAndMtime(t *testing.T) {
	var st State
	raw := `{"etag": "abc", "mod": "yesterday", "cache_control": "max-age=60", "size": 99, "mtime_ns": 7, "pinned": true}`
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	st.Invalidate()

	if st.Etag != "" || st.Mod != "" || st.CacheControl != "" || st.Size != 0 {
		t.Errorf("validators not reset: %+v", st)
	}
	if st.MtimeNs != 7 {
		t.Errorf("mtime_ns must survive invalidation, got %d", st.MtimeNs)
	}
	if _, ok := st.Extra["pinned"]; !ok {
		t.Errorf("extra fields must survive invalidation: %v", st.Extra)
	}
}

func TestStateReplaceWithHeaders_DropsEverything(t *testing.T) {
	var st State
	raw := `{"etag": "old", "size": 99, "mtime_ns": 7, "stale_marker": 1}`
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	st.ReplaceWithHeaders("https://example.com/ch/noarch", "new-etag", "", "max-age=300")

	if st.Etag != "new-etag" || st.Mod != "" || st.CacheControl != "max-age=300" {
		t.Errorf("headers not applied: %+v", st)
	}
	if st.URL != "https://example.com/ch/noarch" {
		t.Errorf("url not applied: %q", st.URL)
	}
	if st.Size != 0 || st.MtimeNs != 0 || st.Extra != nil {
		t.Errorf("a fresh response must fully replace the record: %+v", st)
	}
}

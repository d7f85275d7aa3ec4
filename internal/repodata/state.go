// Package repodata maintains a local validated cache of remote channel index
// documents. It owns the conditional-fetch protocol, the on-disk cache state
// that accompanies each cached document, and the translation of transport
// failures into a closed set of domain errors.
package repodata

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	keyEtag         = "etag"
	keyMod          = "mod"
	keyCacheControl = "cache_control"
	keySize         = "size"
	keyMtimeNs      = "mtime_ns"
	keyURL          = "url"
)

// legacyAliases are the underscore-prefixed key names older state files used.
// They normalize to the canonical names on load and never reappear on save.
var legacyAliases = []string{"_etag", "_mod", "_cache_control", "_url"}

// State mirrors the `.state.json` file that accompanies a cached index
// document. Etag, Mod and CacheControl are the HTTP validators from the last
// fresh download; Size and MtimeNs record the stat of the cached document at
// the time the state was saved, tying the state's trustworthiness to that
// exact file. Unknown keys are preserved in Extra across load/save.
type State struct {
	Etag         string
	Mod          string
	CacheControl string
	Size         int64
	MtimeNs      int64
	URL          string
	Extra        map[string]json.RawMessage
}

// Invalidate resets the validators so the next fetch is unconditional.
// Keys outside the validator set (including Extra) are deliberately retained.
func (s *State) Invalidate() {
	s.Etag = ""
	s.Mod = ""
	s.CacheControl = ""
	s.Size = 0
}

// ReplaceWithHeaders clears the state and repopulates it from a fresh
// response: the channel URL plus whichever validator headers were present.
// Size and MtimeNs stay zero until the caller writes the document and saves.
func (s *State) ReplaceWithHeaders(url, etag, mod, cacheControl string) {
	*s = State{
		URL:          url,
		Etag:         etag,
		Mod:          mod,
		CacheControl: cacheControl,
	}
}

func (s *State) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.Extra)+6)
	for k, v := range s.Extra {
		out[k] = v
	}

	setString := func(key, val string) error {
		if val == "" {
			return nil
		}
		raw, err := json.Marshal(val)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}
	if err := setString(keyEtag, s.Etag); err != nil {
		return nil, err
	}
	if err := setString(keyMod, s.Mod); err != nil {
		return nil, err
	}
	if err := setString(keyCacheControl, s.CacheControl); err != nil {
		return nil, err
	}
	if err := setString(keyURL, s.URL); err != nil {
		return nil, err
	}
	out[keySize] = json.RawMessage(fmt.Sprintf("%d", s.Size))
	out[keyMtimeNs] = json.RawMessage(fmt.Sprintf("%d", s.MtimeNs))

	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// migrate legacy underscore-prefixed keys; canonical keys win on conflict
	for _, alias := range legacyAliases {
		v, ok := raw[alias]
		if !ok {
			continue
		}
		canonical := strings.TrimPrefix(alias, "_")
		if _, exists := raw[canonical]; !exists {
			raw[canonical] = v
		}
		delete(raw, alias)
	}

	*s = State{}
	takeString := func(key string, dst *string) {
		if v, ok := raw[key]; ok {
			// tolerate a non-string value: treat it as absent
			_ = json.Unmarshal(v, dst)
			delete(raw, key)
		}
	}
	takeInt := func(key string, dst *int64) {
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, dst)
			delete(raw, key)
		}
	}
	takeString(keyEtag, &s.Etag)
	takeString(keyMod, &s.Mod)
	takeString(keyCacheControl, &s.CacheControl)
	takeString(keyURL, &s.URL)
	takeInt(keySize, &s.Size)
	takeInt(keyMtimeNs, &s.MtimeNs)

	if len(raw) > 0 {
		s.Extra = raw
	}
	return nil
}

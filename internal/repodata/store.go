package repodata

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/repofetch/internal/logger"
	"github.com/MrSnakeDoc/repofetch/internal/utils"
	"github.com/spf13/afero"
)

// Store persists the State record beside its cached index document.
//
// Load/Save are not safe against concurrent writers to the same cache entry
// across processes; the failure mode is bounded to stale validators, which
// forces a full re-fetch on the next run.
type Store struct {
	fs             afero.Fs
	cachePathJSON  string
	cachePathState string
}

func NewStore(fs afero.Fs, cachePathJSON string) *Store {
	return &Store{
		fs:             fs,
		cachePathJSON:  cachePathJSON,
		cachePathState: StatePath(cachePathJSON),
	}
}

// StatePath derives the state file path for a cached document
// (repodata.json -> repodata.state.json).
func StatePath(cachePathJSON string) string {
	if strings.HasSuffix(cachePathJSON, ".json") {
		return strings.TrimSuffix(cachePathJSON, ".json") + ".state.json"
	}
	return cachePathJSON + ".state.json"
}

// ArtifactPath returns the path of the cached document this store describes.
func (s *Store) ArtifactPath() string { return s.cachePathJSON }

// Load reads the state file. A missing or unreadable state file, or a missing
// cached document, yields an empty State rather than an error. When both files
// exist but the recorded (size, mtime_ns) no longer match the document's stat,
// the validators are reset so the next fetch re-downloads; keys outside the
// validator set survive.
func (s *Store) Load() *State {
	st, err := s.LoadRaw()
	if err != nil {
		logger.Debug("no usable cache state at %s: %v", s.cachePathState, err)
		return &State{}
	}

	if _, err := s.fs.Stat(s.cachePathJSON); err != nil {
		logger.Debug("cached document missing at %s: %v", s.cachePathJSON, err)
		return &State{}
	}
	if !s.InSync(st) {
		logger.Debug("cache state out of sync with %s, resetting validators", s.cachePathJSON)
		st.Invalidate()
	}
	return st
}

// LoadRaw reads and decodes the state file without applying the consistency
// check. Callers that only inspect the state (e.g. status listings) use this
// to see the recorded validators as-is.
func (s *Store) LoadRaw() (*State, error) {
	data, err := afero.ReadFile(s.fs, s.cachePathState)
	if err != nil {
		return nil, err
	}
	st := &State{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to decode cache state %s: %w", s.cachePathState, err)
	}
	return st, nil
}

// InSync reports whether the state's recorded (size, mtime_ns) match the
// cached document's current stat. A state that is not in sync is untrustworthy
// and its validators must not be sent to the server.
func (s *Store) InSync(st *State) bool {
	info, err := s.fs.Stat(s.cachePathJSON)
	if err != nil {
		return false
	}
	return st.Size == info.Size() && st.MtimeNs == info.ModTime().UnixNano()
}

// Save stamps the cached document's current stat into the state and writes the
// state file atomically. It must be called strictly after the document has
// been written: the stat it captures is what Load later checks against.
func (s *Store) Save(st *State) error {
	info, err := s.fs.Stat(s.cachePathJSON)
	if err != nil {
		return fmt.Errorf("cached document %s must exist before saving its state: %w", s.cachePathJSON, err)
	}
	st.Size = info.Size()
	st.MtimeNs = info.ModTime().UnixNano()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache state for %s: %w", s.cachePathJSON, err)
	}
	data = append(data, '\n')

	if err := utils.WriteFileAtomic(s.fs, s.cachePathState, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache state %s: %w", s.cachePathState, err)
	}
	return nil
}

// WriteDocument atomically writes a fetched index document to the cache.
func (s *Store) WriteDocument(body []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.cachePathJSON), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(s.cachePathJSON), err)
	}
	if err := utils.WriteFileAtomic(s.fs, s.cachePathJSON, body, 0o644); err != nil {
		return fmt.Errorf("failed to write cached document %s: %w", s.cachePathJSON, err)
	}
	return nil
}

package repodata

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/MrSnakeDoc/repofetch/internal/utils"
)

// CacheKey derives a stable filesystem name for one channel subdir's index
// document from its full URL.
func CacheKey(subdirURL, repodataFn string) string {
	sum := sha256.Sum256([]byte(utils.JoinURL(subdirURL, repodataFn)))
	return hex.EncodeToString(sum[:])[:16]
}

// CachePath returns the on-disk path of the cached index document for a
// channel subdir URL. The state file lives beside it (see StatePath).
func CachePath(cacheDir, subdirURL, repodataFn string) string {
	return filepath.Join(cacheDir, CacheKey(subdirURL, repodataFn)+".json")
}

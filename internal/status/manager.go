package status

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/logger"
	"github.com/MrSnakeDoc/repofetch/internal/printer"
	"github.com/MrSnakeDoc/repofetch/internal/repodata"
	"github.com/spf13/afero"
)

const stateSuffix = ".state.json"

// row is a view model for rendering one cache entry.
type row struct {
	URL          string
	Etag         string
	LastModified string
	Size         string
	Status       string
}

type Lister struct {
	Config *config.Config
	Fs     afero.Fs
}

func New(cfg *config.Config, fs afero.Fs) *Lister {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Lister{Config: cfg, Fs: fs}
}

// Execute renders a table of all cached index documents and whether their
// validators are still trustworthy.
func (l *Lister) Execute() error {
	entries, err := afero.ReadDir(l.Fs, l.Config.CacheDir)
	if err != nil {
		logger.Info("No cache at %s yet. Run 'repofetch fetch' first.", l.Config.CacheDir)
		return nil
	}

	p := printer.NewColorPrinter()
	rows := make([]row, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), stateSuffix) {
			continue
		}
		artifact := strings.TrimSuffix(entry.Name(), stateSuffix) + ".json"
		store := repodata.NewStore(l.Fs, filepath.Join(l.Config.CacheDir, artifact))

		st, err := store.LoadRaw()
		if err != nil {
			logger.Debug("skipping unreadable state %s: %v", entry.Name(), err)
			continue
		}

		status := p.Success("✓ fresh")
		if !store.InSync(st) {
			status = p.Warning("⚠ stale")
		}

		rows = append(rows, row{
			URL:          orDash(st.URL),
			Etag:         truncate(st.Etag, 24),
			LastModified: orDash(st.Mod),
			Size:         humanSize(st.Size),
			Status:       status,
		})
	}

	if len(rows) == 0 {
		logger.Info("No cached channels in %s.", l.Config.CacheDir)
		return nil
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].URL < rows[j].URL })

	table := logger.CreateTable([]string{"Channel", "Etag", "Last-Modified", "Size", "State"})
	for _, r := range rows {
		if err := table.Append([]string{r.URL, r.Etag, r.LastModified, r.Size, r.Status}); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func truncate(s string, n int) string {
	if s == "" {
		return "—"
	}
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/repofetch/internal/channel"
	"github.com/MrSnakeDoc/repofetch/internal/config"
	"github.com/MrSnakeDoc/repofetch/internal/logger"
	"github.com/MrSnakeDoc/repofetch/internal/repodata"
	"github.com/MrSnakeDoc/repofetch/internal/service"
	"github.com/spf13/afero"
)

// emptyRepodata is cached for channels that are valid but have no content
// for a platform, so later runs can answer from the cache.
var emptyRepodata = []byte("{}\n")

// Manager drives one fetch run: per channel subdir it loads the cache state,
// performs the conditional fetch, and persists document plus state.
type Manager struct {
	Config *config.Config
	Client service.HTTPClient
	Fs     afero.Fs
}

func New(cfg *config.Config, client service.HTTPClient, fs afero.Fs) *Manager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Manager{
		Config: cfg,
		Client: client,
		Fs:     fs,
	}
}

// Execute fetches the index documents for the given channels. Empty channels
// falls back to the configured list; empty subdirs falls back to the running
// platform plus noarch. The first hard failure aborts the run.
func (m *Manager) Execute(ctx context.Context, channels, subdirs []string) error {
	if len(channels) == 0 {
		channels = m.Config.Channels
	}
	if len(channels) == 0 {
		return fmt.Errorf("no channels given and none configured. Add channels to your config or pass them as arguments")
	}
	if len(subdirs) == 0 {
		subdirs = m.Config.Subdirs
	}
	if len(subdirs) == 0 {
		subdirs = []string{channel.PlatformSubdir(), channel.NoarchSubdir}
	}

	for _, ch := range channels {
		if _, err := channel.Parse(ch); err != nil {
			return err
		}
		for _, subdir := range subdirs {
			if err := m.fetchOne(ctx, ch, subdir); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Manager) fetchOne(ctx context.Context, ch, subdir string) error {
	subdirURL := channel.SubdirURL(ch, subdir)
	artifact := repodata.CachePath(m.Config.CacheDir, subdirURL, m.Config.RepodataFn)
	store := repodata.NewStore(m.Fs, artifact)
	state := store.Load()

	opts := repodata.TranslateOptions{
		PermissiveNoarch: m.Config.AllowNonChannelURLs,
		ChannelAlias:     m.Config.ChannelAlias,
		DefaultHost:      m.Config.DefaultHost,
	}

	httpc := m.Client
	if httpc == nil {
		var err error
		httpc, err = service.NewHTTPClient(service.Settings{
			ConnectTimeout: m.Config.ConnectTimeout(),
			ReadTimeout:    m.Config.ReadTimeout(),
			Proxy:          m.Config.Proxy,
			SSLVerify:      m.Config.SSLVerify,
			CABundle:       m.Config.CABundle,
		})
		if err != nil {
			return repodata.Translate(subdirURL, m.Config.RepodataFn, err, 0, "", 0, opts)
		}
	}

	client := repodata.NewClient(httpc, subdirURL, m.Config.RepodataFn, opts)

	res, err := client.Fetch(ctx, state)
	if err != nil {
		var he *repodata.HTTPError
		if errors.As(err, &he) && he.Soft() {
			logger.Warn("%s has no content for this platform, caching an empty index", subdirURL)
			state.ReplaceWithHeaders(subdirURL, "", "", "")
			return m.persist(store, state, emptyRepodata)
		}
		return err
	}

	switch res.Kind {
	case repodata.NotModified:
		logger.Info("%s is unchanged, reusing cached copy", subdirURL)
		return nil
	case repodata.Fresh:
		if err := m.persist(store, state, res.Body); err != nil {
			return err
		}
		logger.Success("fetched %s (%d bytes)", subdirURL, len(res.Body))
		return nil
	default:
		return fmt.Errorf("unexpected fetch outcome %d for %s", res.Kind, subdirURL)
	}
}

// persist writes the document first and the state second; a crash in between
// is observed as stale state on the next load and only costs a re-fetch.
func (m *Manager) persist(store *repodata.Store, state *repodata.State, body []byte) error {
	if err := store.WriteDocument(body); err != nil {
		return err
	}
	return store.Save(state)
}

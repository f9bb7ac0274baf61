// Package filecache provides an existence-checked, write-once local file
// store. Cached documents and preview images persist across renders; the
// presence of a file is the sole freshness signal.
package filecache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// ErrNotFound is returned by a Fetcher when the remote side has no
// content for the requested file.
var ErrNotFound = errors.New("no content available")

// Fetcher retrieves the raw bytes for a cache entry. It returns
// ErrNotFound (possibly wrapped) when the content does not exist.
type Fetcher func() ([]byte, error)

// Warnf receives advisory messages (failed downloads, directory
// creation). The render continues after every warning.
type Warnf func(format string, args ...any)

// Cache is a fetch-if-absent file store rooted anywhere on the local
// filesystem. Concurrent fetches of the same target path are serialized
// with an in-process mutex per path plus a lock file, so two renders
// sharing a cache directory cannot interleave the existence check and
// the write. The already-exists fast path stays lock-free.
type Cache struct {
	warnf Warnf

	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

// New creates a Cache. A nil warnf suppresses advisory output.
func New(warnf Warnf) *Cache {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &Cache{
		warnf: warnf,
		paths: make(map[string]*sync.Mutex),
	}
}

// FetchIfAbsent returns the path dir/fileName, fetching and writing the
// content first unless the file already exists.
//
// A fetch failure is advisory: the intended path is still returned so
// the caller can emit a link, and a warning describes the failure. Only
// filesystem errors (directory or file creation) abort.
func (c *Cache) FetchIfAbsent(dir, fileName string, fetch Fetcher) (string, error) {
	target := filepath.Join(dir, fileName)

	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	if err := c.ensureDir(dir); err != nil {
		return "", err
	}

	unlock := c.lockPath(target)
	defer unlock()

	fl := flock.New(target + ".lock")
	if err := fl.Lock(); err == nil {
		defer func() {
			_ = fl.Unlock()
			_ = os.Remove(fl.Path())
		}()
	}

	// Re-check: another holder may have written the file while we waited.
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	data, err := fetch()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.warnf("no content for %s: %v", target, err)
		} else {
			c.warnf("fetching %s: %v", target, err)
		}
		return target, nil
	}

	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", target, err)
	}
	return target, nil
}

// FetchPreview caches a preview image under a size-qualified
// subdirectory. The stored name is always fileName + ".jpg", whatever
// the source file's real extension.
func (c *Cache) FetchPreview(dir, size, fileName string, fetch Fetcher) (string, error) {
	return c.FetchIfAbsent(filepath.Join(dir, size), fileName+".jpg", fetch)
}

func (c *Cache) ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	c.warnf("created cache directory %s", dir)
	return nil
}

func (c *Cache) lockPath(target string) func() {
	c.mu.Lock()
	m, ok := c.paths[target]
	if !ok {
		m = &sync.Mutex{}
		c.paths[target] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

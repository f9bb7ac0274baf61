// Package pipeline orchestrates one render pass: fetch posts, sort,
// select public documents, resolve cache paths, and assemble the HTML
// fragment.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bibsonomy/publist/internal/bibsonomy"
	"github.com/bibsonomy/publist/internal/cacheindex"
	"github.com/bibsonomy/publist/internal/citation"
	"github.com/bibsonomy/publist/internal/filecache"
	"github.com/bibsonomy/publist/internal/post"
	"github.com/bibsonomy/publist/internal/render"
)

// Store supplies posts and raw content from the reference service.
// bibsonomy.Client is the production implementation.
type Store interface {
	Posts(ctx context.Context, user string, tags []string, start, end int) (map[post.ID]post.Post, error)
	Document(ctx context.Context, user, intraHash, fileName string) ([]byte, error)
	Preview(ctx context.Context, user, intraHash, fileName, size string) ([]byte, error)
	BibTeX(ctx context.Context, user, intraHash string) (string, error)
	PageURL(id post.ID) string
	BibTeXURL(id post.ID) string
}

// Renderer wires the pipeline components for repeated render calls.
// Options are fixed at construction; concurrent Render calls share the
// file cache's per-path locks.
type Renderer struct {
	store     Store
	formatter citation.Formatter
	cache     *filecache.Cache
	index     *cacheindex.DB
	opts      render.Options
	warnf     filecache.Warnf
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWarnf routes advisory warnings to a custom sink. The default
// writes "Warning: ..." lines to stderr.
func WithWarnf(warnf filecache.Warnf) Option {
	return func(r *Renderer) {
		r.warnf = warnf
	}
}

// WithIndex records every downloaded file in the given manifest.
func WithIndex(index *cacheindex.DB) Option {
	return func(r *Renderer) {
		r.index = index
	}
}

// New creates a Renderer.
func New(store Store, formatter citation.Formatter, opts render.Options, rOpts ...Option) *Renderer {
	r := &Renderer{
		store:     store,
		formatter: formatter,
		opts:      opts.Normalize(),
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
	for _, opt := range rOpts {
		opt(r)
	}
	r.cache = filecache.New(r.warnf)
	return r
}

// Render fetches up to count posts of user (restricted to tags when
// non-empty) and returns the assembled HTML fragment.
//
// A failed post fetch or citation batch is fatal. Everything else —
// missing documents, failed previews, name collisions — is logged and
// the render continues, so a partially fetchable collection still
// yields best-effort HTML.
func (r *Renderer) Render(ctx context.Context, user string, tags []string, count int) (string, error) {
	posts, err := r.store.Posts(ctx, user, tags, 0, count)
	if err != nil {
		return "", fmt.Errorf("fetching posts for %s: %w", user, err)
	}

	citations, err := r.formatter.Format(ctx, posts, r.opts.Style)
	if err != nil {
		return "", fmt.Errorf("rendering citations: %w", err)
	}

	ids := post.SortForDisplay(posts)
	claims := filecache.NewClaimSet()

	entries := make(map[post.ID]render.Entry, len(posts))
	for _, id := range ids {
		entry, err := r.buildEntry(ctx, posts[id], citations[id], claims)
		if err != nil {
			return "", err
		}
		entries[id] = entry
	}

	return render.NewAssembler(r.opts).Assemble(ids, entries), nil
}

// buildEntry resolves the cache paths and extra content for one post.
func (r *Renderer) buildEntry(ctx context.Context, p post.Post, fragment string, claims *filecache.ClaimSet) (render.Entry, error) {
	entry := render.Entry{Post: p, Citation: fragment}
	id := p.ID

	for _, doc := range post.PublicDocuments(p.Documents, r.opts.PublicDocPostfix) {
		link := render.DocumentLink{FileName: doc.FileName}

		if r.opts.LinkPDFs && r.opts.PDFDir != "" {
			finalName := filecache.DocumentName(doc.FileName, r.opts.PublicDocPostfix)
			target := filepath.Join(r.opts.PDFDir, finalName)
			if !claims.Claim(target, id.String()+"/"+doc.FileName) {
				r.warnf("document %s of post %s collides with an earlier download at %s",
					doc.FileName, id, target)
			}

			path, err := r.cache.FetchIfAbsent(r.opts.PDFDir, finalName, r.documentFetcher(ctx, id, doc.FileName))
			if err != nil {
				return render.Entry{}, err
			}
			link.Path = path
			r.recordDownload(path, id, doc.FileName, "document")
		}

		if r.opts.PreviewDir != "" {
			path, err := r.cache.FetchPreview(r.opts.PreviewDir, r.opts.PreviewSize, doc.FileName,
				r.previewFetcher(ctx, id, doc.FileName))
			if err != nil {
				return render.Entry{}, err
			}
			link.PreviewPath = path
			r.recordDownload(path, id, doc.FileName, "preview")
		}

		entry.Documents = append(entry.Documents, link)
	}

	switch r.opts.BibTeXMode() {
	case render.BibTeXLink:
		entry.BibTeXURL = r.store.BibTeXURL(id)
	case render.BibTeXEmbedded:
		text, err := r.store.BibTeX(ctx, id.User(), id.IntraHash())
		if err != nil {
			r.warnf("fetching BibTeX for %s: %v", id, err)
		} else {
			entry.BibTeX = text
		}
	}

	if r.opts.BibsonomyLink {
		entry.PageURL = r.store.PageURL(id)
	}

	return entry, nil
}

// documentFetcher adapts the store's document retrieval to the cache's
// Fetcher contract, translating the service's not-found signal.
func (r *Renderer) documentFetcher(ctx context.Context, id post.ID, fileName string) filecache.Fetcher {
	return func() ([]byte, error) {
		data, err := r.store.Document(ctx, id.User(), id.IntraHash(), fileName)
		if err != nil {
			if bibsonomy.IsNotFound(err) {
				return nil, fmt.Errorf("%w: post %s document %s", filecache.ErrNotFound, id, fileName)
			}
			return nil, err
		}
		return data, nil
	}
}

func (r *Renderer) previewFetcher(ctx context.Context, id post.ID, fileName string) filecache.Fetcher {
	return func() ([]byte, error) {
		data, err := r.store.Preview(ctx, id.User(), id.IntraHash(), fileName, r.opts.PreviewSize)
		if err != nil {
			if bibsonomy.IsNotFound(err) {
				return nil, fmt.Errorf("%w: post %s preview %s", filecache.ErrNotFound, id, fileName)
			}
			return nil, err
		}
		return data, nil
	}
}

// recordDownload notes a cached file in the manifest. Only files that
// actually exist are recorded; manifest failures are advisory.
func (r *Renderer) recordDownload(path string, id post.ID, sourceFile, kind string) {
	if r.index == nil {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	err = r.index.Record(cacheindex.Entry{
		Path:       path,
		IntraHash:  id.IntraHash(),
		User:       id.User(),
		SourceFile: sourceFile,
		Kind:       kind,
		Size:       info.Size(),
		FetchedAt:  time.Now(),
	})
	if err != nil {
		r.warnf("updating cache manifest: %v", err)
	}
}

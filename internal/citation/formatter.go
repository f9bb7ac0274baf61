// Package citation produces one styled citation fragment per post. The
// heavy lifting of citation styles lives in the remote service; this
// package defines the boundary and a plain local fallback.
package citation

import (
	"context"

	"github.com/bibsonomy/publist/internal/post"
)

// Formatter renders one citation fragment per post for a given style.
// Returned fragments are HTML and inserted into the final markup as-is.
type Formatter interface {
	Format(ctx context.Context, posts map[post.ID]post.Post, style string) (map[post.ID]string, error)
}

// LayoutService is the slice of the BibSonomy client the remote
// formatter needs.
type LayoutService interface {
	Layout(ctx context.Context, user, intraHash, style string) (string, error)
}

// Remote renders citations through the service's layout endpoint.
type Remote struct {
	svc LayoutService
}

// NewRemote creates a Formatter backed by the remote layout endpoint.
func NewRemote(svc LayoutService) *Remote {
	return &Remote{svc: svc}
}

// Format fetches the rendered fragment for every post. A failure for any
// post aborts the batch; the caller treats formatter errors as fatal.
func (r *Remote) Format(ctx context.Context, posts map[post.ID]post.Post, style string) (map[post.ID]string, error) {
	out := make(map[post.ID]string, len(posts))
	for id := range posts {
		fragment, err := r.svc.Layout(ctx, id.User(), id.IntraHash(), style)
		if err != nil {
			return nil, err
		}
		out[id] = fragment
	}
	return out, nil
}

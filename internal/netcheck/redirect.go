package netcheck

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

const maxRedirects = 10

type recorderKey struct{}

// redirectRecorder accumulates the URLs visited while the client
// follows redirects for a single request. It travels via the request
// context so the shared client needs no per-request state.
type redirectRecorder struct {
	mu   sync.Mutex
	hops []string
}

func withRedirectRecorder(ctx context.Context, rec *redirectRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// recordRedirects is installed as the shared client's CheckRedirect.
// Requests without a recorder in their context just get the default
// redirect limit.
func recordRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}
	rec, ok := req.Context().Value(recorderKey{}).(*redirectRecorder)
	if !ok {
		return nil
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.hops) == 0 {
		rec.hops = append(rec.hops, via[0].URL.String())
	}
	rec.hops = append(rec.hops, req.URL.String())
	return nil
}

// chain returns the visited URLs ending at finalURL, or nil when no
// redirect happened.
func (r *redirectRecorder) chain(finalURL string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.hops) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.hops)+1)
	out = append(out, r.hops...)
	if finalURL != "" && out[len(out)-1] != finalURL {
		out = append(out, finalURL)
	}
	return out
}

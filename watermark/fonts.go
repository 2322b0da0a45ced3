package watermark

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Built-in font used whenever the watermark text is pure 7-bit ASCII.
// No network access is involved.
const (
	BuiltinFontFamily = "Helvetica"
	BuiltinFontStyle  = "B"

	// embeddedFamily is the name the fetched font is registered under.
	embeddedFamily = "watermark-cjk"
)

// DefaultFontTimeout bounds each individual source attempt.
const DefaultFontTimeout = 2 * time.Minute

// DefaultFontSources lists the remote locations tried in order when the
// watermark text needs a wide-glyph font. First HTTP success wins; the
// response body is trusted as-is on a 200 status.
var DefaultFontSources = []string{
	"https://cdn.jsdelivr.net/gh/StellarCN/scp_zh/fonts/SimHei.ttf",
	"https://fastly.jsdelivr.net/gh/StellarCN/scp_zh/fonts/SimHei.ttf",
	"https://raw.githubusercontent.com/StellarCN/scp_zh/master/fonts/SimHei.ttf",
}

// Font identifies the font the compositor should draw with. Data is nil for
// the built-in standard font and holds raw TrueType bytes otherwise.
type Font struct {
	Family string
	Style  string
	Data   []byte
}

// Embedded reports whether the font must be registered with the document
// before use.
func (f Font) Embedded() bool {
	return len(f.Data) > 0
}

// NeedsEmbeddedFont reports whether text contains any character outside the
// 7-bit ASCII range and therefore requires the fetched wide-glyph font.
func NeedsEmbeddedFont(text string) bool {
	for _, r := range text {
		if r > 0x7f {
			return true
		}
	}
	return false
}

// FontResolver decides which font a given text needs and, when an embedded
// font is required, fetches its bytes from an ordered source list. Fetched
// bytes are cached for the resolver's lifetime, so at most one fetch sequence
// happens per session no matter how many documents are processed. Concurrent
// callers share a single in-flight fetch.
type FontResolver struct {
	Sources []string
	Timeout time.Duration
	Client  *http.Client

	mu     sync.Mutex
	cached []byte
	group  singleflight.Group
}

// NewFontResolver builds a resolver over the given source list. Empty
// sources or a zero timeout fall back to the package defaults.
func NewFontResolver(sources []string, timeout time.Duration) *FontResolver {
	if len(sources) == 0 {
		sources = DefaultFontSources
	}
	if timeout <= 0 {
		timeout = DefaultFontTimeout
	}
	return &FontResolver{Sources: sources, Timeout: timeout}
}

// Resolve returns the font to draw text with. ASCII-only text resolves to
// the built-in bold font immediately. Otherwise the session cache is used,
// or the source list is walked until one responds; if every source fails the
// error wraps ErrFontUnavailable together with the last underlying cause.
func (r *FontResolver) Resolve(ctx context.Context, text string, status StatusFunc) (Font, error) {
	if !NeedsEmbeddedFont(text) {
		return Font{Family: BuiltinFontFamily, Style: BuiltinFontStyle}, nil
	}

	if data := r.cachedFont(); data != nil {
		return Font{Family: embeddedFamily, Data: data}, nil
	}

	v, err, _ := r.group.Do("embedded-font", func() (interface{}, error) {
		// Re-check under the group: a waiter may arrive after the fetch
		// that populated the cache completed.
		if data := r.cachedFont(); data != nil {
			return data, nil
		}
		status.emit(PhaseFontDownload, "text requires an embedded font, downloading")
		data, err := r.fetch(ctx, status)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cached = data
		r.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return Font{}, err
	}
	return Font{Family: embeddedFamily, Data: v.([]byte)}, nil
}

// Preload seeds the session cache, e.g. from a test fixture or a bundled
// font file. Subsequent Resolve calls will not touch the network.
func (r *FontResolver) Preload(data []byte) {
	r.mu.Lock()
	r.cached = data
	r.mu.Unlock()
}

// Reset drops the cached font bytes.
func (r *FontResolver) Reset() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func (r *FontResolver) cachedFont() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached
}

// fetch walks the source list in order. Each attempt gets its own bounded
// timeout; the first success stops iteration.
func (r *FontResolver) fetch(ctx context.Context, status StatusFunc) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultFontTimeout
	}

	var lastErr error
	for i, src := range r.Sources {
		status.emit(PhaseFontSource, fmt.Sprintf("trying font source %d of %d", i+1, len(r.Sources)))

		data, err := fetchOnce(ctx, client, src, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no font sources configured")
	}
	return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, lastErr)
}

func fetchOnce(ctx context.Context, client *http.Client, url string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %v", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v", url, err)
	}
	return data, nil
}

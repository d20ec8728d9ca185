// Package lookup resolves paper titles to scholarly metadata. DBLP is the
// primary source; arXiv supplements preprint links and Semantic Scholar
// supplies citation counts. Responses are cached in the repository's SQLite
// cache so repeated refreshes stay off the network.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aidanlsb/bib/internal/refs"
)

// Errors
var (
	// ErrNoMatch indicates no source returned a publication matching the title.
	ErrNoMatch = errors.New("no matching publication found")
)

const defaultTimeout = 15 * time.Second

// Client queries the metadata sources. Base URLs are overridable for tests.
type Client struct {
	HTTPClient   *http.Client
	DBLPBaseURL  string
	ArxivBaseURL string
	S2BaseURL    string
	Cache        *Cache
}

// NewClient returns a client with production endpoints. A nil cache disables
// response caching.
func NewClient(cache *Cache) *Client {
	return &Client{
		HTTPClient:   &http.Client{Timeout: defaultTimeout},
		DBLPBaseURL:  "https://dblp.org",
		ArxivBaseURL: "https://export.arxiv.org",
		S2BaseURL:    "https://api.semanticscholar.org",
		Cache:        cache,
	}
}

// Search resolves a title to a single consolidated reference: the first DBLP
// hit whose title matches exactly (case-insensitive), supplemented with an
// arXiv link and a citation count. Returns ErrNoMatch when DBLP has no
// matching hit.
func (c *Client) Search(ctx context.Context, title string) (*refs.Reference, error) {
	candidates, err := c.Candidates(ctx, title)
	if err != nil {
		return nil, err
	}
	for _, cand := range candidates {
		if strings.EqualFold(cand.Title, title) {
			c.Supplement(ctx, cand)
			return cand, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoMatch, title)
}

// Candidates returns the DBLP hits for a title, in result order, without
// supplements. Callers that let the user pick one should call Supplement on
// the chosen candidate.
func (c *Client) Candidates(ctx context.Context, title string) ([]*refs.Reference, error) {
	candidates, err := c.searchDBLP(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}
	return candidates, nil
}

// Supplement fills in what DBLP does not carry: an arXiv link when the
// reference has no URL, and the citation count. Supplement failures are
// ignored; the reference is usable without them.
func (c *Client) Supplement(ctx context.Context, ref *refs.Reference) {
	if ref.URL == "" {
		if url, err := c.searchArxiv(ctx, ref.Title, firstLastName(ref)); err == nil && url != "" {
			ref.URL = url
		}
	}
	if count, err := c.citationCount(ctx, ref.Title); err == nil && count != "" {
		ref.NumCitations = count
	}
}

func firstLastName(ref *refs.Reference) string {
	names := ref.LastNames()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// fetch issues a GET through the cache. Cache errors degrade to a network
// fetch rather than failing the lookup.
func (c *Client) fetch(ctx context.Context, source, url string) ([]byte, error) {
	if c.Cache != nil {
		if body, ok, err := c.Cache.Get(source, url); err == nil && ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", source, err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", source, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", source, err)
	}

	if c.Cache != nil {
		_ = c.Cache.Put(source, url, body)
	}
	return body, nil
}

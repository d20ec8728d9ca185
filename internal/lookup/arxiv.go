package lookup

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
)

// searchArxiv returns the arXiv abstract URL for the title, or "" when the
// top hit's title does not match exactly. The first author's last name is
// added to the query when known, which keeps short titles from matching the
// wrong paper.
func (c *Client) searchArxiv(ctx context.Context, title, lastName string) (string, error) {
	query := `ti:"` + title + `"`
	if lastName != "" {
		query += ` AND au:"` + lastName + `"`
	}
	u := c.ArxivBaseURL + "/api/query?search_query=" + url.QueryEscape(query) + "&max_results=1"

	body, err := c.fetch(ctx, "arxiv", u)
	if err != nil {
		return "", err
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", fmt.Errorf("failed to parse arxiv feed: %w", err)
	}
	if len(feed.Entries) == 0 {
		return "", nil
	}

	entry := feed.Entries[0]
	entryTitle := strings.TrimSpace(collapseSpace.ReplaceAllString(entry.Title, " "))
	if !strings.EqualFold(entryTitle, title) {
		return "", nil
	}
	return strings.TrimSpace(entry.ID), nil
}

// arxivFeed is the slice of the Atom response we care about. The entry ID is
// the abstract URL.
type arxivFeed struct {
	XMLName xml.Name     `xml:"feed"`
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID    string `xml:"id"`
	Title string `xml:"title"`
}

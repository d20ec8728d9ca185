package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aidanlsb/bib/internal/refs"
)

var (
	collapseSpace = regexp.MustCompile(`\s+`)
	// DBLP disambiguates homonymous authors with a trailing 4-digit suffix,
	// e.g. "Wei Wang 0001".
	authorSuffix = regexp.MustCompile(`\s+\d{4}$`)
)

func (c *Client) searchDBLP(ctx context.Context, query string) ([]*refs.Reference, error) {
	u := c.DBLPBaseURL + "/search/publ/api?q=" + url.QueryEscape(query) + "&format=json"
	body, err := c.fetch(ctx, "dblp", u)
	if err != nil {
		return nil, err
	}

	var resp dblpResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse dblp response: %w", err)
	}

	results := make([]*refs.Reference, 0, len(resp.Result.Hits.Hit))
	for _, hit := range resp.Result.Hits.Hit {
		results = append(results, hit.Info.reference())
	}
	return results, nil
}

type dblpResponse struct {
	Result struct {
		Hits struct {
			Hit []dblpHit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type dblpHit struct {
	Info dblpInfo `json:"info"`
}

type dblpInfo struct {
	Title   string      `json:"title"`
	Authors dblpAuthors `json:"authors"`
	Venue   dblpStrings `json:"venue"`
	Year    string      `json:"year"`
	Type    string      `json:"type"`
	EE      string      `json:"ee"`
}

func (info dblpInfo) reference() *refs.Reference {
	title := strings.TrimSpace(collapseSpace.ReplaceAllString(info.Title, " "))
	title = strings.TrimSuffix(title, ".")

	authors := make([]string, 0, len(info.Authors.Names))
	for _, name := range info.Authors.Names {
		authors = append(authors, authorSuffix.ReplaceAllString(name, ""))
	}

	return &refs.Reference{
		Kind:   kindFromDBLPType(info.Type),
		Title:  title,
		Author: strings.Join(authors, ", "),
		Venue:  strings.Join(info.Venue, ", "),
		Year:   info.Year,
		URL:    info.EE,
	}
}

func kindFromDBLPType(t string) refs.Kind {
	switch t {
	case "Journal Articles":
		return refs.KindArticle
	case "Conference and Workshop Papers":
		return refs.KindInProceedings
	default:
		return refs.KindMisc
	}
}

// dblpAuthors tolerates the API's shape drift: "authors" is an object whose
// "author" member is a single entry or a list, and each entry is a bare
// string or an object with a "text" member.
type dblpAuthors struct {
	Names []string
}

func (a *dblpAuthors) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Author) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(wrapper.Author, &entries); err != nil {
		entries = []json.RawMessage{wrapper.Author}
	}

	for _, raw := range entries {
		name, err := decodeAuthorEntry(raw)
		if err != nil {
			return err
		}
		if name != "" {
			a.Names = append(a.Names, name)
		}
	}
	return nil
}

func decodeAuthorEntry(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("failed to parse dblp author entry: %w", err)
	}
	return obj.Text, nil
}

// dblpStrings decodes a member that is either one string or a list of them.
type dblpStrings []string

func (v *dblpStrings) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = dblpStrings{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*v = dblpStrings(list)
	return nil
}

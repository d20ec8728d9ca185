package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// citationCount asks Semantic Scholar for the paper's citation count. The
// top hit must match the title case-insensitively; otherwise "" is returned.
func (c *Client) citationCount(ctx context.Context, title string) (string, error) {
	u := c.S2BaseURL + "/graph/v1/paper/search?query=" + url.QueryEscape(title) +
		"&fields=title,citationCount&limit=1"

	body, err := c.fetch(ctx, "semanticscholar", u)
	if err != nil {
		return "", err
	}

	var resp s2Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse semantic scholar response: %w", err)
	}
	if len(resp.Data) == 0 {
		return "", nil
	}

	paper := resp.Data[0]
	if !strings.EqualFold(strings.TrimSpace(paper.Title), title) {
		return "", nil
	}
	return strconv.Itoa(paper.CitationCount), nil
}

type s2Response struct {
	Data []struct {
		Title         string `json:"title"`
		CitationCount int    `json:"citationCount"`
	} `json:"data"`
}

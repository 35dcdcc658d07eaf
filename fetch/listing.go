package fetch

import (
	"context"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// List fetches the index page of |dirURL| and returns the absolute URLs of
// its entries, in page order. Self and parent navigation links, sort links,
// and anything not under |dirURL| are excluded. An empty directory yields an
// empty, non-nil slice: "nothing listed" is distinct from "listing failed".
// Authentication follows the Client's two-attempt contract.
func (c *Client) List(ctx context.Context, dirURL string) ([]string, error) {
	if !strings.HasSuffix(dirURL, "/") {
		dirURL += "/"
	}
	var base, err = url.Parse(dirURL)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, dirURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var entries = []string{}
	var z = html.NewTokenizer(body)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return entries, nil
			}
			return nil, &TransferError{URL: dirURL, Err: z.Err()}

		case html.StartTagToken, html.SelfClosingTagToken:
			var tok = z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key != "href" {
					continue
				}
				if entry, ok := resolveEntry(base, attr.Val); ok {
					entries = append(entries, entry)
				}
			}
		}
	}
}

// resolveEntry resolves |href| against the directory |base|, and reports
// whether it names a child of the directory.
func resolveEntry(base *url.URL, href string) (string, bool) {
	var ref, err = url.Parse(href)
	if err != nil {
		return "", false
	}
	var abs = base.ResolveReference(ref)

	// Sort-order and navigation links aren't directory entries.
	if abs.RawQuery != "" || abs.Fragment != "" {
		return "", false
	}
	var s = abs.String()
	if s == base.String() || !strings.HasPrefix(s, base.String()) {
		return "", false
	}
	return s, true
}

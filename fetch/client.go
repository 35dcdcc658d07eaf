// Package fetch implements authenticated, atomic retrieval of files and
// directory listings from the DESI data archive.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/desihub/desida/auth"
	"github.com/desihub/desida/metrics"
)

// AuthenticationError indicates a request which was refused even after
// credentials were supplied. It is terminal: retrying with the same
// credentials cannot succeed.
type AuthenticationError struct {
	URL string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("unauthorized (after supplying credentials): %s", e.URL)
}

// TransferError indicates any other failed transfer: a transport fault, or a
// non-200 response which isn't an authorization challenge.
type TransferError struct {
	URL    string
	Status string
	Err    error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer of %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("transfer of %s: %s", e.URL, e.Status)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Client retrieves archive resources rooted at a shared remote base URL, and
// mirrors them under a local root directory. All operations are sequential
// and blocking. Client is not safe for concurrent use against a shared
// destination tree.
type Client struct {
	// HTTP performs requests. Its Timeout bounds each attempt.
	HTTP *http.Client
	// Fs receives downloaded files.
	Fs afero.Fs
	// Creds is consulted on the first authorization challenge.
	Creds *auth.Store
	// Base is the shared remote prefix stripped when deriving local paths.
	Base *url.URL
	// Root is the local directory which mirrors Base.
	Root string
}

// NewClient returns a Client mirroring |baseURL| under |root|.
func NewClient(creds *auth.Store, baseURL, root string, timeout time.Duration) (*Client, error) {
	var base, err = url.Parse(baseURL)
	if err != nil {
		return nil, err
	} else if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return &Client{
		HTTP:  &http.Client{Timeout: timeout},
		Fs:    afero.NewOsFs(),
		Creds: creds,
		Base:  base,
		Root:  root,
	}, nil
}

// get issues a GET of |src| and returns its body on HTTP 200. The first
// attempt carries no credentials. On a 401, credentials are loaded from the
// Store and the request is retried exactly once; a second 401 is terminal.
// Every logical get issues at most two requests.
func (c *Client) get(ctx context.Context, src string) (io.ReadCloser, error) {
	var body, status, err = c.attempt(ctx, src, nil)
	if err != nil {
		return nil, &TransferError{URL: src, Err: err}
	} else if status == http.StatusOK {
		return body, nil
	} else if status != http.StatusUnauthorized {
		return nil, &TransferError{URL: src, Status: http.StatusText(status)}
	}

	var creds auth.Credentials
	if creds, err = c.Creds.Load(); err != nil {
		return nil, err
	}

	if body, status, err = c.attempt(ctx, src, &creds); err != nil {
		return nil, &TransferError{URL: src, Err: err}
	} else if status == http.StatusOK {
		return body, nil
	} else if status == http.StatusUnauthorized {
		return nil, &AuthenticationError{URL: src}
	}
	return nil, &TransferError{URL: src, Status: http.StatusText(status)}
}

func (c *Client) attempt(ctx context.Context, src string, creds *auth.Credentials) (io.ReadCloser, int, error) {
	var req, err = http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, 0, err
	}
	if creds != nil {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	metrics.FetchRequestsTotal.Inc()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, resp.StatusCode, nil
	}
	return resp.Body, resp.StatusCode, nil
}

// LocalPath maps a remote URL under Base to its mirror path under Root.
func (c *Client) LocalPath(src string) (string, error) {
	var rel = strings.TrimPrefix(src, strings.TrimSuffix(c.Base.String(), "/")+"/")
	if rel == src || rel == "" {
		return "", fmt.Errorf("%s is not under remote base %s", src, c.Base)
	}
	return joinLocal(c.Root, rel), nil
}

// Package realdebrid implements the debrid.Client interface against the
// Real-Debrid REST API (v1.0).
package realdebrid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jadeaffenjaeger/rdclipper/internal/debrid"
	"github.com/jadeaffenjaeger/rdclipper/internal/logctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.real-debrid.com/rest/1.0"

type Client struct {
	// BaseURL can be overridden for tests; defaults to the public API.
	BaseURL    string
	httpClient *http.Client
}

// NewClient builds a Real-Debrid client authenticated with the given API
// token. No request timeout is set: the monitor loop makes all calls
// synchronously and a hung call stalls the loop rather than failing it.
func NewClient(token string) *Client {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	oauthClient := oauth2.NewClient(context.Background(), tokenSource)
	oauthClient.Transport = otelhttp.NewTransport(oauthClient.Transport)

	return &Client{
		BaseURL:    defaultBaseURL,
		httpClient: oauthClient,
	}
}

var _ debrid.Client = (*Client)(nil)

// Authenticate verifies the API token against the account endpoint.
func (c *Client) Authenticate(ctx context.Context) error {
	logger := logctx.LoggerFromContext(ctx)

	var user struct {
		Username string `json:"username"`
		Type     string `json:"type"`
	}

	if err := c.get(ctx, "user_info", "/user", &user); err != nil {
		var apiErr *debrid.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return &debrid.AuthenticationError{Operation: "user_info", Err: err}
		}

		return err
	}

	logger.InfoContext(ctx, "authenticated with Real-Debrid", "user", user.Username, "account_type", user.Type)

	return nil
}

// Domains returns the hostnames of all hosters the service can unrestrict.
func (c *Client) Domains(ctx context.Context) ([]string, error) {
	var domains []string
	if err := c.get(ctx, "hosts_domains", "/hosts/domains", &domains); err != nil {
		return nil, err
	}

	return domains, nil
}

type torrentEntry struct {
	ID       string   `json:"id"`
	Hash     string   `json:"hash"`
	Status   string   `json:"status"`
	Filename string   `json:"filename"`
	Bytes    int64    `json:"bytes"`
	Progress float64  `json:"progress"`
	Links    []string `json:"links"`
}

// Torrents returns the account's live torrent list. This is the
// authoritative view used for submission dedup.
func (c *Client) Torrents(ctx context.Context) ([]debrid.Torrent, error) {
	var entries []torrentEntry
	if err := c.get(ctx, "torrents", "/torrents", &entries); err != nil {
		return nil, err
	}

	torrents := make([]debrid.Torrent, 0, len(entries))
	for _, e := range entries {
		torrents = append(torrents, debrid.Torrent{
			ID:       e.ID,
			Hash:     e.Hash,
			Status:   e.Status,
			Filename: e.Filename,
			Bytes:    e.Bytes,
		})
	}

	return torrents, nil
}

// AddMagnet queues a magnet link and returns the new torrent id.
func (c *Client) AddMagnet(ctx context.Context, uri string) (string, error) {
	var resp struct {
		ID  string `json:"id"`
		URI string `json:"uri"`
	}

	form := url.Values{"magnet": {uri}}
	if err := c.postForm(ctx, "add_magnet", "/torrents/addMagnet", form, &resp); err != nil {
		return "", err
	}

	return resp.ID, nil
}

// SelectFiles tells the service which files of a queued torrent to fetch.
// The monitor always passes "all".
func (c *Client) SelectFiles(ctx context.Context, id, files string) error {
	form := url.Values{"files": {files}}

	return c.postForm(ctx, "select_files", "/torrents/selectFiles/"+id, form, nil)
}

// TorrentInfo returns the current status of a single torrent.
func (c *Client) TorrentInfo(ctx context.Context, id string) (*debrid.TorrentStatus, error) {
	var e torrentEntry
	if err := c.get(ctx, "torrent_info", "/torrents/info/"+id, &e); err != nil {
		return nil, err
	}

	return &debrid.TorrentStatus{
		ID:       e.ID,
		Hash:     e.Hash,
		Status:   e.Status,
		Filename: e.Filename,
		Bytes:    e.Bytes,
		Progress: e.Progress,
		Links:    e.Links,
	}, nil
}

// UnrestrictLink converts a hoster link into a direct-download link.
func (c *Client) UnrestrictLink(ctx context.Context, link string) (*debrid.Unrestricted, error) {
	var resp struct {
		Download string `json:"download"`
		Filename string `json:"filename"`
		Filesize int64  `json:"filesize"`
		Host     string `json:"host"`
	}

	form := url.Values{"link": {link}}
	if err := c.postForm(ctx, "unrestrict_link", "/unrestrict/link", form, &resp); err != nil {
		return nil, err
	}

	return &debrid.Unrestricted{
		Download: resp.Download,
		Filename: resp.Filename,
		Filesize: resp.Filesize,
		Host:     resp.Host,
	}, nil
}

func (c *Client) get(ctx context.Context, operation, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", operation, err)
	}

	return c.do(req, operation, out)
}

func (c *Client) postForm(ctx context.Context, operation, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building %s request: %w", operation, err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, operation, out)
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &debrid.APIError{Operation: operation, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		return &debrid.APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &debrid.APIError{Operation: operation, Message: "malformed response body", Err: err}
	}

	return nil
}

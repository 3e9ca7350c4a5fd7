// Package hub is a minimal client for the public Docker Hub repository API:
// the paginated tag listing, and the per-tag image details, both served
// anonymously for every public repository.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rangerelf/docker-tags/version"
)

// DefaultBaseURL is the endpoint the zero-value Client talks to.
const DefaultBaseURL = "https://registry.hub.docker.com"

// defaultPageSize is the page_size sent with tag listing requests. 100 is
// the largest page the Hub serves; fewer round trips, same results.
const defaultPageSize = 100

var userAgent = "docker-tags/" + version.Version

// Client queries the Docker Hub repository API. The zero value is ready to
// use and talks to the real Hub. A Client is safe for concurrent use if its
// Sink is.
type Client struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// Client is used for every request, http.DefaultClient if nil.
	Client *http.Client
	// PageSize overrides defaultPageSize when positive.
	PageSize int
	// Sink, if set, receives a copy of every response body as it arrives,
	// before any parsing and regardless of the response status. A failed
	// write is logged and otherwise ignored.
	Sink io.Writer
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// Tags returns the tags of repository in the order the registry lists them,
// most recently pushed first, walking every page of the listing. The
// sequence is lazy, pages are fetched as the consumer advances, and each
// range starts over from the first page. Iteration ends after yielding the
// first error.
func (c *Client) Tags(ctx context.Context, repository string) iter.Seq2[Tag, error] {
	return func(yield func(Tag, error) bool) {
		for page, err := range c.TagPages(ctx, repository) {
			if err != nil {
				yield(Tag{}, err)
				return
			}
			for _, tag := range page.Results {
				if !yield(tag, nil) {
					return
				}
			}
		}
	}
}

// TagPages returns the pages of the repository's tag listing, following the
// pagination cursor until the registry reports no further page. Like Tags,
// the sequence is lazy and every range starts from the first page again.
func (c *Client) TagPages(ctx context.Context, repository string) iter.Seq2[*TagsPage, error] {
	return func(yield func(*TagsPage, error) bool) {
		next := fmt.Sprintf("%s/v2/repositories/%s/tags/?page_size=%d", c.baseURL(), repository, c.pageSize())
		for next != "" {
			page, err := c.tagPage(ctx, next)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			next = ""
			if page.Next != nil {
				next = *page.Next
			}
		}
	}
}

func (c *Client) tagPage(ctx context.Context, pageURL string) (*TagsPage, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	page := TagsPage{}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, &InvalidResponseError{URL: pageURL, Err: err}
	}
	page.Raw = body
	return &page, nil
}

// TagImages fetches the per-architecture details of a single tag. The
// details endpoint reflects the registry's current state, which can be
// fresher than the image summaries embedded in the tag listing.
func (c *Client) TagImages(ctx context.Context, repository, tag string) ([]Image, error) {
	detailsURL := fmt.Sprintf("%s/v2/repositories/%s/tags/%s/images", c.baseURL(), repository, url.PathEscape(tag))
	body, err := c.get(ctx, detailsURL)
	if err != nil {
		return nil, err
	}
	images := []Image{}
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, &InvalidResponseError{URL: detailsURL, Err: err}
	}
	return images, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: reqURL, Err: err}
	}
	logrus.Debugf("GET %s: %s, %d bytes in %v", reqURL, resp.Status, len(body), time.Since(start))
	if c.Sink != nil {
		if _, err := c.Sink.Write(body); err != nil {
			logrus.Warnf("Copying raw response to the JSON sink: %v", err)
		}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        reqURL,
			Body:       body,
		}
	}
	return body, nil
}

package hub

import (
	"time"

	"github.com/opencontainers/go-digest"
)

// TagsPage is one response from the tag listing endpoint. The listing is
// paginated; Next carries the absolute URL of the following page, or nil on
// the last one.
type TagsPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Tag   `json:"results"`

	// Raw is the exact response body this page was parsed from.
	Raw []byte `json:"-"`
}

// Tag is one tag of a repository as the registry lists it. The registry
// sends more fields than these; unknown ones are ignored, so additions on
// the server side don't break parsing.
type Tag struct {
	Name        string     `json:"name"`
	FullSize    int64      `json:"full_size"`
	LastUpdated *time.Time `json:"last_updated"`
	Images      []Image    `json:"images"`
}

// Image is one architecture-specific image within a tag.
type Image struct {
	Architecture string        `json:"architecture"`
	Variant      string        `json:"variant"`
	OS           string        `json:"os"`
	Digest       digest.Digest `json:"digest"`
	Size         int64         `json:"size"`
	Status       string        `json:"status"`
}

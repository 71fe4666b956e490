package horizon

import (
	"errors"
	"net/url"
)

// Link is a HAL link
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Links is the _links block of a collection page
type Links struct {
	Self *Link `json:"self,omitempty"`
	Next *Link `json:"next,omitempty"`
	Prev *Link `json:"prev,omitempty"`
}

// Embedded is the _embedded block of a collection page
type Embedded[T any] struct {
	Records []T `json:"records"`
}

// Page is any Horizon collection response
type Page[T any] struct {
	Embedded *Embedded[T] `json:"_embedded"`
	Links    *Links       `json:"_links,omitempty"`
}

var errNoEmbedded = errors.New("horizon: page has no _embedded block")

func (p *Page[T]) validate() error {
	if p.Embedded == nil {
		return errNoEmbedded
	}
	return nil
}

// Records returns the page records, nil safe
func (p Page[T]) Records() []T {
	if p.Embedded == nil {
		return nil
	}
	return p.Embedded.Records
}

// NextHref returns the next link when present and non empty
func (p Page[T]) NextHref() (string, bool) {
	if p.Links == nil || p.Links.Next == nil || p.Links.Next.Href == "" {
		return "", false
	}
	return p.Links.Next.Href, true
}

// NextCursor returns the cursor query parameter of the next link
// no next link means the stream is drained for now
func (p Page[T]) NextCursor() (string, bool) {
	href, ok := p.NextHref()
	if !ok {
		return "", false
	}
	return CursorFromHref(href)
}

// CursorFromHref extracts the cursor query parameter from a Horizon link
func CursorFromHref(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	c := u.Query().Get("cursor")
	return c, c != ""
}

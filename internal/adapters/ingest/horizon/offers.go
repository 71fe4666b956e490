package horizon

import (
	"context"
)

// MaxLimit is the largest page size Horizon accepts
const MaxLimit = 200

// FetchOffers requests one page of GET /offers
// an empty cursor starts from the beginning of the stream
func (c *Client) FetchOffers(ctx context.Context, limit uint32, cursor string) (OffersPage, error) {
	var page OffersPage
	if err := c.getJSON(ctx, c.offersURL(limit, cursor), &page); err != nil {
		return OffersPage{}, err
	}
	return page, nil
}

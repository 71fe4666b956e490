package horizon

import (
	"encoding/json"

	"sdexindex/internal/core/offer"
)

// PriceR is the exact price ratio Horizon reports next to the decimal price
type PriceR struct {
	N int64 `json:"n"`
	D int64 `json:"d"`
}

// OfferRecord is one record of GET /offers as Horizon sends it
type OfferRecord struct {
	ID                 string          `json:"id"`
	PagingToken        string          `json:"paging_token,omitempty"`
	Seller             string          `json:"seller"`
	Selling            json.RawMessage `json:"selling"`
	Buying             json.RawMessage `json:"buying"`
	Amount             string          `json:"amount"`
	Price              string          `json:"price"`
	PriceR             *PriceR         `json:"price_r,omitempty"`
	LastModifiedLedger int64           `json:"last_modified_ledger"`
	// LastModifiedTime is decoded for logging only, offers never carry it
	LastModifiedTime *string `json:"last_modified_time,omitempty"`
	Sponsor          string  `json:"sponsor,omitempty"`
}

// Raw converts the wire record into the transport independent offer input
func (r OfferRecord) Raw() offer.Raw {
	out := offer.Raw{
		ID:                 r.ID,
		PagingToken:        r.PagingToken,
		Seller:             r.Seller,
		Selling:            r.Selling,
		Buying:             r.Buying,
		Amount:             r.Amount,
		Price:              r.Price,
		LastModifiedLedger: r.LastModifiedLedger,
	}
	if r.PriceR != nil {
		out.Ratio = &offer.Ratio{N: r.PriceR.N, D: r.PriceR.D}
	}
	return out
}

// RawRecords converts a whole page of records
func RawRecords(recs []OfferRecord) []offer.Raw {
	out := make([]offer.Raw, len(recs))
	for i, r := range recs {
		out[i] = r.Raw()
	}
	return out
}

// OffersPage is the decoded GET /offers response
type OffersPage = Page[OfferRecord]

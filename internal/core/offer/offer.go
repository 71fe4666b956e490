// Package offer builds validated SDEX offers from raw Horizon records
package offer

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"sdexindex/internal/core/asset"

	"github.com/shopspring/decimal"
)

// Ratio is the exact price as numerator over denominator
type Ratio struct {
	N int64 `json:"n"`
	D int64 `json:"d"`
}

// Raw is one upstream offer record before validation
// Selling and Buying stay undecoded until FromRaw parses them
type Raw struct {
	ID                 string
	PagingToken        string
	Seller             string
	Selling            json.RawMessage
	Buying             json.RawMessage
	Amount             string
	Price              string
	Ratio              *Ratio
	LastModifiedLedger int64
}

// Offer is a validated, immutable SDEX offer
type Offer struct {
	ID                 uint64
	PagingToken        string
	Seller             string
	Selling            asset.Asset
	Buying             asset.Asset
	Amount             string
	Price              string
	PriceN             int32
	PriceD             int32
	LastModifiedLedger uint64
	LastModifiedTime   *time.Time

	amount decimal.Decimal
	price  decimal.Decimal
}

// AmountDecimal returns the parsed amount
func (o Offer) AmountDecimal() decimal.Decimal { return o.amount }

// PriceDecimal returns the parsed price
func (o Offer) PriceDecimal() decimal.Decimal { return o.price }

// Pair returns the selling and buying identity keys
func (o Offer) Pair() (selling, buying asset.Key) {
	return asset.KeyOf(o.Selling), asset.KeyOf(o.Buying)
}

const (
	sellerLen    = 56
	sellerPrefix = 'G'
)

// FromRaw parses and validates r; the first failing guard wins
func FromRaw(r Raw) (Offer, error) {
	id, err := strconv.ParseUint(r.ID, 10, 64)
	if err != nil {
		return Offer{}, reject(InvalidID, r.ID, "id", r.ID, err)
	}

	selling, err := asset.ParseRaw(r.Selling)
	if err != nil {
		return Offer{}, reject(InvalidAsset, r.ID, "selling", "", err)
	}
	buying, err := asset.ParseRaw(r.Buying)
	if err != nil {
		return Offer{}, reject(InvalidAsset, r.ID, "buying", "", err)
	}

	n, d := int64(0), int64(1)
	if r.Ratio != nil {
		n, d = r.Ratio.N, r.Ratio.D
	}
	o := Offer{
		ID:                 id,
		PagingToken:        r.PagingToken,
		Seller:             r.Seller,
		Selling:            selling,
		Buying:             buying,
		Amount:             r.Amount,
		Price:              r.Price,
		LastModifiedLedger: uint64(max(r.LastModifiedLedger, 0)),
		LastModifiedTime:   nil,
	}

	if len(o.Seller) != sellerLen || o.Seller[0] != sellerPrefix {
		return Offer{}, reject(InvalidSeller, r.ID, "seller", o.Seller, nil)
	}
	if o.amount, err = positive(o.Amount); err != nil {
		return Offer{}, reject(InvalidAmount, r.ID, "amount", o.Amount, err)
	}
	if o.price, err = positive(o.Price); err != nil {
		return Offer{}, reject(InvalidPrice, r.ID, "price", o.Price, err)
	}
	if !fitsInt32(n) || !fitsInt32(d) {
		return Offer{}, reject(RatioOutOfRange, r.ID, "price_r", strconv.FormatInt(n, 10)+"/"+strconv.FormatInt(d, 10), nil)
	}
	o.PriceN, o.PriceD = int32(n), int32(d)
	if o.PriceD == 0 {
		return Offer{}, reject(ZeroDenominator, r.ID, "price_r", "", nil)
	}
	if asset.Equal(o.Selling, o.Buying) {
		return Offer{}, reject(SameAsset, r.ID, "buying", o.Buying.String(), nil)
	}
	return o, nil
}

// FromRecords converts each record on its own; a bad record never blocks the rest
// errs holds one entry per rejected record in input order
func FromRecords(records []Raw) (offers []Offer, errs []error) {
	offers = make([]Offer, 0, len(records))
	for _, r := range records {
		o, err := FromRaw(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		offers = append(offers, o)
	}
	return offers, errs
}

var errNotPositive = errors.New("must be greater than zero")

// positive parses s as a decimal literal and requires it to be > 0
func positive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, errNotPositive
	}
	return d, nil
}

func fitsInt32(v int64) bool { return v >= math.MinInt32 && v <= math.MaxInt32 }

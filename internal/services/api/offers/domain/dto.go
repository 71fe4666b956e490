// Package domain holds DTOs for offers http and service contracts
package domain

// ListInput filters the current offer book, keyset paginated on offer id
type ListInput struct {
	Selling string `query:"selling" validate:"omitempty,asset" example:"native"`
	Buying  string `query:"buying" validate:"omitempty,asset" example:"USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"`
	Seller  string `query:"seller" validate:"omitempty,stellar_account" example:"GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=200" example:"50"`
	After   uint64 `query:"after" example:"165561423"`
}

// DefaultLimit applies when ListInput.Limit is zero
const DefaultLimit = 50

// PriceR is the exact price ratio
type PriceR struct {
	N int32 `json:"n" example:"1"`
	D int32 `json:"d" example:"4"`
}

// Offer is one stored offer
// ids are strings since they span the full uint64 range
type Offer struct {
	ID                 string `json:"id" example:"165561423"`
	PagingToken        string `json:"paging_token" example:"165561423"`
	Seller             string `json:"seller" example:"GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"`
	Selling            string `json:"selling" example:"native"`
	Buying             string `json:"buying" example:"USDC:GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"`
	Amount             string `json:"amount" example:"12.5"`
	Price              string `json:"price" example:"0.25"`
	PriceR             PriceR `json:"price_r"`
	LastModifiedLedger int64  `json:"last_modified_ledger" example:"50123456"`
	LastSeenAt         string `json:"last_seen_at" example:"2026-01-02T03:04:05Z"`
}

// ListResult is one page of offers; Next is empty on the last page
type ListResult struct {
	Items []Offer
	Limit int
	Next  string
}

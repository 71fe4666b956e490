package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"sdexindex/internal/core/asset"
	"sdexindex/internal/core/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seller = "GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN"

func mustOffer(t *testing.T, id, buyCode string) offer.Offer {
	t.Helper()
	o, err := offer.FromRaw(offer.Raw{
		ID:      id,
		Seller:  seller,
		Selling: json.RawMessage(`{"asset_type":"native"}`),
		Buying: json.RawMessage(`{"asset_type":"credit_alphanum4","asset_code":"` + buyCode +
			`","asset_issuer":"` + seller + `"}`),
		Amount: "10",
		Price:  "2",
	})
	require.NoError(t, err)
	return o
}

func TestRejectionFrom_OfferError(t *testing.T) {
	t.Parallel()

	_, err := offer.FromRaw(offer.Raw{ID: "nope"})
	require.Error(t, err)

	rj := RejectionFrom(err)
	assert.Equal(t, "nope", rj.RawID)
	assert.Equal(t, "invalid_id", rj.Kind)
	assert.Equal(t, "id", rj.Field)
	assert.NotEmpty(t, rj.Reason)
}

func TestRejectionFrom_Foreign(t *testing.T) {
	t.Parallel()

	rj := RejectionFrom(errors.New("boom"))
	assert.Equal(t, Rejection{Kind: "unknown", Reason: "boom"}, rj)
}

func TestKeys_DistinctInOrder(t *testing.T) {
	t.Parallel()

	offers := []offer.Offer{
		mustOffer(t, "1", "USDC"),
		mustOffer(t, "2", "EURT"),
		mustOffer(t, "3", "USDC"),
	}
	keys := Keys(offers)
	require.Len(t, keys, 3)
	assert.Equal(t, asset.TypeNative, keys[0].Type)
	assert.Equal(t, "USDC", keys[1].Code)
	assert.Equal(t, "EURT", keys[2].Code)

	assert.Empty(t, Keys(nil))
}
